// Package mcptools exposes the storefront operations as MCP tools using
// the official MCP Go SDK, so agents can browse the catalog and manage a
// cart and wishlist over one session.
package mcptools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"storefront-client/internal/cart"
	"storefront-client/internal/gateway"
	"storefront-client/internal/model"
	"storefront-client/internal/wishlist"
)

// Handler holds the services the tools operate on. The session is fixed at
// construction: one MCP server serves one user (or one guest).
type Handler struct {
	gateway  *gateway.Client
	cart     *cart.Service
	wishlist *wishlist.Service
	session  model.Session
	logger   *slog.Logger
}

// NewHandler builds the tool handler.
func NewHandler(gw *gateway.Client, cartSvc *cart.Service, wishSvc *wishlist.Service, session model.Session, logger *slog.Logger) *Handler {
	return &Handler{
		gateway:  gw,
		cart:     cartSvc,
		wishlist: wishSvc,
		session:  session,
		logger:   logger,
	}
}

// === Tool Input/Output Types ===

// ListProductsInput is the input schema for the list_products tool.
type ListProductsInput struct {
	Search     string `json:"search,omitempty" jsonschema:"search term"`
	CategoryID string `json:"category_id,omitempty" jsonschema:"category filter"`
	Page       int    `json:"page,omitempty" jsonschema:"page number"`
}

// GetProductInput is the input schema for the get_product tool.
type GetProductInput struct {
	ProductID string `json:"product_id" jsonschema:"product ID,required"`
}

// CartItemInput identifies one cart entry.
type CartItemInput struct {
	ProductID  string `json:"product_id" jsonschema:"product ID,required"`
	PackSizeID string `json:"pack_size_id,omitempty" jsonschema:"pack size variant ID"`
	Quantity   int    `json:"quantity,omitempty" jsonschema:"quantity, defaults to 1"`
}

// ToggleWishlistInput is the input schema for the toggle_wishlist tool.
type ToggleWishlistInput struct {
	ProductID string `json:"product_id" jsonschema:"product ID,required"`
}

// EmptyInput is the input schema for tools taking no arguments.
type EmptyInput struct{}

// ProductsOutput wraps a product listing.
type ProductsOutput struct {
	Products []model.Product `json:"products"`
}

// CartOutput is the cart view: lines plus computed totals.
type CartOutput struct {
	Lines    []model.CartLine `json:"lines"`
	Subtotal string           `json:"subtotal"`
	Tax      string           `json:"tax"`
	Total    string           `json:"total"`
	Count    int              `json:"count"`
}

// WishlistOutput wraps the wishlist view.
type WishlistOutput struct {
	Lines []model.CartLine `json:"lines"`
	Count int              `json:"count"`
}

// StatusOutput reports a mutation outcome.
type StatusOutput struct {
	Status string `json:"status"`
}

// NewServer creates an MCP server with the storefront tools registered.
func (h *Handler) NewServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "storefront-client",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Storefront shopping operations. " +
				"Use these tools to browse products and manage the cart and wishlist.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_products",
		Description: "List catalog products, optionally filtered by search term or category.",
	}, h.listProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_product",
		Description: "Get one product with its pack sizes, prices, and stock.",
	}, h.getProduct)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_to_cart",
		Description: "Add a product to the cart. Quantity defaults to 1.",
	}, h.addToCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "view_cart",
		Description: "View the cart lines and computed totals.",
	}, h.viewCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_quantity",
		Description: "Replace the quantity of an existing cart entry.",
	}, h.setQuantity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_from_cart",
		Description: "Remove an entry from the cart.",
	}, h.removeFromCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_wishlist",
		Description: "Add a product to the wishlist, or remove it if already present.",
	}, h.toggleWishlist)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "view_wishlist",
		Description: "View the wishlist contents.",
	}, h.viewWishlist)

	return server
}

// === Tool Handlers ===

func (h *Handler) listProducts(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListProductsInput,
) (*mcp.CallToolResult, *ProductsOutput, error) {
	products, err := h.gateway.Products(ctx, h.session, gateway.ProductQuery{
		Search:     input.Search,
		CategoryID: model.Ident(input.CategoryID),
		Page:       input.Page,
	})
	if err != nil {
		return nil, nil, h.toolError(err)
	}
	return nil, &ProductsOutput{Products: products}, nil
}

func (h *Handler) getProduct(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetProductInput,
) (*mcp.CallToolResult, *model.Product, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("product_id is required")
	}
	product, err := h.gateway.ProductByID(ctx, h.session, model.Ident(input.ProductID))
	if err != nil {
		return nil, nil, h.toolError(err)
	}
	return nil, product, nil
}

func (h *Handler) addToCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CartItemInput,
) (*mcp.CallToolResult, *StatusOutput, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("product_id is required")
	}
	qty := input.Quantity
	if qty < 1 {
		qty = 1
	}
	err := h.cart.Add(ctx, h.session,
		model.Ident(input.ProductID), model.Ident(input.PackSizeID), qty)
	if err != nil {
		return nil, nil, h.toolError(err)
	}
	return nil, &StatusOutput{Status: "added"}, nil
}

func (h *Handler) viewCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, *CartOutput, error) {
	lines, err := h.cart.Lines(ctx, h.session)
	if err != nil {
		return nil, nil, h.toolError(err)
	}
	totals := cart.ComputeTotals(lines)
	return nil, &CartOutput{
		Lines:    lines,
		Subtotal: model.FormatCents(totals.Subtotal),
		Tax:      model.FormatCents(totals.Tax),
		Total:    model.FormatCents(totals.Total),
		Count:    h.cart.Count(ctx, h.session),
	}, nil
}

func (h *Handler) setQuantity(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CartItemInput,
) (*mcp.CallToolResult, *StatusOutput, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("product_id is required")
	}
	if input.Quantity < 1 {
		return nil, nil, fmt.Errorf("quantity must be at least 1")
	}
	err := h.cart.UpdateQuantity(ctx, h.session,
		model.Ident(input.ProductID), model.Ident(input.PackSizeID), input.Quantity)
	if err != nil {
		return nil, nil, h.toolError(err)
	}
	return nil, &StatusOutput{Status: "updated"}, nil
}

func (h *Handler) removeFromCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CartItemInput,
) (*mcp.CallToolResult, *StatusOutput, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("product_id is required")
	}
	err := h.cart.Remove(ctx, h.session,
		model.Ident(input.ProductID), model.Ident(input.PackSizeID))
	if err != nil {
		return nil, nil, h.toolError(err)
	}
	return nil, &StatusOutput{Status: "removed"}, nil
}

func (h *Handler) toggleWishlist(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ToggleWishlistInput,
) (*mcp.CallToolResult, *StatusOutput, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("product_id is required")
	}
	status, err := h.wishlist.Toggle(ctx, h.session, model.Ident(input.ProductID))
	if err != nil {
		return nil, nil, h.toolError(err)
	}
	return nil, &StatusOutput{Status: string(status)}, nil
}

func (h *Handler) viewWishlist(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, *WishlistOutput, error) {
	lines, err := h.wishlist.Lines(ctx, h.session)
	if err != nil {
		return nil, nil, h.toolError(err)
	}
	return nil, &WishlistOutput{Lines: lines, Count: len(lines)}, nil
}

// toolError converts service errors to MCP-friendly errors.
func (h *Handler) toolError(err error) error {
	if apiErr, ok := err.(*model.APIError); ok {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	// Don't leak internal error details
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}
