package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront-client/internal/gateway"
	"storefront-client/internal/model"
	"storefront-client/internal/pricing"
)

func newProductsCmd(a *app) *cobra.Command {
	var search, category string
	var page int

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.gateway.Products(cmd.Context(), a.session, gateway.ProductQuery{
				Search:     search,
				CategoryID: model.Ident(category),
				Page:       page,
			})
			if err != nil {
				return err
			}
			printProducts(products)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "search term")
	cmd.Flags().StringVar(&category, "category", "", "category id")
	cmd.Flags().IntVar(&page, "page", 0, "page number")
	return cmd
}

func newProductCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.gateway.ProductByID(cmd.Context(), a.session, model.Ident(args[0]))
			if err != nil {
				return err
			}
			printProductDetail(p)
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.gateway.SearchProducts(cmd.Context(), a.session, args[0])
			if err != nil {
				return err
			}
			printProducts(products)
			return nil
		},
	}
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := a.gateway.Categories(cmd.Context(), a.session)
			if err != nil {
				return err
			}
			w := newTable()
			fmt.Fprintln(w, "ID\tNAME")
			for _, c := range cats {
				fmt.Fprintf(w, "%s\t%s\n", c.ID, c.Name)
			}
			return w.Flush()
		},
	}
}

func newOffersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "offers",
		Short: "List products on promotion",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.gateway.Offers(cmd.Context(), a.session)
			if err != nil {
				return err
			}
			printProducts(products)
			return nil
		},
	}
}

func newBranchesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "branches",
		Short: "List store locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			branches, err := a.gateway.Branches(cmd.Context())
			if err != nil {
				return err
			}
			w := newTable()
			fmt.Fprintln(w, "ID\tNAME\tADDRESS\tPHONE")
			for _, b := range branches {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.Name, b.Address, b.Phone)
			}
			return w.Flush()
		},
	}
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printProducts(products []model.Product) {
	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK")
	for i := range products {
		p := &products[i]
		line := model.LineFor(p, 1, "")
		econ := pricing.ComputeLineEconomics(&line)
		av := pricing.ComputeAvailability(&line)

		stock := "-"
		if av.OutOfStock {
			stock = "out of stock"
		} else if av.HasCeiling {
			stock = fmt.Sprintf("%d", av.Ceiling)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, model.FormatCents(econ.FinalUnit), stock)
	}
	w.Flush()
}

func printProductDetail(p *model.Product) {
	line := model.LineFor(p, 1, "")
	econ := pricing.ComputeLineEconomics(&line)
	av := pricing.ComputeAvailability(&line)

	fmt.Printf("ID:      %s\n", p.ID)
	fmt.Printf("Name:    %s\n", p.Name)
	if p.SKU != "" {
		fmt.Printf("SKU:     %s\n", p.SKU)
	}
	fmt.Printf("Price:   %s", model.FormatCents(econ.FinalUnit))
	if econ.UnitDiscount > 0 {
		fmt.Printf(" (was %s)", model.FormatCents(econ.BaseUnit))
	}
	fmt.Println()
	if av.OutOfStock {
		fmt.Println("Stock:   out of stock")
	} else if av.HasCeiling {
		fmt.Printf("Stock:   %d\n", av.Ceiling)
	}
	if len(p.PackSizes) > 0 {
		fmt.Println("Packs:")
		for i := range p.PackSizes {
			ps := &p.PackSizes[i]
			packLine := model.LineFor(p, 1, ps.Ref())
			packEcon := pricing.ComputeLineEconomics(&packLine)
			fmt.Printf("  %s\t%s\t%s\n", ps.Ref(), ps.Name, model.FormatCents(packEcon.FinalUnit))
		}
	}
}
