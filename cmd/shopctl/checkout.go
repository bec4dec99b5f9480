package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront-client/internal/gateway"
	"storefront-client/internal/model"
)

func requireAuth(a *app) error {
	if !a.session.Authenticated() {
		return model.NewUnauthorizedError("log in first")
	}
	return nil
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the server-computed checkout totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			s, err := a.gateway.CartSummary(cmd.Context(), a.session)
			if err != nil {
				return err
			}
			if s.Subtotal.Valid {
				fmt.Printf("Subtotal: %s\n", model.FormatCents(model.CentsFromFloat(s.Subtotal.Value)))
			}
			if s.Discount.Positive() {
				fmt.Printf("Discount: %s\n", model.FormatCents(model.CentsFromFloat(s.Discount.Value)))
			}
			if s.DeliveryFee.Positive() {
				fmt.Printf("Delivery: %s\n", model.FormatCents(model.CentsFromFloat(s.DeliveryFee.Value)))
			}
			if code := s.AppliedCoupon(); code != "" {
				fmt.Printf("Coupon:   %s\n", code)
			}
			fmt.Printf("Total:    %s\n", model.FormatCents(s.FinalTotal()))
			return nil
		},
	}
}

func newCouponCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coupon",
		Short: "Manage cart coupons",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available coupons",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			coupons, err := a.gateway.AvailableCoupons(cmd.Context(), a.session)
			if err != nil {
				return err
			}
			w := newTable()
			fmt.Fprintln(w, "CODE\tDESCRIPTION")
			for _, c := range coupons {
				fmt.Fprintf(w, "%s\t%s\n", c.Code, c.Description)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "apply <code>",
		Short: "Apply a coupon to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			s, err := a.gateway.ApplyCoupon(cmd.Context(), a.session, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("applied, total now %s\n", model.FormatCents(s.FinalTotal()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <code>",
		Short: "Check a coupon code without applying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			c, err := a.gateway.ValidateCoupon(cmd.Context(), a.session, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %g %s off\n", c.Code, c.Discount.Or(0), c.Type)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove",
		Short: "Remove the applied coupon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			if err := a.gateway.RemoveCoupon(cmd.Context(), a.session); err != nil {
				return err
			}
			fmt.Println("removed")
			return nil
		},
	})

	return cmd
}

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List order history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			orders, err := a.gateway.Orders(cmd.Context(), a.session)
			if err != nil {
				return err
			}
			w := newTable()
			fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tPLACED")
			for _, o := range orders {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					o.ID, o.Status,
					model.FormatCents(model.CentsFromFloat(o.Total.Or(0))), o.CreatedAt)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			o, err := a.gateway.OrderByID(cmd.Context(), a.session, model.Ident(args[0]))
			if err != nil {
				return err
			}
			fmt.Printf("Order %s: %s, total %s\n",
				o.ID, o.Status, model.FormatCents(model.CentsFromFloat(o.Total.Or(0))))
			for i := range o.Lines {
				l := &o.Lines[i]
				name := ""
				if l.Product != nil {
					name = l.Product.Name
				}
				fmt.Printf("  %s x%d %s\n", l.ProductID(), l.LineQuantity(), name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			if err := a.gateway.CancelOrder(cmd.Context(), a.session, model.Ident(args[0])); err != nil {
				return err
			}
			fmt.Println("cancelled")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "track <id>",
		Short: "Show an order's fulfilment history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			tr, err := a.gateway.TrackOrder(cmd.Context(), a.session, model.Ident(args[0]))
			if err != nil {
				return err
			}
			fmt.Printf("status: %s\n", tr.Status)
			for _, u := range tr.Updates {
				fmt.Printf("  %s %s %s\n", u.CreatedAt, u.Status, u.Note)
			}
			return nil
		},
	})

	var payMethod string
	pay := &cobra.Command{
		Use:   "pay <id>",
		Short: "Settle an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			res, err := a.gateway.ProcessPayment(cmd.Context(), a.session, gateway.PaymentRequest{
				OrderID:         model.Ident(args[0]),
				PaymentMethodID: model.Ident(payMethod),
			})
			if err != nil {
				return err
			}
			fmt.Printf("payment %s: %s\n", res.Reference, res.Status)
			return nil
		},
	}
	pay.Flags().StringVar(&payMethod, "method", "", "payment method id")
	cmd.AddCommand(pay)

	return cmd
}

func newCheckoutCmd(a *app) *cobra.Command {
	var address, branch, payment, note string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			order, err := a.gateway.PlaceOrder(cmd.Context(), a.session, gateway.CheckoutRequest{
				AddressID:       model.Ident(address),
				BranchID:        model.Ident(branch),
				PaymentMethodID: model.Ident(payment),
				Note:            note,
			})
			if err != nil {
				return err
			}
			fmt.Printf("order %s placed, status %s\n", order.ID, order.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "delivery address id")
	cmd.Flags().StringVar(&branch, "branch", "", "pickup branch id")
	cmd.Flags().StringVar(&payment, "payment", "", "payment method id")
	cmd.Flags().StringVar(&note, "note", "", "order note")
	return cmd
}
