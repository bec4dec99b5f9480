package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront-client/internal/model"
	"storefront-client/internal/pricing"
)

func newWishlistCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage the wishlist",
	}
	cmd.AddCommand(
		newWishlistListCmd(a),
		newWishlistToggleCmd(a),
		newWishlistCountCmd(a),
	)
	return cmd
}

func newWishlistListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show wishlist contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := a.wishlist.Lines(cmd.Context(), a.session)
			if err != nil {
				return err
			}
			w := newTable()
			fmt.Fprintln(w, "PRODUCT\tNAME\tPRICE")
			for i := range lines {
				l := &lines[i]
				econ := pricing.ComputeLineEconomics(l)
				name := ""
				if l.Product != nil {
					name = l.Product.Name
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					l.ProductID(), name, model.FormatCents(econ.FinalUnit))
			}
			return w.Flush()
		},
	}
}

func newWishlistToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <product-id>",
		Short: "Add or remove a product from the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.wishlist.Toggle(cmd.Context(), a.session, model.Ident(args[0]))
			if err != nil {
				return err
			}
			fmt.Println(status)
			return nil
		},
	}
}

func newWishlistCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show the wishlist badge count",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(a.wishlist.Count(cmd.Context(), a.session))
			return nil
		},
	}
}
