package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"storefront-client/internal/model"
	"storefront-client/internal/pricing"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the cart",
	}
	cmd.AddCommand(
		newCartListCmd(a),
		newCartAddCmd(a),
		newCartQtyCmd(a),
		newCartRemoveCmd(a),
		newCartClearCmd(a),
		newCartCountCmd(a),
	)
	return cmd
}

func newCartListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show cart contents and totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := a.cart.Lines(cmd.Context(), a.session)
			if err != nil {
				return err
			}
			w := newTable()
			fmt.Fprintln(w, "PRODUCT\tNAME\tPACK\tQTY\tUNIT\tLINE")
			for i := range lines {
				l := &lines[i]
				econ := pricing.ComputeLineEconomics(l)
				name := ""
				if l.Product != nil {
					name = l.Product.Name
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					l.ProductID(), name, l.TargetPackID(), econ.Quantity,
					model.FormatCents(econ.FinalUnit), model.FormatCents(econ.LineFinal))
			}
			w.Flush()

			totals, err := a.cart.Totals(cmd.Context(), a.session)
			if err != nil {
				return err
			}
			fmt.Printf("\nSubtotal: %s\n", model.FormatCents(totals.Subtotal))
			if totals.Discount > 0 {
				fmt.Printf("Saved:    %s\n", model.FormatCents(totals.Discount))
			}
			fmt.Printf("Tax:      %s\n", model.FormatCents(totals.Tax))
			fmt.Printf("Total:    %s\n", model.FormatCents(totals.Total))
			return nil
		},
	}
}

func newCartAddCmd(a *app) *cobra.Command {
	var pack string
	var qty int

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.cart.Add(cmd.Context(), a.session,
				model.Ident(args[0]), model.Ident(pack), qty)
			if err != nil {
				return err
			}
			fmt.Println("added")
			return nil
		},
	}
	cmd.Flags().StringVar(&pack, "pack", "", "pack size id")
	cmd.Flags().IntVar(&qty, "qty", 1, "quantity")
	return cmd
}

func newCartQtyCmd(a *app) *cobra.Command {
	var pack string

	cmd := &cobra.Command{
		Use:   "qty <product-id> <quantity>",
		Short: "Set an entry's quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("quantity must be a positive integer")
			}
			err = a.cart.UpdateQuantity(cmd.Context(), a.session,
				model.Ident(args[0]), model.Ident(pack), n)
			if err != nil {
				return err
			}
			fmt.Println("updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&pack, "pack", "", "pack size id")
	return cmd
}

func newCartRemoveCmd(a *app) *cobra.Command {
	var pack string

	cmd := &cobra.Command{
		Use:     "rm <product-id>",
		Aliases: []string{"remove"},
		Short:   "Remove an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.cart.Remove(cmd.Context(), a.session,
				model.Ident(args[0]), model.Ident(pack))
			if err != nil {
				return err
			}
			fmt.Println("removed")
			return nil
		},
	}
	cmd.Flags().StringVar(&pack, "pack", "", "pack size id")
	return cmd
}

func newCartClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cart.Clear(cmd.Context(), a.session); err != nil {
				return err
			}
			fmt.Println("cleared")
			return nil
		},
	}
}

func newCartCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show the cart badge count",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(a.cart.Count(cmd.Context(), a.session))
			return nil
		},
	}
}
