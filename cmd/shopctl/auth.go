package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront-client/internal/gateway"
)

func newLoginCmd(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and merge guest cart and wishlist into the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, err := a.gateway.Login(ctx, gateway.Credentials{
				Email:    args[0],
				Password: password,
			})
			if err != nil {
				return err
			}
			if err := saveSession(a.cfg.StateDir, session); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			a.session = session

			if err := a.merger.MergeOnLogin(ctx, session); err != nil {
				a.logger.Warn("merging guest state failed", "error", err)
			}
			fmt.Println("logged in")
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var name, phone, password string

	cmd := &cobra.Command{
		Use:   "register <email>",
		Short: "Create an account and merge guest state into it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, err := a.gateway.Register(ctx, gateway.Registration{
				Name:                 name,
				Email:                args[0],
				Phone:                phone,
				Password:             password,
				PasswordConfirmation: password,
			})
			if err != nil {
				return err
			}
			if err := saveSession(a.cfg.StateDir, session); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			a.session = session

			// Registration yields a session, so the guest merge runs here
			// exactly as it does after a login.
			if err := a.merger.MergeOnLogin(ctx, session); err != nil {
				a.logger.Warn("merging guest state failed", "error", err)
			}
			fmt.Println("registered")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			p, err := a.gateway.Profile(cmd.Context(), a.session)
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s>\n", p.Name, p.Email)
			if p.Phone != "" {
				fmt.Println(p.Phone)
			}
			return nil
		},
	}
}

func newPasswdCmd(a *app) *cobra.Command {
	var current, next string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			err := a.gateway.ChangePassword(cmd.Context(), a.session, gateway.PasswordChange{
				CurrentPassword:      current,
				Password:             next,
				PasswordConfirmation: next,
			})
			if err != nil {
				return err
			}
			fmt.Println("password changed")
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	cmd.MarkFlagRequired("current")
	cmd.MarkFlagRequired("new")
	return cmd
}

// newResetCmd covers the three-step forgotten-password flow. The verify step
// prints the reset token the complete step consumes.
func newResetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset a forgotten password via emailed code",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "send <email>",
		Short: "Mail a one-time code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gateway.SendResetOTP(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("code sent")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "verify <email> <code>",
		Short: "Exchange the code for a reset token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.gateway.VerifyResetOTP(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	})

	var password string
	complete := &cobra.Command{
		Use:   "complete <token>",
		Short: "Set the new password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.gateway.CompletePasswordReset(cmd.Context(), args[0], password, password)
			if err != nil {
				return err
			}
			fmt.Println("password reset")
			return nil
		},
	}
	complete.Flags().StringVarP(&password, "password", "p", "", "new password")
	complete.MarkFlagRequired("password")
	cmd.AddCommand(complete)

	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.session.Authenticated() {
				fmt.Println("not logged in")
				return nil
			}
			// Best effort: the credential is discarded locally either way.
			if err := a.gateway.Logout(cmd.Context(), a.session); err != nil {
				a.logger.Warn("server logout failed", "error", err)
			}
			if err := clearSession(a.cfg.StateDir); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}
