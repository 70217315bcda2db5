package cmd

import (
	"context"
	"fmt"
	"time"

	"campus-connect/services"

	"github.com/spf13/cobra"
)

var promoteAdminCmd = &cobra.Command{
	Use:   "promote-admin <studentId>",
	Short: "Grant admin rights to an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		svc := services.New(a.store, a.tokens, a.email, a.locker)
		if err := svc.Identity.PromoteAdmin(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", args[0])
		return nil
	},
}
