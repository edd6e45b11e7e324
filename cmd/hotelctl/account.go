package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hotel-chain/bootstrap"
	"hotel-chain/utils"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [ADDRESS]",
	Short: "Show an account balance",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
			address := senderAddr
			if len(args) == 1 {
				address = args[0]
			}
			address, err := resolveSender(address, app.Signer)
			if err != nil {
				return err
			}
			bal, err := app.Gateway.Balance(ctx, address)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"address": address, "balance": bal})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s ALGO\n", address, utils.MicroToString(bal))
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the ledger node's last round",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
			st, err := app.Node.Status(ctx)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "node %s at round %d\n", app.Config.Algod.URL, st.LastRound)
			return nil
		})
	},
}
