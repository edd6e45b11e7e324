package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hotel-chain/bootstrap"
	"hotel-chain/config"
	"hotel-chain/logging"
	"hotel-chain/wallet"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Global flags
	cfgFile    string
	senderAddr string
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "hotelctl",
	Short: "Manage on-chain hotel rooms and reservations",
	Long: `hotelctl lists reservation contracts and submits room operations
through the configured ledger node and wallet.

Configuration comes from .env, the environment (ALGOD_URL, INDEXER_URL,
WALLET_MNEMONIC, WALLET_REMOTE_URL, ...) and an optional YAML file.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (YAML)")
	rootCmd.PersistentFlags().StringVarP(&senderAddr, "sender", "s", "", "sender address (defaults to the mnemonic account)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(reserveCmd)
	rootCmd.AddCommand(endCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(statusCmd)
}

// withApp builds an App for one command and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, err := logging.NewLogger(level, "console", "hotelctl")
	if err != nil {
		return err
	}
	defer logger.Sync()

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close", zap.Error(err))
		}
	}()
	return fn(cmd.Context(), app)
}

// resolveSender returns the --sender flag, or the address of a local
// account signer.
func resolveSender(flag string, signer wallet.Signer) (string, error) {
	if s := strings.TrimSpace(flag); s != "" {
		return s, nil
	}
	if acct, ok := signer.(*wallet.AccountSigner); ok {
		return acct.Address(), nil
	}
	return "", fmt.Errorf("--sender is required when no wallet mnemonic is configured")
}

func parseRoomID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid room id %q", arg)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
