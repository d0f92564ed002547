package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"lawn-care-scheduler/internal/app"
	"lawn-care-scheduler/internal/config"
	"lawn-care-scheduler/internal/platform/logger"

	"github.com/spf13/cobra"
)

var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "lawnctl",
	Short: "Operator CLI for the lawn care scheduler",
	Long: `lawnctl runs maintenance tasks against the scheduler store:
migrations, template catalog import, treatment backfill, listing and expiry.
Configuration comes from --config, LAWN_* environment variables and flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if path := v.GetString("config"); path != "" {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("read config %s: %w", path, err)
			}
		}
		return nil
	},
}

func main() {
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPersistentFlags() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", "", "YAML config file")
	pf.String("db-driver", "", "memory|sqlite|postgres")
	pf.String("db-dsn", "", "postgres DSN or sqlite path")
	pf.Bool("json", false, "output JSON")

	_ = v.BindPFlag("config", pf.Lookup("config"))
	_ = v.BindPFlag("db.driver", pf.Lookup("db-driver"))
	_ = v.BindPFlag("db.dsn", pf.Lookup("db-dsn"))
	_ = v.BindPFlag("json", pf.Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(templatesCmd())
	rootCmd.AddCommand(treatmentsCmd())
	rootCmd.AddCommand(expireCmd())
}

// withServices abre el store configurado y arma los servicios.
func withServices(ctx context.Context, fn func(context.Context, config.Config, app.Services) error) error {
	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	stores, err := app.OpenStores(cfg.DB, true)
	if err != nil {
		return err
	}
	defer stores.Close()

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    "lawnctl",
		Output: os.Stderr,
	})
	return fn(ctx, cfg, app.NewServices(stores, cfg.Schedule, log))
}

func jsonOutput() bool {
	return v.GetBool("json")
}

func printJSON(x any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(x)
}
