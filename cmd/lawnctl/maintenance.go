package main

import (
	"context"
	"fmt"

	"lawn-care-scheduler/internal/app"
	"lawn-care-scheduler/internal/config"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, cfg config.Config, _ app.Services) error {
				if cfg.DB.Driver == config.DriverMemory {
					return fmt.Errorf("migrate needs db.driver sqlite or postgres")
				}
				// OpenStores ya aplicó las migraciones.
				fmt.Printf("migrations applied (%s)\n", cfg.DB.Driver)
				return nil
			})
		},
	}
}

func expireCmd() *cobra.Command {
	var grace int
	cmd := &cobra.Command{
		Use:   "expire",
		Short: "Mark overdue active treatments as expired",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, cfg config.Config, svcs app.Services) error {
				if !cmd.Flags().Changed("grace-days") {
					grace = cfg.Expiry.GraceDays
				}
				n, err := svcs.Treatments.ExpireOverdue(ctx, grace)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(map[string]int{"expired": n})
				}
				fmt.Printf("expired %d treatment(s)\n", n)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&grace, "grace-days", 0, "days after proposed_date before expiring (default from config)")
	return cmd
}
