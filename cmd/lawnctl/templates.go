package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"lawn-care-scheduler/internal/app"
	"lawn-care-scheduler/internal/config"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func templatesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "templates", Short: "Manage treatment templates"}
	cmd.AddCommand(templatesImportCmd())
	cmd.AddCommand(templatesListCmd())
	return cmd
}

func templatesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <catalog.yaml>",
		Short: "Upsert templates from a YAML catalog (matched by name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, _ config.Config, svcs app.Services) error {
				res, err := app.ImportCatalog(ctx, svcs.Templates, args[0])
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(res)
				}
				fmt.Printf("templates created=%d updated=%d\n", res.Created, res.Updated)
				return nil
			})
		},
	}
}

func templatesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List treatment templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, _ config.Config, svcs app.Services) error {
				items, err := svcs.Templates.List(ctx)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(items)
				}

				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Kind", "Cooldown", "Periods", "Priority"})
				for _, t := range items {
					periods := make([]string, 0, len(t.Periods))
					for _, p := range t.Periods {
						periods = append(periods, string(p.Start)+".."+string(p.End))
					}
					tw.AppendRow(table.Row{t.ID, t.Name, t.Kind, t.MinCooldownDays, strings.Join(periods, ", "), t.Priority})
				}
				tw.Render()
				return nil
			})
		},
	}
}
