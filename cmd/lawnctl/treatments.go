package main

import (
	"context"
	"fmt"
	"os"

	"lawn-care-scheduler/internal/app"
	"lawn-care-scheduler/internal/config"
	"lawn-care-scheduler/internal/domain/calendar"
	"lawn-care-scheduler/internal/domain/treatments"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func treatmentsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "treatments", Short: "Inspect and generate treatments"}
	cmd.AddCommand(treatmentsBackfillCmd())
	cmd.AddCommand(treatmentsListCmd())
	return cmd
}

func treatmentsBackfillCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "backfill <lawn-profile-id>",
		Short: "Generate missing treatments for the next N days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, cfg config.Config, svcs app.Services) error {
				if !cmd.Flags().Changed("days") {
					days = cfg.Schedule.BackfillDays
				}
				n, err := svcs.Treatments.Backfill(ctx, args[0], days)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(map[string]int{"generated": n})
				}
				fmt.Printf("generated %d treatment(s)\n", n)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "horizon in days (default from config)")
	return cmd
}

type listFlags struct {
	status   string
	template string
	from     string
	to       string
	page     int
	limit    int
	sort     string
	embed    bool
}

func (f listFlags) query() (treatments.ListQuery, error) {
	q := treatments.ListQuery{
		Filter:        treatments.Filter{TemplateID: f.template},
		Page:          f.page,
		Limit:         f.limit,
		EmbedTemplate: f.embed,
	}
	if f.status != "" {
		st, err := treatments.ParseStatus(f.status)
		if err != nil {
			return q, err
		}
		q.Status = &st
	}
	for _, p := range []struct {
		raw string
		dst **calendar.Date
	}{{f.from, &q.From}, {f.to, &q.To}} {
		if p.raw == "" {
			continue
		}
		d, err := calendar.ParseDate(p.raw)
		if err != nil {
			return q, err
		}
		*p.dst = &d
	}
	sort, err := treatments.ParseSort(f.sort)
	if err != nil {
		return q, err
	}
	q.Sort = sort
	return q, nil
}

func treatmentsListCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list <lawn-profile-id>",
		Short: "List treatments of a lawn profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := f.query()
			if err != nil {
				return err
			}
			return withServices(cmd.Context(), func(ctx context.Context, _ config.Config, svcs app.Services) error {
				page, err := svcs.Treatments.List(ctx, args[0], q)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(page)
				}

				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Date", "Status", "Template"})
				for _, t := range page.Items {
					tpl := t.TemplateID
					if t.Template != nil {
						tpl = t.Template.Name
					}
					tw.AppendRow(table.Row{t.ID, t.ProposedDate.String(), t.Status, tpl})
				}
				tw.AppendFooter(table.Row{"", "", "Total", page.Total})
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.status, "status", "", "active|completed|rejected|expired")
	cmd.Flags().StringVar(&f.template, "template-id", "", "template filter")
	cmd.Flags().StringVar(&f.from, "from", "", "min proposed_date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "max proposed_date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.page, "page", 1, "page (from 1)")
	cmd.Flags().IntVar(&f.limit, "limit", treatments.DefaultLimit, "page size")
	cmd.Flags().StringVar(&f.sort, "sort", "", "proposed_date_asc|proposed_date_desc")
	cmd.Flags().BoolVar(&f.embed, "embed-template", false, "include template summary")
	return cmd
}
