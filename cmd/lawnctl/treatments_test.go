package main

import (
	"testing"

	"lawn-care-scheduler/internal/domain/treatments"
)

func TestListFlagsQuery(t *testing.T) {
	q, err := listFlags{
		status: "completed",
		from:   "2026-04-01",
		to:     "2026-04-30",
		page:   2,
		limit:  10,
		sort:   "proposed_date_desc",
		embed:  true,
	}.query()
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if q.Status == nil || *q.Status != treatments.StatusCompleted {
		t.Fatalf("unexpected status: %v", q.Status)
	}
	if q.From == nil || q.From.String() != "2026-04-01" || q.To == nil || q.To.String() != "2026-04-30" {
		t.Fatalf("unexpected range: %v %v", q.From, q.To)
	}
	if q.Offset() != 10 || !q.Sort.Descending() || !q.EmbedTemplate {
		t.Fatalf("unexpected paging: %+v", q)
	}

	for _, bad := range []listFlags{
		{status: "pending", page: 1, limit: 1},
		{from: "04/01/2026", page: 1, limit: 1},
		{sort: "name", page: 1, limit: 1},
	} {
		if _, err := bad.query(); err == nil {
			t.Fatalf("expected error for %+v", bad)
		}
	}
}
