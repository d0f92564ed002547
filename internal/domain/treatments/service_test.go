package treatments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"lawn-care-scheduler/internal/domain/calendar"
	"lawn-care-scheduler/internal/domain/templates"
)

// -------------------------
// Test doubles (in-memory)
// -------------------------

type testRepo struct {
	byID      map[string]Treatment
	history   []HistoryEntry
	templates map[string]templates.Template

	insertErr error
	listCalls int
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:      map[string]Treatment{},
		templates: map[string]templates.Template{},
	}
}

func (r *testRepo) InsertMany(ctx context.Context, items []Treatment) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, t := range items {
		for _, o := range r.byID {
			if o.LawnProfileID == t.LawnProfileID && o.TemplateID == t.TemplateID && o.ProposedDate.Equal(t.ProposedDate) {
				return ErrConflict
			}
		}
	}
	for _, t := range items {
		r.byID[t.ID] = t
	}
	return nil
}

func (r *testRepo) ExistingOccurrences(ctx context.Context, lawnID string, from, to calendar.Date) (OccurrenceSet, error) {
	out := OccurrenceSet{}
	f := Filter{From: &from, To: &to}
	for _, t := range r.byID {
		if t.LawnProfileID == lawnID && f.Matches(t) {
			out.Add(t.TemplateID, t.ProposedDate)
		}
	}
	return out, nil
}

func (r *testRepo) matching(lawnID string, f Filter) []Treatment {
	out := make([]Treatment, 0)
	for _, t := range r.byID {
		if t.LawnProfileID == lawnID && f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func (r *testRepo) List(ctx context.Context, lawnID string, f Filter, s Sort, offset, limit int, embed bool) ([]Treatment, error) {
	r.listCalls++
	items := r.matching(lawnID, f)
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.ProposedDate.Equal(b.ProposedDate) {
			if s.Descending() {
				return a.ProposedDate.After(b.ProposedDate)
			}
			return a.ProposedDate.Before(b.ProposedDate)
		}
		return a.ID < b.ID
	})
	if offset >= len(items) {
		return []Treatment{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	page := items[offset:end]
	if embed {
		for i := range page {
			if tpl, ok := r.templates[page[i].TemplateID]; ok {
				sum := tpl.Summary()
				page[i].Template = &sum
			}
		}
	}
	return page, nil
}

func (r *testRepo) Count(ctx context.Context, lawnID string, f Filter) (int, error) {
	return len(r.matching(lawnID, f)), nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Treatment, error) {
	t, ok := r.byID[id]
	if !ok {
		return Treatment{}, ErrNotFound
	}
	return t, nil
}

func (r *testRepo) UpdateStatus(ctx context.Context, tr Transition) (Treatment, error) {
	t, ok := r.byID[tr.TreatmentID]
	if !ok {
		return Treatment{}, ErrNotFound
	}
	if t.Status != tr.From {
		return Treatment{}, ErrConflict
	}
	t.Status = tr.To
	t.UpdatedAt = tr.At
	r.byID[t.ID] = t
	r.history = append(r.history, HistoryEntry{
		ID:              fmt.Sprintf("h-%d", len(r.history)+1),
		TreatmentID:     t.ID,
		LawnProfileID:   t.LawnProfileID,
		StatusOld:       tr.From,
		StatusNew:       tr.To,
		PerformedDate:   tr.PerformedDate,
		RejectionReason: tr.RejectionReason,
		CreatedAt:       tr.At,
	})
	return t, nil
}

func (r *testRepo) ExpireBefore(ctx context.Context, cutoff calendar.Date, at time.Time) (int, error) {
	n := 0
	for id, t := range r.byID {
		if t.Status == StatusActive && t.ProposedDate.Before(cutoff) {
			t.Status = StatusExpired
			t.UpdatedAt = at
			r.byID[id] = t
			n++
		}
	}
	return n, nil
}

func (r *testRepo) History(ctx context.Context, treatmentID string) ([]HistoryEntry, error) {
	var out []HistoryEntry
	for _, h := range r.history {
		if h.TreatmentID == treatmentID {
			out = append(out, h)
		}
	}
	return out, nil
}

type testTemplates struct {
	items []templates.Template
	err   error
}

func (t *testTemplates) List(ctx context.Context) ([]templates.Template, error) {
	return t.items, t.err
}

type testOwners map[string]string

func (o testOwners) OwnerOf(ctx context.Context, lawnID string) (string, error) {
	owner, ok := o[lawnID]
	if !ok {
		return "", ErrLawnNotFound
	}
	return owner, nil
}

var testNow = time.Date(2026, 4, 1, 15, 30, 0, 0, time.UTC)

func newTestService(repo *testRepo, tpls ...templates.Template) *Service {
	for _, tpl := range tpls {
		repo.templates[tpl.ID] = tpl
	}
	svc := NewService(repo, &testTemplates{items: tpls}, testOwners{"lawn-1": "user-a", "lawn-2": "user-b"})
	svc.now = func() time.Time { return testNow }
	return svc
}

func seed(repo *testRepo, lawnID, templateID string, status Status, days ...string) []Treatment {
	out := make([]Treatment, 0, len(days))
	for _, d := range days {
		t := Treatment{
			ID:             fmt.Sprintf("t-%s-%s-%s", lawnID, templateID, d),
			LawnProfileID:  lawnID,
			TemplateID:     templateID,
			ProposedDate:   calendar.MustParseDate(d),
			Status:         status,
			GenerationKind: GenerationStatic,
			CreatedAt:      testNow,
			UpdatedAt:      testNow,
		}
		repo.byID[t.ID] = t
		out = append(out, t)
	}
	return out
}

func defaultQuery() ListQuery {
	return ListQuery{Page: 1, Limit: DefaultLimit, Sort: SortProposedDateAsc}
}

// -------------------------
// Tests
// -------------------------

func TestService_List_PaginationAndSort(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	seed(repo, "lawn-1", "tpl-a", StatusActive,
		"2026-04-05", "2026-04-01", "2026-04-03", "2026-04-02", "2026-04-04", "2026-04-07", "2026-04-06")
	seed(repo, "lawn-2", "tpl-a", StatusActive, "2026-04-01")

	const n, limit = 7, 3
	for page := 1; page <= 4; page++ {
		for _, s := range []Sort{SortProposedDateAsc, SortProposedDateDesc} {
			q := ListQuery{Page: page, Limit: limit, Sort: s}
			got, err := svc.List(context.Background(), "lawn-1", q)
			if err != nil {
				t.Fatalf("List error: %v", err)
			}
			want := limit
			if rem := n - (page-1)*limit; rem < want {
				want = rem
			}
			if want < 0 {
				want = 0
			}
			if len(got.Items) != want || got.Total != n {
				t.Fatalf("page=%d sort=%s: expected %d items / total %d, got %d / %d",
					page, s, want, n, len(got.Items), got.Total)
			}
			for i := 1; i < len(got.Items); i++ {
				prev, cur := got.Items[i-1].ProposedDate, got.Items[i].ProposedDate
				if s == SortProposedDateAsc && !prev.Before(cur) {
					t.Fatalf("expected ascending order, got %s then %s", prev, cur)
				}
				if s == SortProposedDateDesc && !prev.After(cur) {
					t.Fatalf("expected descending order, got %s then %s", prev, cur)
				}
			}
		}
	}
}

func TestService_List_FiltersAreCombined(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	seed(repo, "lawn-1", "tpl-a", StatusActive, "2026-04-01", "2026-04-10", "2026-04-20")
	seed(repo, "lawn-1", "tpl-b", StatusActive, "2026-04-10")
	seed(repo, "lawn-1", "tpl-a", StatusCompleted, "2026-04-11")

	active := StatusActive
	from := calendar.MustParseDate("2026-04-05")
	to := calendar.MustParseDate("2026-04-20")

	q := defaultQuery()
	q.Filter = Filter{Status: &active, TemplateID: "tpl-a", From: &from, To: &to}

	got, err := svc.List(context.Background(), "lawn-1", q)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if got.Total != 2 || got.Items[0].ProposedDate.String() != "2026-04-10" || got.Items[1].ProposedDate.String() != "2026-04-20" {
		t.Fatalf("unexpected page: total=%d items=%v", got.Total, got.Items)
	}
}

func TestService_List_Validation(t *testing.T) {
	svc := newTestService(newTestRepo())

	from := calendar.MustParseDate("2026-04-10")
	to := calendar.MustParseDate("2026-04-01")
	bogus := Status("pending")

	cases := map[string]ListQuery{
		"page 0":      {Page: 0, Limit: 10, Sort: SortProposedDateAsc},
		"limit 0":     {Page: 1, Limit: 0, Sort: SortProposedDateAsc},
		"limit 101":   {Page: 1, Limit: 101, Sort: SortProposedDateAsc},
		"sort":        {Page: 1, Limit: 10, Sort: "name"},
		"from > to":   {Page: 1, Limit: 10, Sort: SortProposedDateAsc, Filter: Filter{From: &from, To: &to}},
		"status enum": {Page: 1, Limit: 10, Sort: SortProposedDateAsc, Filter: Filter{Status: &bogus}},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.List(context.Background(), "lawn-1", q); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_ListUpcoming_EqualsExplicitList(t *testing.T) {
	repo := newTestRepo()
	tpl := templates.Template{ID: "tpl-a", Name: "Mowing", Kind: templates.KindMowing, MinCooldownDays: 7}
	svc := newTestService(repo, tpl)

	seed(repo, "lawn-1", "tpl-a", StatusActive, "2026-03-31", "2026-04-01", "2026-04-06", "2026-04-11", "2026-04-12")
	seed(repo, "lawn-1", "tpl-a", StatusCompleted, "2026-04-03")

	upcoming, err := svc.ListUpcoming(context.Background(), "lawn-1", 10)
	if err != nil {
		t.Fatalf("ListUpcoming error: %v", err)
	}

	active := StatusActive
	from := calendar.MustParseDate("2026-04-01")
	to := calendar.MustParseDate("2026-04-11")
	explicit, err := svc.List(context.Background(), "lawn-1", ListQuery{
		Filter:        Filter{Status: &active, From: &from, To: &to},
		Page:          1,
		Limit:         100,
		Sort:          SortProposedDateAsc,
		EmbedTemplate: true,
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}

	if upcoming.Total != 3 || explicit.Total != upcoming.Total || len(explicit.Items) != len(upcoming.Items) {
		t.Fatalf("expected identical pages of 3, got %d/%d", upcoming.Total, explicit.Total)
	}
	for i := range upcoming.Items {
		if upcoming.Items[i].ID != explicit.Items[i].ID {
			t.Fatalf("item %d differs: %s vs %s", i, upcoming.Items[i].ID, explicit.Items[i].ID)
		}
		if upcoming.Items[i].Template == nil || upcoming.Items[i].Template.Name != "Mowing" {
			t.Fatalf("expected embedded template, got %#v", upcoming.Items[i].Template)
		}
	}
}

func TestService_ListWithBackfill_NarrowsToRequestedWindow(t *testing.T) {
	repo := newTestRepo()
	tpl := templates.Template{
		ID:              "tpl-mow",
		Name:            "Mowing",
		Kind:            templates.KindMowing,
		MinCooldownDays: 7,
		Periods:         []calendar.Period{{Start: "04-01", End: "09-30"}},
	}
	svc := newTestService(repo, tpl)

	q := svc.UpcomingQuery()
	page, err := svc.ListWithBackfill(context.Background(), "lawn-1", q)
	if err != nil {
		t.Fatalf("ListWithBackfill error: %v", err)
	}

	// Backfill de 60 días desde 04-01: 04-01, 04-08, ..., 05-27 (9 filas).
	if len(repo.byID) != 9 {
		t.Fatalf("expected 9 generated treatments, got %d", len(repo.byID))
	}
	// La ventana de 10 días solo ve 04-01 y 04-08.
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("expected 2 upcoming treatments, got total=%d items=%d", page.Total, len(page.Items))
	}
	if page.Items[0].ProposedDate.String() != "2026-04-01" || page.Items[1].ProposedDate.String() != "2026-04-08" {
		t.Fatalf("unexpected dates: %s %s", page.Items[0].ProposedDate, page.Items[1].ProposedDate)
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected exactly one retry, got %d list calls", repo.listCalls)
	}
}

func TestService_ListWithBackfill_OnlyForActiveQueries(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, mowingTemplate())

	if _, err := svc.ListWithBackfill(context.Background(), "lawn-1", defaultQuery()); err != nil {
		t.Fatalf("ListWithBackfill error: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected no backfill without status=active, got %d rows", len(repo.byID))
	}
}

func TestService_ListWithBackfill_EmptyWhenNothingToGenerate(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo) // sin plantillas

	page, err := svc.ListWithBackfill(context.Background(), "lawn-1", svc.UpcomingQuery())
	if err != nil {
		t.Fatalf("ListWithBackfill error: %v", err)
	}
	if page.Total != 0 || len(page.Items) != 0 {
		t.Fatalf("expected empty page, got %+v", page)
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected a single re-query, got %d list calls", repo.listCalls)
	}
}

func TestService_ListWithBackfill_SwallowsGenerationFailure(t *testing.T) {
	repo := newTestRepo()
	repo.insertErr = errors.New("connection reset")
	svc := newTestService(repo, mowingTemplate())

	page, err := svc.ListWithBackfill(context.Background(), "lawn-1", svc.UpcomingQuery())
	if err != nil {
		t.Fatalf("expected read to survive backfill failure, got %v", err)
	}
	if page.Total != 0 || page.Items == nil {
		t.Fatalf("expected empty non-nil page, got %+v", page)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected no re-query after failure, got %d list calls", repo.listCalls)
	}
}

func TestService_Backfill_ConflictIsBenign(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, mowingTemplate())

	repo.insertErr = ErrConflict
	n, err := svc.Backfill(context.Background(), "lawn-1", 10)
	if err != nil || n != 0 {
		t.Fatalf("expected (0, nil) on conflict, got (%d, %v)", n, err)
	}

	repo.insertErr = errors.New("disk full")
	_, err = svc.Backfill(context.Background(), "lawn-1", 10)
	var se *StoreError
	if !errors.As(err, &se) || se.Op != "insert treatments" {
		t.Fatalf("expected StoreError, got %v", err)
	}
}

func TestService_Backfill_IsIdempotent(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, mowingTemplate())

	n1, err := svc.Backfill(context.Background(), "lawn-1", 60)
	if err != nil || n1 == 0 {
		t.Fatalf("first backfill: n=%d err=%v", n1, err)
	}
	n2, err := svc.Backfill(context.Background(), "lawn-1", 60)
	if err != nil || n2 != 0 {
		t.Fatalf("second backfill: expected 0 new rows, got n=%d err=%v", n2, err)
	}
}

func TestService_Complete_StateMachine(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	tr := seed(repo, "lawn-1", "tpl-a", StatusActive, "2026-04-01")[0]

	got, err := svc.Complete(context.Background(), tr.ID, "user-a", "2026-04-02")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if got.Status != StatusCompleted || !got.UpdatedAt.Equal(testNow) {
		t.Fatalf("unexpected treatment: %#v", got)
	}

	_, err = svc.Complete(context.Background(), tr.ID, "user-a", "")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on second completion, got %v", err)
	}
	if repo.byID[tr.ID].Status != StatusCompleted {
		t.Fatalf("status changed after conflict: %s", repo.byID[tr.ID].Status)
	}

	hist, err := svc.History(context.Background(), tr.ID, "user-a")
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(hist) != 1 || hist[0].StatusOld != StatusActive || hist[0].StatusNew != StatusCompleted {
		t.Fatalf("unexpected history: %#v", hist)
	}
	if hist[0].PerformedDate == nil || hist[0].PerformedDate.String() != "2026-04-02" {
		t.Fatalf("expected performed date 2026-04-02, got %v", hist[0].PerformedDate)
	}
}

func TestService_Complete_DefaultsPerformedDateToToday(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	tr := seed(repo, "lawn-1", "tpl-a", StatusActive, "2026-03-30")[0]

	if _, err := svc.Complete(context.Background(), tr.ID, "user-a", ""); err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if pd := repo.history[0].PerformedDate; pd == nil || pd.String() != "2026-04-01" {
		t.Fatalf("expected performed date 2026-04-01, got %v", pd)
	}
}

func TestService_Complete_OtherUserIsForbidden(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	tr := seed(repo, "lawn-1", "tpl-a", StatusActive, "2026-04-01")[0]

	_, err := svc.Complete(context.Background(), tr.ID, "user-b", "")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if got := repo.byID[tr.ID]; got.Status != StatusActive || !got.UpdatedAt.Equal(tr.UpdatedAt) {
		t.Fatalf("row changed: %#v", got)
	}
	if len(repo.history) != 0 {
		t.Fatalf("expected no history, got %d", len(repo.history))
	}
}

func TestService_Complete_CheckOrder(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	done := seed(repo, "lawn-1", "tpl-a", StatusCompleted, "2026-04-01")[0]
	orphan := seed(repo, "lawn-x", "tpl-a", StatusActive, "2026-04-01")[0]

	if _, err := svc.Complete(context.Background(), "missing", "user-a", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// Dueño distinto + estado no activo: gana 403.
	if _, err := svc.Complete(context.Background(), done.ID, "user-b", ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Complete(context.Background(), orphan.ID, "user-a", ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for missing lawn, got %v", err)
	}
	if _, err := svc.Complete(context.Background(), done.ID, "user-a", "02-04-2026"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad date, got %v", err)
	}
}

func TestService_Reject(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	tr := seed(repo, "lawn-1", "tpl-a", StatusActive, "2026-04-01")[0]

	got, err := svc.Reject(context.Background(), tr.ID, "user-a", "  too wet  ")
	if err != nil {
		t.Fatalf("Reject error: %v", err)
	}
	if got.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", got.Status)
	}
	if r := repo.history[0].RejectionReason; r == nil || *r != "too wet" {
		t.Fatalf("unexpected rejection reason: %v", r)
	}
	if _, err := svc.Complete(context.Background(), tr.ID, "user-a", ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict after rejection, got %v", err)
	}
}

func TestService_ExpireOverdue(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	seed(repo, "lawn-1", "tpl-a", StatusActive, "2026-03-20", "2026-03-29", "2026-03-30")
	seed(repo, "lawn-1", "tpl-b", StatusCompleted, "2026-03-01")

	// Hoy 04-01, gracia 2 => corte 03-30 (exclusivo).
	n, err := svc.ExpireOverdue(context.Background(), 2)
	if err != nil {
		t.Fatalf("ExpireOverdue error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 expired, got %d", n)
	}
	for _, tr := range repo.byID {
		switch tr.ProposedDate.String() {
		case "2026-03-20", "2026-03-29":
			if tr.Status != StatusExpired {
				t.Fatalf("expected %s expired, got %s", tr.ProposedDate, tr.Status)
			}
		case "2026-03-30":
			if tr.Status != StatusActive {
				t.Fatalf("expected %s still active, got %s", tr.ProposedDate, tr.Status)
			}
		case "2026-03-01":
			if tr.Status != StatusCompleted {
				t.Fatalf("completed treatment changed to %s", tr.Status)
			}
		}
	}
}

func TestUpcomingQuery_UsesUTCDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	q := UpcomingQuery(10, time.Date(2026, 1, 31, 22, 0, 0, 0, loc))

	if q.From.String() != "2026-02-01" || q.To.String() != "2026-02-11" {
		t.Fatalf("unexpected window %s..%s", q.From, q.To)
	}
	if q.Status == nil || *q.Status != StatusActive || !q.EmbedTemplate || q.Page != 1 || q.Limit != 100 || q.Sort != SortProposedDateAsc {
		t.Fatalf("unexpected upcoming query: %+v", q)
	}
}

func TestParseSort(t *testing.T) {
	for in, want := range map[string]Sort{
		"":                   SortProposedDateAsc,
		"proposed_date":      SortProposedDateAsc,
		"proposed_date_asc":  SortProposedDateAsc,
		"proposed_date_desc": SortProposedDateDesc,
	} {
		got, err := ParseSort(in)
		if err != nil || got != want {
			t.Fatalf("ParseSort(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseSort("created_at"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
