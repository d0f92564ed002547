package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lawn-care-scheduler/internal/domain/calendar"
	"lawn-care-scheduler/internal/domain/templates"
	"lawn-care-scheduler/internal/domain/treatments"

	"github.com/google/uuid"
)

type TreatmentsRepo struct {
	db *sql.DB
	d  Dialect
}

func NewTreatmentsRepo(db *sql.DB, d Dialect) *TreatmentsRepo {
	return &TreatmentsRepo{db: db, d: d}
}

const treatmentColumns = `
	t.id, t.lawn_profile_id, t.template_id, t.proposed_date,
	t.status, t.generation_kind, t.weather_rationale,
	t.created_at, t.updated_at`

// InsertMany inserta todo en una transacción. El índice único
// (lawn_profile_id, template_id, proposed_date) se traduce a ErrConflict.
func (r *TreatmentsRepo) InsertMany(ctx context.Context, items []treatments.Treatment) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, r.d.rebind(`
		INSERT INTO treatments (
			id, lawn_profile_id, template_id, proposed_date,
			status, generation_kind, weather_rationale,
			created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?)
	`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range items {
		_, err := stmt.ExecContext(ctx,
			t.ID,
			t.LawnProfileID,
			t.TemplateID,
			t.ProposedDate,
			string(t.Status),
			string(t.GenerationKind),
			nullString(t.WeatherRationale),
			t.CreatedAt.UTC(),
			t.UpdatedAt.UTC(),
		)
		if r.d.unique(err) {
			return treatments.ErrConflict
		}
		if err != nil {
			return fmt.Errorf("insert treatment %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func (r *TreatmentsRepo) ExistingOccurrences(ctx context.Context, lawnID string, from, to calendar.Date) (treatments.OccurrenceSet, error) {
	rows, err := r.db.QueryContext(ctx, r.d.rebind(`
		SELECT template_id, proposed_date
		FROM treatments
		WHERE lawn_profile_id = ? AND proposed_date >= ? AND proposed_date <= ?
	`), lawnID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := treatments.OccurrenceSet{}
	for rows.Next() {
		var (
			templateID string
			d          calendar.Date
		)
		if err := rows.Scan(&templateID, &d); err != nil {
			return nil, err
		}
		out.Add(templateID, d)
	}
	return out, rows.Err()
}

func where(lawnID string, f treatments.Filter) (string, []any) {
	conds := []string{"t.lawn_profile_id = ?"}
	args := []any{lawnID}

	if f.Status != nil {
		conds = append(conds, "t.status = ?")
		args = append(args, string(*f.Status))
	}
	if f.TemplateID != "" {
		conds = append(conds, "t.template_id = ?")
		args = append(args, f.TemplateID)
	}
	if f.From != nil {
		conds = append(conds, "t.proposed_date >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		conds = append(conds, "t.proposed_date <= ?")
		args = append(args, *f.To)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *TreatmentsRepo) List(ctx context.Context, lawnID string, f treatments.Filter, s treatments.Sort, offset, limit int, embed bool) ([]treatments.Treatment, error) {
	dir := "ASC"
	if s.Descending() {
		dir = "DESC"
	}

	cond, args := where(lawnID, f)

	var q strings.Builder
	q.WriteString("SELECT " + treatmentColumns)
	if embed {
		q.WriteString(", tt.name, tt.kind, tt.min_cooldown_days")
	}
	q.WriteString(" FROM treatments t")
	if embed {
		q.WriteString(" LEFT JOIN treatment_templates tt ON tt.id = t.template_id")
	}
	q.WriteString(cond)
	fmt.Fprintf(&q, " ORDER BY t.proposed_date %s, t.id ASC LIMIT ? OFFSET ?", dir)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, r.d.rebind(q.String()), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]treatments.Treatment, 0)
	for rows.Next() {
		t, err := scanTreatment(rows, embed)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TreatmentsRepo) Count(ctx context.Context, lawnID string, f treatments.Filter) (int, error) {
	cond, args := where(lawnID, f)
	var n int
	err := r.db.QueryRowContext(ctx, r.d.rebind("SELECT COUNT(*) FROM treatments t"+cond), args...).Scan(&n)
	return n, err
}

func (r *TreatmentsRepo) GetByID(ctx context.Context, id string) (treatments.Treatment, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *TreatmentsRepo) getByID(ctx context.Context, q queryer, id string) (treatments.Treatment, error) {
	rows, err := q.QueryContext(ctx, r.d.rebind(`SELECT `+treatmentColumns+` FROM treatments t WHERE t.id = ?`), id)
	if err != nil {
		return treatments.Treatment{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return treatments.Treatment{}, err
		}
		return treatments.Treatment{}, treatments.ErrNotFound
	}
	return scanTreatment(rows, false)
}

// UpdateStatus aplica la transición solo si el estado actual es tr.From y
// registra el historial en la misma transacción.
func (r *TreatmentsRepo) UpdateStatus(ctx context.Context, tr treatments.Transition) (treatments.Treatment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return treatments.Treatment{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, r.d.rebind(`
		UPDATE treatments
		SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`), string(tr.To), tr.At.UTC(), tr.TreatmentID, string(tr.From))
	if err != nil {
		return treatments.Treatment{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return treatments.Treatment{}, err
	}
	if n == 0 {
		// Distinguir "no existe" de "estado distinto".
		if _, err := r.getByID(ctx, tx, tr.TreatmentID); err != nil {
			return treatments.Treatment{}, err
		}
		return treatments.Treatment{}, treatments.ErrConflict
	}

	updated, err := r.getByID(ctx, tx, tr.TreatmentID)
	if err != nil {
		return treatments.Treatment{}, err
	}
	if err := r.insertHistory(ctx, tx, updated, tr.From, tr.PerformedDate, tr.RejectionReason, tr.At); err != nil {
		return treatments.Treatment{}, err
	}
	if err := tx.Commit(); err != nil {
		return treatments.Treatment{}, err
	}
	return updated, nil
}

func (r *TreatmentsRepo) ExpireBefore(ctx context.Context, cutoff calendar.Date, at time.Time) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, r.d.rebind(`
		SELECT `+treatmentColumns+`
		FROM treatments t
		WHERE t.status = ? AND t.proposed_date < ?
		ORDER BY t.proposed_date, t.id
	`), string(treatments.StatusActive), cutoff)
	if err != nil {
		return 0, err
	}
	var overdue []treatments.Treatment
	for rows.Next() {
		t, err := scanTreatment(rows, false)
		if err != nil {
			rows.Close()
			return 0, err
		}
		overdue = append(overdue, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	count := 0
	for _, t := range overdue {
		res, err := tx.ExecContext(ctx, r.d.rebind(`
			UPDATE treatments SET status = ?, updated_at = ? WHERE id = ? AND status = ?
		`), string(treatments.StatusExpired), at.UTC(), t.ID, string(treatments.StatusActive))
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		t.Status = treatments.StatusExpired
		if err := r.insertHistory(ctx, tx, t, treatments.StatusActive, nil, nil, at); err != nil {
			return 0, err
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TreatmentsRepo) History(ctx context.Context, treatmentID string) ([]treatments.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, r.d.rebind(`
		SELECT id, treatment_id, lawn_profile_id, status_old, status_new,
			performed_date, rejection_reason, created_at
		FROM treatment_history
		WHERE treatment_id = ?
		ORDER BY created_at, id
	`), treatmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]treatments.HistoryEntry, 0)
	for rows.Next() {
		var (
			h         treatments.HistoryEntry
			old, next string
			performed calendar.Date
			reason    sql.NullString
		)
		if err := rows.Scan(&h.ID, &h.TreatmentID, &h.LawnProfileID, &old, &next, &performed, &reason, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.StatusOld = treatments.Status(old)
		h.StatusNew = treatments.Status(next)
		if !performed.IsZero() {
			h.PerformedDate = &performed
		}
		h.RejectionReason = stringPtr(reason)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *TreatmentsRepo) insertHistory(ctx context.Context, q queryer, t treatments.Treatment, old treatments.Status, performed *calendar.Date, reason *string, at time.Time) error {
	var performedArg any
	if performed != nil {
		performedArg = *performed
	}
	_, err := q.ExecContext(ctx, r.d.rebind(`
		INSERT INTO treatment_history (
			id, treatment_id, lawn_profile_id, status_old, status_new,
			performed_date, rejection_reason, created_at
		) VALUES (?,?,?,?,?,?,?,?)
	`),
		uuid.NewString(),
		t.ID,
		t.LawnProfileID,
		string(old),
		string(t.Status),
		performedArg,
		nullString(reason),
		at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert treatment history: %w", err)
	}
	return nil
}

func scanTreatment(rows *sql.Rows, embed bool) (treatments.Treatment, error) {
	var (
		t       treatments.Treatment
		status  string
		gen     string
		weather sql.NullString
	)
	dest := []any{
		&t.ID,
		&t.LawnProfileID,
		&t.TemplateID,
		&t.ProposedDate,
		&status,
		&gen,
		&weather,
		&t.CreatedAt,
		&t.UpdatedAt,
	}

	var (
		tplName     sql.NullString
		tplKind     sql.NullString
		tplCooldown sql.NullInt64
	)
	if embed {
		dest = append(dest, &tplName, &tplKind, &tplCooldown)
	}

	if err := rows.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return treatments.Treatment{}, treatments.ErrNotFound
		}
		return treatments.Treatment{}, err
	}

	t.Status = treatments.Status(status)
	t.GenerationKind = treatments.GenerationKind(gen)
	t.WeatherRationale = stringPtr(weather)

	if embed && tplName.Valid {
		t.Template = &templates.Summary{
			ID:              t.TemplateID,
			Name:            tplName.String,
			Kind:            templates.Kind(tplKind.String),
			MinCooldownDays: int(tplCooldown.Int64),
		}
	}
	return t, nil
}
