package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"lawn-care-scheduler/internal/domain/calendar"
	"lawn-care-scheduler/internal/domain/templates"
)

type TemplatesRepo struct {
	db *sql.DB
	d  Dialect
}

func NewTemplatesRepo(db *sql.DB, d Dialect) *TemplatesRepo {
	return &TemplatesRepo{db: db, d: d}
}

const templateColumns = `
	id, name, description, kind, min_cooldown_days,
	execution_periods, priority, created_at, updated_at`

// List devuelve un orden estable (prioridad, nombre, id) para que la generación sea determinista.
func (r *TemplatesRepo) List(ctx context.Context) ([]templates.Template, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM treatment_templates ORDER BY priority, name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]templates.Template, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TemplatesRepo) GetByID(ctx context.Context, id string) (templates.Template, error) {
	return r.getOne(ctx, `SELECT `+templateColumns+` FROM treatment_templates WHERE id = ?`, id)
}

func (r *TemplatesRepo) GetByName(ctx context.Context, name string) (templates.Template, error) {
	return r.getOne(ctx, `SELECT `+templateColumns+` FROM treatment_templates WHERE name = ?`, name)
}

func (r *TemplatesRepo) getOne(ctx context.Context, q string, arg string) (templates.Template, error) {
	rows, err := r.db.QueryContext(ctx, r.d.rebind(q), arg)
	if err != nil {
		return templates.Template{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return templates.Template{}, err
		}
		return templates.Template{}, templates.ErrNotFound
	}
	return scanTemplate(rows)
}

func (r *TemplatesRepo) Create(ctx context.Context, t templates.Template) error {
	periods, err := encodePeriods(t.Periods)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, r.d.rebind(`
		INSERT INTO treatment_templates (`+templateColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?)
	`),
		t.ID,
		t.Name,
		nullString(t.Description),
		string(t.Kind),
		t.MinCooldownDays,
		periods,
		t.Priority,
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if r.d.unique(err) {
		return fmt.Errorf("%w: template %q already exists", templates.ErrInvalidInput, t.Name)
	}
	return err
}

func (r *TemplatesRepo) Update(ctx context.Context, t templates.Template) error {
	periods, err := encodePeriods(t.Periods)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, r.d.rebind(`
		UPDATE treatment_templates
		SET
			name = ?,
			description = ?,
			kind = ?,
			min_cooldown_days = ?,
			execution_periods = ?,
			priority = ?,
			updated_at = ?
		WHERE id = ?
	`),
		t.Name,
		nullString(t.Description),
		string(t.Kind),
		t.MinCooldownDays,
		periods,
		t.Priority,
		t.UpdatedAt.UTC(),
		t.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return templates.ErrNotFound
	}
	return nil
}

// execution_periods se guarda como JSON en una columna de texto en ambos dialectos.
func encodePeriods(p []calendar.Period) (string, error) {
	if p == nil {
		p = []calendar.Period{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode execution_periods: %w", err)
	}
	return string(b), nil
}

func scanTemplate(rows *sql.Rows) (templates.Template, error) {
	var (
		t       templates.Template
		desc    sql.NullString
		kind    string
		periods string
	)
	if err := rows.Scan(
		&t.ID,
		&t.Name,
		&desc,
		&kind,
		&t.MinCooldownDays,
		&periods,
		&t.Priority,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return templates.Template{}, err
	}
	t.Description = stringPtr(desc)
	t.Kind = templates.Kind(kind)

	var ps []calendar.Period
	if err := json.Unmarshal([]byte(periods), &ps); err != nil {
		return templates.Template{}, fmt.Errorf("decode execution_periods of %s: %w", t.ID, err)
	}
	if len(ps) > 0 {
		t.Periods = ps
	}
	return t, nil
}
