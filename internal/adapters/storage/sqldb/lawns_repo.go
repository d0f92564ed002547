package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"lawn-care-scheduler/internal/domain/lawns"
)

type LawnsRepo struct {
	db *sql.DB
	d  Dialect
}

func NewLawnsRepo(db *sql.DB, d Dialect) *LawnsRepo {
	return &LawnsRepo{db: db, d: d}
}

const lawnColumns = `
	id, user_id, name, latitude, longitude,
	size_m2, sun_exposure, surface_type, is_active,
	created_at, updated_at`

func (r *LawnsRepo) Create(ctx context.Context, p lawns.Profile) error {
	_, err := r.db.ExecContext(ctx, r.d.rebind(`
		INSERT INTO lawn_profiles (`+lawnColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)
	`),
		p.ID,
		p.UserID,
		p.Name,
		p.Latitude,
		p.Longitude,
		p.SizeM2,
		string(p.SunExposure),
		nullString(p.SurfaceType),
		p.IsActive,
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	)
	if r.d.unique(err) {
		return lawns.ErrActiveProfileExists
	}
	return err
}

func (r *LawnsRepo) Update(ctx context.Context, p lawns.Profile) error {
	res, err := r.db.ExecContext(ctx, r.d.rebind(`
		UPDATE lawn_profiles
		SET
			name = ?,
			latitude = ?,
			longitude = ?,
			size_m2 = ?,
			sun_exposure = ?,
			surface_type = ?,
			is_active = ?,
			updated_at = ?
		WHERE id = ?
	`),
		p.Name,
		p.Latitude,
		p.Longitude,
		p.SizeM2,
		string(p.SunExposure),
		nullString(p.SurfaceType),
		p.IsActive,
		p.UpdatedAt.UTC(),
		p.ID,
	)
	if r.d.unique(err) {
		return lawns.ErrActiveProfileExists
	}
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return lawns.ErrNotFound
	}
	return nil
}

func (r *LawnsRepo) GetByID(ctx context.Context, id string) (lawns.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return lawns.Profile{}, lawns.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, r.d.rebind(`SELECT `+lawnColumns+` FROM lawn_profiles WHERE id = ?`), id)
	return scanProfile(row)
}

func (r *LawnsRepo) GetActiveByUser(ctx context.Context, userID string) (lawns.Profile, error) {
	row := r.db.QueryRowContext(ctx, r.d.rebind(`
		SELECT `+lawnColumns+`
		FROM lawn_profiles
		WHERE user_id = ? AND is_active = ?
		ORDER BY created_at DESC
		LIMIT 1
	`), userID, true)
	return scanProfile(row)
}

func scanProfile(row *sql.Row) (lawns.Profile, error) {
	var (
		p       lawns.Profile
		sun     string
		surface sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Latitude,
		&p.Longitude,
		&p.SizeM2,
		&sun,
		&surface,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return lawns.Profile{}, lawns.ErrNotFound
	}
	if err != nil {
		return lawns.Profile{}, err
	}
	p.SunExposure = lawns.SunExposure(sun)
	p.SurfaceType = stringPtr(surface)
	return p, nil
}
