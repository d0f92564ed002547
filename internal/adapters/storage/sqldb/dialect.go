// Package sqldb implementa los repositorios sobre database/sql.
// Postgres y SQLite comparten las consultas; solo cambian los placeholders
// y la forma de reconocer una violación de unicidad.
package sqldb

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

type Dialect struct {
	Name string

	// Numbered: $1, $2... (postgres). Si es false se usa "?".
	Numbered bool

	IsUniqueViolation func(err error) bool
}

// rebind convierte los "?" de las consultas al estilo del dialecto.
func (d Dialect) rebind(q string) string {
	if !d.Numbered {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 16)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

func (d Dialect) unique(err error) bool {
	return err != nil && d.IsUniqueViolation != nil && d.IsUniqueViolation(err)
}

// queryer lo cumplen *sql.DB y *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
