package reference

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/growth-monitor/internal/domain/growth"
)

// PostgresSource reads LMS rows from a table shaped as
// (table_key text, age_months double precision, l, m, s double precision),
// where table_key is the file stem, e.g. "wfa_boys".
type PostgresSource struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresSource constructs the source.
func NewPostgresSource(pool *pgxpool.Pool, table string) *PostgresSource {
	return &PostgresSource{pool: pool, table: table}
}

// Rows implements Source.
func (s *PostgresSource) Rows(ctx context.Context, key growth.TableKey) (Decoded, error) {
	query := fmt.Sprintf(`
		SELECT age_months, l, m, s
		FROM %s
		WHERE table_key = $1
		ORDER BY age_months
	`, pgx.Identifier{s.table}.Sanitize())
	rows, err := s.pool.Query(ctx, query, Stem(key))
	if err != nil {
		return Decoded{}, err
	}
	defer rows.Close()

	var (
		out  Decoded
		line int
	)
	for rows.Next() {
		line++
		var row growth.LMSRow
		if err := rows.Scan(&row.AgeMonths, &row.L, &row.M, &row.S); err != nil {
			return Decoded{}, err
		}
		if row.M <= 0 || row.S <= 0 {
			out.Dropped = append(out.Dropped, DroppedRow{Line: line, Reason: "non-positive M or S"})
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Decoded{}, err
	}
	if len(out.Rows) == 0 {
		if len(out.Dropped) == 0 {
			return Decoded{}, fmt.Errorf("%w: %s in postgres", ErrNotFound, Stem(key))
		}
		return Decoded{}, fmt.Errorf("%w: no usable rows for %s", ErrMalformed, Stem(key))
	}
	return out, nil
}

// Describe implements Source.
func (s *PostgresSource) Describe() string {
	return "postgres:" + s.table
}
