package payers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// queryer is the subset of pgxpool.Pool the registry needs; it also matches
// pgxmock for tests.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGRegistry serves dialects from the payer_dialects table, letting partner
// admins edit encoding rules without a deploy. Falls back to the built-in
// defaults for codes the table does not cover.
type PGRegistry struct {
	db       queryer
	fallback *StaticRegistry
}

// NewPGRegistry creates a database-backed registry.
func NewPGRegistry(pool *pgxpool.Pool) *PGRegistry {
	if pool == nil {
		panic("payers: pgx pool required")
	}
	return &PGRegistry{db: pool, fallback: NewStaticRegistry()}
}

// NewPGRegistryWithDB allows injecting mocks for tests.
func NewPGRegistryWithDB(db queryer) *PGRegistry {
	return &PGRegistry{db: db, fallback: NewStaticRegistry()}
}

const selectDialect = `
SELECT payer_code, payer_name, requirements,
       gender_in_demographics, member_id_in_name_segment,
       date_range_qualifier, name_only_matching
FROM payer_dialects WHERE payer_code = $1`

const selectAllDialects = `
SELECT payer_code, payer_name, requirements,
       gender_in_demographics, member_id_in_name_segment,
       date_range_qualifier, name_only_matching
FROM payer_dialects ORDER BY payer_code`

// Dialect looks up the dialect row for a payer code.
func (r *PGRegistry) Dialect(ctx context.Context, payerCode string) (*Dialect, error) {
	row := r.db.QueryRow(ctx, selectDialect, payerCode)
	d, err := scanDialect(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.fallback.Dialect(ctx, payerCode)
	}
	if err != nil {
		return nil, fmt.Errorf("payers: load dialect %s: %w", payerCode, err)
	}
	return d, nil
}

// List returns every dialect row merged over the built-in defaults.
func (r *PGRegistry) List(ctx context.Context) ([]Dialect, error) {
	rows, err := r.db.Query(ctx, selectAllDialects)
	if err != nil {
		return nil, fmt.Errorf("payers: list dialects: %w", err)
	}
	defer rows.Close()

	byCode := map[string]Dialect{}
	defaults, _ := r.fallback.List(ctx)
	for _, d := range defaults {
		byCode[d.PayerCode] = d
	}
	for rows.Next() {
		d, err := scanDialect(rows)
		if err != nil {
			return nil, fmt.Errorf("payers: scan dialect: %w", err)
		}
		byCode[d.PayerCode] = *d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("payers: list dialects: %w", err)
	}

	out := make([]Dialect, 0, len(byCode))
	for _, d := range byCode {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PayerCode < out[j].PayerCode })
	return out, nil
}

func scanDialect(row pgx.Row) (*Dialect, error) {
	var d Dialect
	var reqJSON []byte
	if err := row.Scan(
		&d.PayerCode, &d.PayerName, &reqJSON,
		&d.GenderInDemographics, &d.MemberIDInNameSegment,
		&d.DateRangeQualifier, &d.NameOnlyMatching,
	); err != nil {
		return nil, err
	}
	if len(reqJSON) > 0 {
		if err := json.Unmarshal(reqJSON, &d.Requirements); err != nil {
			return nil, fmt.Errorf("requirements json: %w", err)
		}
	}
	return &d, nil
}
