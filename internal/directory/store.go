package directory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Payer is one row of the internal contracted-payer directory.
type Payer struct {
	ID             int64
	Name           string
	NormalizedName string
}

// Contract describes a provider-payer contract. Supervised contracts bill
// under a supervising clinician's credential; both forms count as active.
type Contract struct {
	PayerID    int64
	ProviderID int64
	Supervised bool
	InNetwork  bool
	Active     bool
}

// ErrPayerNotFound is returned when no directory row matches a name.
var ErrPayerNotFound = errors.New("directory: payer not found")

// Store is the payer-directory lookup surface the resolver depends on.
type Store interface {
	// PayerByNormalizedName does a case-exact lookup on the normalized name.
	PayerByNormalizedName(ctx context.Context, normalized string) (*Payer, error)
	// PayersByNamePrefix returns payers whose normalized name starts with
	// the given prefix, ordered by name.
	PayersByNamePrefix(ctx context.Context, prefix string) ([]Payer, error)
	// ActiveContracts returns active contracts with a payer, direct or
	// supervised.
	ActiveContracts(ctx context.Context, payerID int64) ([]Contract, error)
}

// pgQueryer is the subset of pgxpool.Pool used here; matches pgxmock.
type pgQueryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore backs the directory with Postgres.
type PGStore struct {
	db pgQueryer
}

// NewPGStore creates a Postgres-backed directory store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	if pool == nil {
		panic("directory: pgx pool required")
	}
	return &PGStore{db: pool}
}

// NewPGStoreWithDB allows injecting mocks for tests.
func NewPGStoreWithDB(db pgQueryer) *PGStore {
	return &PGStore{db: db}
}

var _ Store = (*PGStore)(nil)

const selectPayerByName = `
SELECT id, name, normalized_name FROM payers WHERE normalized_name = $1`

const selectPayersByPrefix = `
SELECT id, name, normalized_name FROM payers
WHERE normalized_name LIKE $1 || '%' ORDER BY name`

const selectActiveContracts = `
SELECT payer_id, provider_id, supervised, in_network, active
FROM provider_contracts WHERE payer_id = $1 AND active = TRUE`

func (s *PGStore) PayerByNormalizedName(ctx context.Context, normalized string) (*Payer, error) {
	var p Payer
	err := s.db.QueryRow(ctx, selectPayerByName, normalized).
		Scan(&p.ID, &p.Name, &p.NormalizedName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("directory: load payer %q: %w", normalized, err)
	}
	return &p, nil
}

func (s *PGStore) PayersByNamePrefix(ctx context.Context, prefix string) ([]Payer, error) {
	rows, err := s.db.Query(ctx, selectPayersByPrefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("directory: prefix search %q: %w", prefix, err)
	}
	defer rows.Close()

	var out []Payer
	for rows.Next() {
		var p Payer
		if err := rows.Scan(&p.ID, &p.Name, &p.NormalizedName); err != nil {
			return nil, fmt.Errorf("directory: scan payer: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: prefix search %q: %w", prefix, err)
	}
	return out, nil
}

func (s *PGStore) ActiveContracts(ctx context.Context, payerID int64) ([]Contract, error) {
	rows, err := s.db.Query(ctx, selectActiveContracts, payerID)
	if err != nil {
		return nil, fmt.Errorf("directory: load contracts for payer %d: %w", payerID, err)
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		var c Contract
		if err := rows.Scan(&c.PayerID, &c.ProviderID, &c.Supervised, &c.InNetwork, &c.Active); err != nil {
			return nil, fmt.Errorf("directory: scan contract: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: load contracts for payer %d: %w", payerID, err)
	}
	return out, nil
}

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	Payers    []Payer
	Contracts []Contract
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) PayerByNormalizedName(_ context.Context, normalized string) (*Payer, error) {
	for i := range m.Payers {
		if m.Payers[i].NormalizedName == normalized {
			p := m.Payers[i]
			return &p, nil
		}
	}
	return nil, ErrPayerNotFound
}

func (m *MemoryStore) PayersByNamePrefix(_ context.Context, prefix string) ([]Payer, error) {
	var out []Payer
	for _, p := range m.Payers {
		if len(p.NormalizedName) >= len(prefix) && p.NormalizedName[:len(prefix)] == prefix {
			out = append(out, p)
		}
	}
	// Same order the Postgres store returns.
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) ActiveContracts(_ context.Context, payerID int64) ([]Contract, error) {
	var out []Contract
	for _, c := range m.Contracts {
		if c.PayerID == payerID && c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}
