package directory

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGStorePayerByNormalizedName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, normalized_name FROM payers WHERE normalized_name").
		WithArgs("UTAH MEDICAID").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "normalized_name"}).
			AddRow(int64(1), "Utah Medicaid", "UTAH MEDICAID"))

	s := NewPGStoreWithDB(mock)
	p, err := s.PayerByNormalizedName(context.Background(), "UTAH MEDICAID")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Utah Medicaid", p.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStorePayerNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, normalized_name FROM payers WHERE normalized_name").
		WithArgs("NOBODY").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "normalized_name"}))

	s := NewPGStoreWithDB(mock)
	_, err = s.PayerByNormalizedName(context.Background(), "NOBODY")
	assert.ErrorIs(t, err, ErrPayerNotFound)
}

func TestMemoryStorePrefixSearchSorted(t *testing.T) {
	m := &MemoryStore{
		Payers: []Payer{
			{ID: 3, Name: "Molina Healthcare of Utah", NormalizedName: "MOLINA HEALTHCARE OF UTAH"},
			{ID: 1, Name: "Molina Complete Care", NormalizedName: "MOLINA COMPLETE CARE"},
			{ID: 2, Name: "Utah Medicaid", NormalizedName: "UTAH MEDICAID"},
		},
	}

	got, err := m.PayersByNamePrefix(context.Background(), "MOLINA")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Molina Complete Care", got[0].Name, "results ordered by name like the SQL store")
	assert.Equal(t, "Molina Healthcare of Utah", got[1].Name)
}

func TestPGStoreActiveContracts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT payer_id, provider_id, supervised, in_network, active").
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"payer_id", "provider_id", "supervised", "in_network", "active"}).
			AddRow(int64(2), int64(10), true, true, true).
			AddRow(int64(2), int64(11), false, false, true))

	s := NewPGStoreWithDB(mock)
	contracts, err := s.ActiveContracts(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.True(t, contracts[0].Supervised)
	assert.False(t, contracts[1].InNetwork)
	require.NoError(t, mock.ExpectationsWereMet())
}
