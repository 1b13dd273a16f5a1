package payers

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticRegistryDialect(t *testing.T) {
	r := NewStaticRegistry()
	ctx := context.Background()

	d, err := r.Dialect(ctx, "SKUT0")
	require.NoError(t, err)
	assert.Equal(t, "Utah Medicaid", d.PayerName)
	assert.True(t, d.Requires(FieldMedicaidID))
	assert.True(t, d.MemberIDInNameSegment)

	_, err = r.Dialect(ctx, "NOPE")
	var unknown *ErrUnknownPayer
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "NOPE", unknown.PayerCode)
}

func TestDialectRequirementDefaultsToNotNeeded(t *testing.T) {
	d := Dialect{Requirements: map[string]FieldRequirement{FieldLastName: FieldRequired}}
	assert.Equal(t, FieldNotNeeded, d.Requirement(FieldGroupNumber))
	assert.Equal(t, FieldNotNeeded, d.Requirement("unheard_of_field"))
	assert.Equal(t, FieldRequired, d.Requirement(FieldLastName))
}

func TestStaticRegistryFromFileOverridesDefaults(t *testing.T) {
	override := []Dialect{{
		PayerCode:            "SKUT0",
		PayerName:            "Utah Medicaid (test override)",
		Requirements:         map[string]FieldRequirement{FieldLastName: FieldRequired},
		GenderInDemographics: true,
	}, {
		PayerCode: "NEW01",
		PayerName: "New Payer",
	}}
	data, err := json.Marshal(override)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dialects.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	r, err := NewStaticRegistryFromFile(path)
	require.NoError(t, err)

	d, err := r.Dialect(context.Background(), "SKUT0")
	require.NoError(t, err)
	assert.Equal(t, "Utah Medicaid (test override)", d.PayerName)
	assert.True(t, d.GenderInDemographics)

	d, err = r.Dialect(context.Background(), "NEW01")
	require.NoError(t, err)
	assert.Equal(t, "New Payer", d.PayerName)

	// Built-in entries the file did not touch remain available.
	_, err = r.Dialect(context.Background(), "SX109")
	require.NoError(t, err)
}

func TestStaticRegistryFromFileRejectsMissingCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dialects.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"payer_name":"no code"}]`), 0o600))
	_, err := NewStaticRegistryFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing payer_code")
}

func TestStaticRegistryListIsSorted(t *testing.T) {
	r := NewStaticRegistry()
	list, err := r.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].PayerCode, list[i].PayerCode)
	}
}

func TestPGRegistryDialect(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	reqs := `{"last_name":"required","medicaid_id":"required"}`
	rows := pgxmock.NewRows([]string{
		"payer_code", "payer_name", "requirements",
		"gender_in_demographics", "member_id_in_name_segment",
		"date_range_qualifier", "name_only_matching",
	}).AddRow("SKUT0", "Utah Medicaid", []byte(reqs), false, true, false, false)

	mock.ExpectQuery("SELECT payer_code, payer_name").
		WithArgs("SKUT0").
		WillReturnRows(rows)

	r := NewPGRegistryWithDB(mock)
	d, err := r.Dialect(context.Background(), "SKUT0")
	require.NoError(t, err)
	assert.Equal(t, "Utah Medicaid", d.PayerName)
	assert.Equal(t, FieldRequired, d.Requirement(FieldMedicaidID))
	assert.True(t, d.MemberIDInNameSegment)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRegistryFallsBackToDefaults(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT payer_code, payer_name").
		WithArgs("60054").
		WillReturnError(pgx.ErrNoRows)

	r := NewPGRegistryWithDB(mock)
	d, err := r.Dialect(context.Background(), "60054")
	require.NoError(t, err)
	assert.Equal(t, "Aetna", d.PayerName)
	require.NoError(t, mock.ExpectationsWereMet())
}
