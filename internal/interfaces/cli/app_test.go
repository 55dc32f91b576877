package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/interfaces/cli"
	"github.com/jhoicas/Costeo-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Bolso vendido a $3 con 2 m de tela a $2: precio bajo el costo.
const snapshotJSON = `{
  "now": "2026-03-31T00:00:00Z",
  "materials": [{"id": "tela", "name": "Tela", "unit": "m"}],
  "lots": [{"id": "l1", "material_id": "tela", "date": "2026-03-01T00:00:00Z",
            "initial_quantity": "10", "remaining_quantity": "10", "unit_cost": "2", "entry_mode": "roll"}],
  "ledger": [{"id": "e1", "material_id": "tela", "lot_id": "l1", "date": "2026-03-01T00:00:00Z",
              "kind": "ingress", "quantity": "10", "unit_cost": "2"}],
  "products": [{"id": "p1", "sku": "BOL", "name": "Bolso", "price": "3", "target_margin": "0.4",
                "composition": [{"material_id": "tela", "mode": "linear", "unit": "m", "quantity": "2"}]}],
  "movements": [{"id": "mv1", "product_id": "p1", "quantity": "1", "total_cost": "4",
                 "date": "2026-03-20T00:00:00Z"}]
}`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foto.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshotJSON), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := cli.NewApp(&out).Run(append([]string{"costeo"}, args...))
	return out.String(), err
}

// ── evaluate ──────────────────────────────────────────────────────────────────

func TestEvaluate_JSON(t *testing.T) {
	out, err := run(t, "evaluate", "--snapshot", writeSnapshot(t), "--format", "json")
	require.NoError(t, err)

	var report dto.ProtectionReportResponse
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.NotEqual(t, "protected", report.Status)
	assert.Less(t, report.HealthScore, 100)

	types := make([]string, 0, len(report.Actions))
	for _, a := range report.Actions {
		types = append(types, a.Type)
	}
	assert.Contains(t, types, "price_below_cost")
}

func TestEvaluate_Text(t *testing.T) {
	out, err := run(t, "evaluate", "-s", writeSnapshot(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Salud: ")
	assert.Contains(t, out, "Acciones prioritarias:")
	assert.Contains(t, out, "Bolso")
}

func TestEvaluate_HealthAndDecisions(t *testing.T) {
	path := writeSnapshot(t)

	out, err := run(t, "evaluate", "-s", path, "--report", "health", "--format", "json")
	require.NoError(t, err)
	var health dto.HealthReportResponse
	require.NoError(t, json.Unmarshal([]byte(out), &health))
	assert.NotEmpty(t, health.Signals)

	out, err = run(t, "evaluate", "-s", path, "--report", "decisions")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Acciones por beneficio neto:"), out)
}

func TestEvaluate_Errors(t *testing.T) {
	path := writeSnapshot(t)

	_, err := run(t, "evaluate", "-s", path, "--format", "xml")
	assert.Error(t, err)

	_, err = run(t, "evaluate", "-s", path, "--report", "ventas")
	assert.Error(t, err)

	_, err = run(t, "evaluate", "-s", filepath.Join(t.TempDir(), "no-existe.json"))
	assert.Error(t, err)
}

// ── round ─────────────────────────────────────────────────────────────────────

func TestRound(t *testing.T) {
	cases := map[string]string{
		"10.3":  "10.50",
		"10.6":  "10.99",
		"10.95": "11.00",
	}
	for in, want := range cases {
		out, err := run(t, "round", "--price", in)
		require.NoError(t, err, in)
		assert.Equal(t, want, strings.TrimSpace(out), in)
	}

	_, err := run(t, "round", "--price", "abc")
	assert.Error(t, err)
	_, err = run(t, "round", "--price", "-1")
	assert.Error(t, err)
}

// ── token ─────────────────────────────────────────────────────────────────────

func TestToken_Parseable(t *testing.T) {
	out, err := run(t, "token", "--secret", "s3cr3t", "--tenant", "taller-1", "--role", "produccion", "--user", "u-1")
	require.NoError(t, err)

	userID, tenantID, role, err := jwt.Parse("s3cr3t", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "taller-1", tenantID)
	assert.Equal(t, "produccion", role)
}

func TestToken_RolInvalido(t *testing.T) {
	_, err := run(t, "token", "--secret", "s3cr3t", "--tenant", "taller-1", "--role", "dueño")
	assert.Error(t, err)
}
