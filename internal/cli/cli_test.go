package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/class_credits_crm/internal/core/domain"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "cli-secret")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, Execute())
	return out.String()
}

func TestTokenCommand(t *testing.T) {
	raw := strings.TrimSpace(run(t, "token", "desk-1", "--ttl", "1h"))

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("cli-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "desk-1", claims.Subject)
}

func TestReconcileCommand_EmptyStore(t *testing.T) {
	out := run(t, "reconcile", "--dry-run")

	var report domain.ReconciliationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.DryRun)
	assert.Zero(t, report.Total)
	assert.Zero(t, report.Errors)
}
