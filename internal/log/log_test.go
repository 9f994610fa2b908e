package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type line struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Error  string         `json:"error"`
	Fields map[string]any `json:"fields"`
}

func capture(t *testing.T, level string, fn func()) []line {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, level))
	t.Cleanup(func() { _ = Setup(os.Stdout, "info") })

	fn()

	var out []line
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var l line
		require.NoError(t, json.Unmarshal([]byte(raw), &l), raw)
		out = append(out, l)
	}
	return out
}

func TestLevelsAndFields(t *testing.T) {
	lines := capture(t, "info", func() {
		Info(nil, "boot", nil)
		Audit(nil, "auth.signup.success", map[string]any{"email": "a@x.com"})
		Security(nil, "auth.login.fail", nil)
		Error(nil, "server.error", errors.New("boom"), nil)
	})
	require.Len(t, lines, 4)

	require.Equal(t, "info", lines[0].Level)
	require.Equal(t, "boot", lines[0].Action)

	require.Equal(t, "audit", lines[1].Level)
	require.Equal(t, "a@x.com", lines[1].Fields["email"])

	require.Equal(t, "warn", lines[2].Level)

	require.Equal(t, "error", lines[3].Level)
	require.Equal(t, "boom", lines[3].Error)
}

func TestSetupFiltersBelowLevel(t *testing.T) {
	lines := capture(t, "warn", func() {
		Info(nil, "dropped", nil)
		Security(nil, "kept", nil)
	})
	require.Len(t, lines, 1)
	require.Equal(t, "kept", lines[0].Action)
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	require.Error(t, Setup(&bytes.Buffer{}, "loud"))
}
