package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLogger_JSONSchema(t *testing.T) {
	var buf bytes.Buffer
	l := New("user-service", Options{Level: "info", Writer: &buf})

	l.Info(Entry{
		Action:     "user_created",
		Message:    "user created",
		RequestID:  "req-1",
		Additional: map[string]any{"user_id": "42"},
	})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	rec := lines[0]
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "user created", rec["message"])
	assert.Equal(t, "user_created", rec["action"])
	assert.Equal(t, "user-service", rec["service"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.NotEmpty(t, rec["timestamp"])

	additional, ok := rec["additional"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "42", additional["user_id"])
	assert.Contains(t, additional["caller"], "logger_test.go")
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New("svc", Options{Level: "warn", Writer: &buf})

	l.Debug(Entry{Action: "a"})
	l.Info(Entry{Action: "b"})
	l.Warn(Entry{Action: "c"})
	l.Error(Entry{Action: "d", Error: &ErrObj{Msg: "boom"}})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "c", lines[0]["action"])
	assert.Equal(t, "d", lines[1]["action"])
	errObj, ok := lines[1]["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boom", errObj["msg"])
}

func TestContextLogger_MergesBase(t *testing.T) {
	var buf bytes.Buffer
	l := New("svc", Options{Writer: &buf})

	l.WithRequest("req-9").Info(Entry{Action: "x"})
	l.WithFields(map[string]any{"route": "/users"}).Info(Entry{Action: "y"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "req-9", lines[0]["request_id"])
	assert.Equal(t, "/users", lines[1]["additional"].(map[string]any)["route"])
}

func TestLogger_FatalExits(t *testing.T) {
	var buf bytes.Buffer
	l := New("svc", Options{Writer: &buf})

	code := -1
	exit = func(c int) { code = c }
	defer func() { exit = osExit }()

	l.Fatal(Entry{Action: "boot_failed", Message: "no db"})

	assert.Equal(t, 1, code)
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	errObj := lines[0]["error"].(map[string]any)
	assert.Equal(t, "no db", errObj["msg"])
	assert.NotEmpty(t, errObj["stack"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel(""))
}
