package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufLogger() (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil))), &buf
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestInfo_WritesMessageAndArgs(t *testing.T) {
	log, buf := newBufLogger()

	log.Info(context.Background(), "session started", "user_id", "u-1")

	rec := decodeRecord(t, buf)
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "session started", rec["msg"])
	assert.Equal(t, "u-1", rec["user_id"])
}

func TestWith_ChildKeepsFields(t *testing.T) {
	log, buf := newBufLogger()

	child := log.With("module", "registry")
	child.Warn(context.Background(), "timer lapsed")

	rec := decodeRecord(t, buf)
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "registry", rec["module"])
}

func TestError_Level(t *testing.T) {
	log, buf := newBufLogger()

	log.Error(context.Background(), "db down")

	rec := decodeRecord(t, buf)
	assert.Equal(t, "ERROR", rec["level"])
}
