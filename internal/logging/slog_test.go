package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextDebugWritesAllLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, FormatText, true)
	ctx := context.Background()

	log.Debug(ctx, "invoke", "action", "GetPosts")
	log.Info(ctx, "signed in", "user", "alice")
	log.Warn(ctx, "token expired")
	log.Error(ctx, "call failed", "status", 502)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=invoke", "action=GetPosts",
		"level=INFO", "user=alice",
		"level=WARN",
		"level=ERROR", "status=502",
	} {
		assert.Contains(t, out, want)
	}
}

func TestNew_InfoLevelDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, FormatText, false)

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_JSONHandler(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, FormatJSON, false)

	log.With("request_id", "r-1").Info(context.Background(), "handled", "path", "/feed")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "handled", rec["msg"])
	assert.Equal(t, "r-1", rec["request_id"])
	assert.Equal(t, "/feed", rec["path"])
}

func TestSlogLogger_WithKeepsParentUnchanged(t *testing.T) {
	var buf bytes.Buffer
	parent := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	parent.With("component", "web").Info(context.Background(), "child")
	parent.Info(context.Background(), "parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "component=web")
	assert.NotContains(t, lines[1], "component=web")
}

func TestDiscard_DoesNotPanic(t *testing.T) {
	log := Discard()
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.Info(ctx, "x")
	log.Warn(ctx, "x")
	log.Error(ctx, "x")
}
