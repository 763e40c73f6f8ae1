package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestCorrelationID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert.Empty(t, ExtractCorrelationID(ctx))

	id := GenerateCorrelationID()
	assert.Len(t, id, 36)
	assert.NotEqual(t, id, GenerateCorrelationID())
	assert.Equal(t, id, ExtractCorrelationID(WithCorrelationID(ctx, id)))
}

func TestRepoLogger_WritesTableAndCorrelation(t *testing.T) {
	var buf bytes.Buffer
	l := &RepoLogger{
		tableName: "questions",
		logger:    &Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))},
	}
	ctx := WithCorrelationID(context.Background(), "req-1")

	l.LogCreate(ctx, map[string]interface{}{"question_id": 7})
	l.LogError(ctx, errors.New("boom"), "list_hot")

	dec := json.NewDecoder(&buf)
	var created, failed map[string]any
	require.NoError(t, dec.Decode(&created))
	require.NoError(t, dec.Decode(&failed))

	assert.Equal(t, "repository create", created["msg"])
	assert.Equal(t, "questions", created["table"])
	assert.Equal(t, "req-1", created["correlation_id"])
	assert.EqualValues(t, 7, created["question_id"])

	assert.Equal(t, "ERROR", failed["level"])
	assert.Equal(t, "list_hot", failed["operation"])
	assert.Equal(t, "boom", failed["error"])
}
