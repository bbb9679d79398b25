package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitializeWithoutSentry(t *testing.T) {
	require.NoError(t, Initialize(Config{Debug: true}))
	assert.NotNil(t, Default())
	assert.Nil(t, sentryClient)
}

func TestHelpersWriteToGlobalLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	Info("server started", zap.Int("port", 8080))
	Warn("slow request")
	Error(errors.New("boom"), zap.String("path", "/api/chains"))
	Error(nil)
	InfoCtx(context.Background(), "with context")

	entries := logs.All()
	require.Len(t, entries, 5)
	assert.Equal(t, "server started", entries[0].Message)
	assert.Equal(t, int64(8080), entries[0].ContextMap()["port"])
	assert.Equal(t, "boom", entries[2].Message)
	assert.Equal(t, "/api/chains", entries[2].ContextMap()["path"])
	assert.Equal(t, "error occurred", entries[3].Message)
}
