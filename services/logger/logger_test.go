package logsvc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/user"
)

func TestZapLogger(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(obsCore))

	usr := user.User{ID: 3, Email: "student@aitu.edu.kz"}
	logger.Warn("profile fetch failed", errors.New("boom"), map[string]interface{}{"path": "/me"}, usr, 42)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		entry := entries[0]
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		assert.Equal(t, "profile fetch failed", entry.Message)

		ctx := entry.ContextMap()
		assert.Equal(t, "boom", ctx["error"])
		assert.Equal(t, "/me", ctx["path"])
		assert.Equal(t, int64(3), ctx["user_id"])
		assert.Equal(t, "student@aitu.edu.kz", ctx["user_email"])
		assert.Equal(t, int64(42), ctx["arg3"])
	}
}

func TestNew(t *testing.T) {
	zl := zap.NewNop()
	assert.IsType(t, &ZapLogger{}, New(&core.Config{}, zl))
}
