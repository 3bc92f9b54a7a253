package logsvc

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/user"
)

// NewZap builds the process logger: human readable in debug, JSON otherwise.
func NewZap(conf *core.Config) (*zap.Logger, error) {
	var (
		zl  *zap.Logger
		err error
	)
	if conf.Debug {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return zl.With(zap.String("env", conf.Env), zap.String("build", conf.Build)), nil
}

type ZapLogger struct {
	zl *zap.Logger
}

var _ core.Logger = (*ZapLogger)(nil)

func NewZapLogger(zl *zap.Logger) *ZapLogger {
	return &ZapLogger{zl: zl}
}

// New returns the rollbar logger when a token is configured, the bare zap logger otherwise.
func New(conf *core.Config, zl *zap.Logger) core.Logger {
	if conf.RollbarToken != "" {
		return NewRollbarLogger(zl, conf)
	}
	return NewZapLogger(zl)
}

// fields turns core.Logger args into zap fields.
func fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case nil:
		case error:
			flds = append(flds, zap.Error(v))
		case map[string]interface{}:
			for key, val := range v {
				flds = append(flds, zap.Any(key, val))
			}
		case user.User:
			flds = append(flds, zap.Int("user_id", v.ID), zap.String("user_email", v.Email))
		case fmt.Stringer:
			flds = append(flds, zap.Stringer("arg"+strconv.Itoa(i), v))
		default:
			flds = append(flds, zap.Any("arg"+strconv.Itoa(i), v))
		}
	}
	return flds
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) { l.zl.Debug(msg, fields(args)...) }
func (l *ZapLogger) Info(msg string, args ...interface{})  { l.zl.Info(msg, fields(args)...) }
func (l *ZapLogger) Warn(msg string, args ...interface{})  { l.zl.Warn(msg, fields(args)...) }
func (l *ZapLogger) Error(msg string, args ...interface{}) { l.zl.Error(msg, fields(args)...) }
func (l *ZapLogger) Fatal(msg string, args ...interface{}) { l.zl.Fatal(msg, fields(args)...) }
