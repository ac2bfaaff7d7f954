package infra

import (
	"context"
	"errors"
	"time"

	"aiplugin/internal/logger"

	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"
)

// GormZapLogger GORM 日志适配器（输出到 Zap）
type GormZapLogger struct {
	ZapLogger                 *zap.Logger
	LogLevel                  gormLogger.LogLevel
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
}

// LogMode 设置日志级别
func (l *GormZapLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

// withCtx 附加请求链路字段
func (l *GormZapLogger) withCtx(ctx context.Context) *zap.Logger {
	zl := l.ZapLogger
	if zl == nil {
		zl = logger.Get()
	}
	if ctx == nil {
		return zl
	}
	if traceID := logger.GetTraceID(ctx); traceID != "" {
		zl = zl.With(zap.String("trace_id", traceID))
	}
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		zl = zl.With(zap.String("request_id", requestID))
	}
	return zl
}

func (l *GormZapLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		l.withCtx(ctx).Sugar().Infof(msg, data...)
	}
}

func (l *GormZapLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		l.withCtx(ctx).Sugar().Warnf(msg, data...)
	}
}

func (l *GormZapLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		l.withCtx(ctx).Sugar().Errorf(msg, data...)
	}
}

// Trace SQL 执行日志：错误 > 慢查询 > 普通
func (l *GormZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	zl := l.withCtx(ctx)

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
	}

	switch {
	case err != nil && (!errors.Is(err, gormLogger.ErrRecordNotFound) || !l.IgnoreRecordNotFoundError):
		zl.Error("SQL 执行错误", append(fields, zap.Error(err))...)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold:
		zl.Warn("SQL 慢查询", append(fields, zap.Duration("threshold", l.SlowThreshold))...)
	case l.LogLevel >= gormLogger.Info:
		zl.Debug("SQL 执行", fields...)
	}
}
