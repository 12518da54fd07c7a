package logx

import (
	"context"
	"log/slog"
	"time"
)

// Logger 对外暴露给业务 / 组件使用的接口
type Logger interface {
	Debug(ctx context.Context, tag string, msg any, kv ...any)
	Info(ctx context.Context, tag string, msg any, kv ...any)
	Warn(ctx context.Context, tag string, msg any, kv ...any)
	Error(ctx context.Context, tag string, msg any, kv ...any)
}

type loggerImpl struct {
	h *handler
}

func (l *loggerImpl) Debug(ctx context.Context, tag string, msg any, kv ...any) {
	l.output(ctx, 1, slog.LevelDebug, tag, msg, kv...)
}

func (l *loggerImpl) Info(ctx context.Context, tag string, msg any, kv ...any) {
	l.output(ctx, 1, slog.LevelInfo, tag, msg, kv...)
}

func (l *loggerImpl) Warn(ctx context.Context, tag string, msg any, kv ...any) {
	l.output(ctx, 1, slog.LevelWarn, tag, msg, kv...)
}

func (l *loggerImpl) Error(ctx context.Context, tag string, msg any, kv ...any) {
	l.output(ctx, 1, slog.LevelError, tag, msg, kv...)
}

// output depth 为业务调用方到 output 之间的栈帧数
func (l *loggerImpl) output(ctx context.Context, depth int, level slog.Level, tag string, msg any, kv ...any) {
	if l == nil || l.h == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.h.Enabled(ctx, level) {
		return
	}
	if tag == "" {
		tag = TagUndef
	}

	rec := slog.NewRecord(time.Now(), level, tag, 0)
	rec.AddAttrs(encodeLog(ctx, getCaller(depth+1), msg, kv...)...)
	_ = l.h.Handle(ctx, rec)
}

// Close 刷完异步队列
func (l *loggerImpl) Close() error {
	if l == nil || l.h == nil {
		return nil
	}
	return l.h.Close()
}

// -------------------- 全局默认 logger --------------------

var defaultLogger Logger = nopLogger{}

// Init 根据 Config 初始化全局 logger（在 main 里调用一次）
func Init(cfg Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	defaultLogger = l
	return nil
}

// New 创建一个独立的 Logger 实例
func New(cfg Config) (Logger, error) {
	h, err := newHandler(cfg)
	if err != nil {
		return nil, err
	}
	return &loggerImpl{h: h}, nil
}

// SetDefault 替换全局 logger，nil 表示丢弃
func SetDefault(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	defaultLogger = l
}

// L 返回全局 logger，未 Init 时为丢弃型 logger
func L() Logger {
	return defaultLogger
}

// Close 关闭全局 logger
func Close() error {
	if c, ok := defaultLogger.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Nop 返回丢弃所有日志的 Logger
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, any, ...any) {}
func (nopLogger) Info(context.Context, string, any, ...any)  {}
func (nopLogger) Warn(context.Context, string, any, ...any)  {}
func (nopLogger) Error(context.Context, string, any, ...any) {}

// 方便业务直接调用的快捷函数

func Debug(ctx context.Context, tag string, msg any, kv ...any) {
	logDefault(ctx, slog.LevelDebug, tag, msg, kv...)
}

func Info(ctx context.Context, tag string, msg any, kv ...any) {
	logDefault(ctx, slog.LevelInfo, tag, msg, kv...)
}

func Warn(ctx context.Context, tag string, msg any, kv ...any) {
	logDefault(ctx, slog.LevelWarn, tag, msg, kv...)
}

func Error(ctx context.Context, tag string, msg any, kv ...any) {
	logDefault(ctx, slog.LevelError, tag, msg, kv...)
}

func logDefault(ctx context.Context, level slog.Level, tag string, msg any, kv ...any) {
	if impl, ok := defaultLogger.(*loggerImpl); ok {
		impl.output(ctx, 2, level, tag, msg, kv...)
		return
	}
	switch level {
	case slog.LevelDebug:
		defaultLogger.Debug(ctx, tag, msg, kv...)
	case slog.LevelInfo:
		defaultLogger.Info(ctx, tag, msg, kv...)
	case slog.LevelWarn:
		defaultLogger.Warn(ctx, tag, msg, kv...)
	default:
		defaultLogger.Error(ctx, tag, msg, kv...)
	}
}
