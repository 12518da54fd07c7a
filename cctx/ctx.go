package cctx

import "context"

type fieldsKeyType struct{}

var fieldsKey fieldsKeyType

// Fields 是挂在 ctx 上的只读字段集合，写入时整体复制
type Fields map[string]any

func fieldsFrom(ctx context.Context) Fields {
	if ctx == nil {
		return nil
	}
	if f, ok := ctx.Value(fieldsKey).(Fields); ok {
		return f
	}
	return nil
}

func (f Fields) clone(extra int) Fields {
	out := make(Fields, len(f)+extra)
	for k, v := range f {
		out[k] = v
	}
	return out
}

// With 写入一个字段，返回新 ctx；parent 不受影响
func With(ctx context.Context, key string, val any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	next := fieldsFrom(ctx).clone(1)
	next[key] = val
	return context.WithValue(ctx, fieldsKey, next)
}

// WithMany 一次写入多条
func WithMany(ctx context.Context, kv map[string]any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(kv) == 0 {
		return ctx
	}
	next := fieldsFrom(ctx).clone(len(kv))
	for k, v := range kv {
		next[k] = v
	}
	return context.WithValue(ctx, fieldsKey, next)
}

func Get(ctx context.Context, key string) (any, bool) {
	v, ok := fieldsFrom(ctx)[key]
	return v, ok
}

// GetAs 读取并断言为 T
func GetAs[T any](ctx context.Context, key string) (T, bool) {
	var zero T
	v, ok := Get(ctx, key)
	if !ok {
		return zero, false
	}
	tv, ok := v.(T)
	if !ok {
		return zero, false
	}
	return tv, true
}

// All 返回字段的副本，hidden 中的 key 不输出
func All(ctx context.Context, hidden ...string) map[string]any {
	f := fieldsFrom(ctx)
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = v
	}
	for _, k := range hidden {
		delete(out, k)
	}
	return out
}
