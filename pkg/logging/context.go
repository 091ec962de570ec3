package logging

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

type ctxKey struct{}

var zapFieldsKey = ctxKey{}

type zapFields map[string]zap.Field

// WithContextFields returns a copy of ctx carrying fields. A field with the
// same key as an earlier one replaces it.
func WithContextFields(ctx context.Context, fields ...zap.Field) context.Context {
	existing, _ := ctx.Value(zapFieldsKey).(zapFields)

	merged := make(zapFields, len(existing)+len(fields))
	for k, v := range existing {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f
	}

	return context.WithValue(ctx, zapFieldsKey, merged)
}

// ContextFields returns the fields stored in ctx ordered by key.
func ContextFields(ctx context.Context) []zap.Field {
	stored, _ := ctx.Value(zapFieldsKey).(zapFields)
	keys := make([]string, 0, len(stored))
	for k := range stored {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		res = append(res, stored[k])
	}
	return res
}
