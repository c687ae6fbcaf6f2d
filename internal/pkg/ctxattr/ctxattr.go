// Package ctxattr stores attributes in the context, they are added to all spans started with the context.
package ctxattr

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

type ctxKey string

const attrsCtxKey = ctxKey("attrs")

// ContextWith returns a context with the attributes added, an existing key is overwritten.
func ContextWith(ctx context.Context, attrs ...attribute.KeyValue) context.Context {
	current := Attributes(ctx)
	merged := make([]attribute.KeyValue, 0, current.Len()+len(attrs))
	merged = append(merged, current.ToSlice()...)
	merged = append(merged, attrs...)
	set := attribute.NewSet(merged...)
	return context.WithValue(ctx, attrsCtxKey, &set)
}

func Attributes(ctx context.Context) *attribute.Set {
	if set, ok := ctx.Value(attrsCtxKey).(*attribute.Set); ok {
		return set
	}
	return attribute.EmptySet()
}
