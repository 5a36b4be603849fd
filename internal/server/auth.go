package server

import (
	"context"
	"net/http"
)

// bearerKey is the context key under which the forwarded Authorization
// header value is stored. The raw token never leaves the context; handlers
// pass it straight to the Drive credential wrapper.
type bearerKey struct{}

// WithBearer returns a context carrying the Authorization header value.
func WithBearer(ctx context.Context, headerValue string) context.Context {
	return context.WithValue(ctx, bearerKey{}, headerValue)
}

// BearerFromContext returns the forwarded Authorization header value, or
// empty when the request carried none.
func BearerFromContext(ctx context.Context) string {
	value, _ := ctx.Value(bearerKey{}).(string)
	return value
}

// HTTPContextFunc copies the Authorization header of an incoming MCP
// request into the request context. It is installed on the streamable HTTP
// transport so every tool invocation sees the credential the proxy
// forwarded for it.
func HTTPContextFunc(ctx context.Context, r *http.Request) context.Context {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return WithBearer(ctx, auth)
	}
	return ctx
}
