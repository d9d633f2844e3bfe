package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/autochart/internal/core"
	appmw "github.com/JonMunkholm/autochart/internal/web/middleware"
)

// WithRequestMetadata adds client IP and User-Agent to ctx for pass history.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, appmw.ClientIP(r))
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}
