// Package requestcontext carries request-scoped values (request ID, client
// metadata, authenticated subject, clock) through context.Context.
package requestcontext

import (
	"context"
	"time"
)

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyClientIP
	keyUserAgent
	keySubject
	keyNow
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(keyRequestID).(string)
	return v
}

// WithClientMetadata stores the resolved client IP and raw User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, keyClientIP, clientIP)
	return context.WithValue(ctx, keyUserAgent, userAgent)
}

func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(keyClientIP).(string)
	return v
}

func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(keyUserAgent).(string)
	return v
}

// WithSubject stores the authenticated credential ID taken from a bearer token.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, keySubject, subject)
}

// Subject returns the authenticated credential ID, or "" for anonymous requests.
func Subject(ctx context.Context) string {
	v, _ := ctx.Value(keySubject).(string)
	return v
}

// WithTime pins the clock for everything downstream of ctx. Tests use it to
// exercise expiry without sleeping.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, keyNow, t)
}

// Now returns the pinned time if one was set, otherwise time.Now().
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(keyNow).(time.Time); ok {
		return t
	}
	return time.Now()
}
