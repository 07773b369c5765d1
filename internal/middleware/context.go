package middleware

import (
	"context"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyIsHTMX  ctxKey = "is_htmx"
	ctxKeyCountry ctxKey = "country"
	ctxKeyLocale  ctxKey = "locale"
)

// WithHTMX marks request as HTMX
func WithHTMX(ctx context.Context, is bool) context.Context {
	return context.WithValue(ctx, ctxKeyIsHTMX, is)
}

// IsHTMX returns whether this is an htmx request
func IsHTMX(ctx context.Context) bool {
	v, _ := ctx.Value(ctxKeyIsHTMX).(bool)
	return v
}

// WithCountry stores the resolved country code.
func WithCountry(ctx context.Context, country string) context.Context {
	return context.WithValue(ctx, ctxKeyCountry, country)
}

// Country returns the country stored by Geo, or "" when Geo did not run.
func Country(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyCountry).(string)
	return v
}

// WithLocale stores the resolved locale string.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKeyLocale, locale)
}

// Locale returns the locale stored by the Locale middleware.
func Locale(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyLocale).(string)
	return v
}
