package middleware

import (
	"net/http"

	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/pricing"
)

// Geo resolves the visitor country from the edge header (CF-IPCountry by
// default). A missing header resolves to US. The value is not normalised.
func Geo(header string) func(http.Handler) http.Handler {
	if header == "" {
		header = "CF-IPCountry"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := pricing.ResolveCountry(r.Header.Get(header))
			next.ServeHTTP(w, r.WithContext(WithCountry(r.Context(), country)))
		})
	}
}

// ResolveLocale stores the first Accept-Language entry on the context and
// announces it through Content-Language.
func ResolveLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := pricing.ResolveLocale(r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Language", locale)
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), locale)))
	})
}

// Vary marks dynamic responses as depending on Accept-Language and the
// country header.
func Vary(countryHeader string) func(http.Handler) http.Handler {
	if countryHeader == "" {
		countryHeader = "CF-IPCountry"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// append to existing Vary if any
			w.Header().Add("Vary", "Accept-Language")
			w.Header().Add("Vary", countryHeader)
			next.ServeHTTP(w, r)
		})
	}
}
