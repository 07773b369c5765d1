// Package pricing decides the price, currency and display locale of a page
// view from the visitor's country and language headers.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/catalog"
)

// Currency is the display currency of a quote.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

const (
	// DefaultCountry is used when no country header is present.
	DefaultCountry = "US"
	// DefaultLocale is used when Accept-Language is absent or its first token is empty.
	DefaultLocale = "en-US"

	// priceScale is the number of fractional digits kept after discounting.
	priceScale = 2
)

// Policy answers the two country-set questions the resolver needs.
type Policy interface {
	IsDeveloped(code string) bool
	InEurozone(code string) bool
}

// Result is the price decision for one country.
type Result struct {
	Price        decimal.Decimal
	Currency     Currency
	IsDiscounted bool
}

// Quote is a Result together with the locale used to format it.
type Quote struct {
	Result
	Country string
	Locale  string
}

// Resolver turns request metadata into a Quote. It holds no mutable state and
// is safe for concurrent use.
type Resolver struct {
	policy     Policy
	fullPrice  decimal.Decimal
	discounted decimal.Decimal
}

// NewResolver builds a resolver from the catalog's pricing policy.
func NewResolver(policy catalog.PricingPolicy) *Resolver {
	return NewResolverWith(policy, policy.BasePrice, policy.Discount)
}

// NewResolverWith builds a resolver from an arbitrary country policy, base
// price and discount fraction.
func NewResolverWith(policy Policy, base, discount decimal.Decimal) *Resolver {
	return &Resolver{
		policy:     policy,
		fullPrice:  base,
		discounted: DiscountedPrice(base, discount),
	}
}

// DiscountedPrice returns base*(1-discount) rounded half-to-even to cents.
func DiscountedPrice(base, discount decimal.Decimal) decimal.Decimal {
	return base.Mul(decimal.NewFromInt(1).Sub(discount)).RoundBank(priceScale)
}

// ResolveCountry returns the header value verbatim, or DefaultCountry when it
// is empty. Unknown or lowercase codes are kept as-is and simply miss every set.
func ResolveCountry(header string) string {
	if header == "" {
		return DefaultCountry
	}
	return header
}

// ResolveLocale takes the first comma separated token of an Accept-Language
// value. Quality parameters are not interpreted.
func ResolveLocale(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLocale
	}
	first, _, _ := strings.Cut(acceptLanguage, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return DefaultLocale
	}
	return first
}

// Price decides the price for an already resolved country. The discount and
// the currency are independent: a developed non-eurozone country such as GB
// pays full price in USD.
func (r *Resolver) Price(country string) Result {
	developed := r.policy.IsDeveloped(country)
	res := Result{
		Price:        r.fullPrice,
		Currency:     CurrencyUSD,
		IsDiscounted: !developed,
	}
	if res.IsDiscounted {
		res.Price = r.discounted
	}
	if r.policy.InEurozone(country) {
		res.Currency = CurrencyEUR
	}
	return res
}

// Resolve computes the full quote from raw header values.
func (r *Resolver) Resolve(countryHeader, acceptLanguage string) Quote {
	country := ResolveCountry(countryHeader)
	return Quote{
		Result:  r.Price(country),
		Country: country,
		Locale:  ResolveLocale(acceptLanguage),
	}
}
