package seo

import (
	"encoding/json"
	"html/template"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Script marshals v for a <script type="application/ld+json"> body.
func Script(v any) template.JS {
	return template.JS(JSON(v))
}

// Offer describes the price of a product in schema.org terms.
type Offer struct {
	Price        string
	Currency     string
	Availability string
	URL          string
}

// Product returns a minimal product schema payload, with an Offer when the
// offer carries a price.
func Product(name, description, url, imageURL, sku, brand string, offer Offer) map[string]any {
	m := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        name,
		"description": description,
	}
	if url != "" {
		m["url"] = url
	}
	if imageURL != "" {
		m["image"] = imageURL
	}
	if sku != "" {
		m["sku"] = sku
	}
	if brand != "" {
		m["brand"] = map[string]any{"@type": "Brand", "name": brand}
	}
	if offer.Price != "" {
		o := map[string]any{
			"@type":         "Offer",
			"price":         offer.Price,
			"priceCurrency": offer.Currency,
		}
		if offer.Availability != "" {
			o["availability"] = offer.Availability
		}
		if offer.URL != "" {
			o["url"] = offer.URL
		}
		m["offers"] = o
	}
	return m
}
