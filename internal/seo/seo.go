// Package seo builds page meta tags and schema.org JSON-LD.
package seo

// OpenGraph holds og:* meta values.
type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
}

// Twitter holds twitter:* card values.
type Twitter struct {
	Card  string
	Site  string
	Image string
}

// Meta is the head metadata of a rendered page.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
}

// NewMeta fills the OpenGraph and Twitter fields from title/description/image.
func NewMeta(title, description, canonical, image string) Meta {
	return Meta{
		Title:       title,
		Description: description,
		Canonical:   canonical,
		Robots:      "index,follow",
		OG: OpenGraph{
			Title:       title,
			Description: description,
			Image:       image,
			Type:        "product",
			URL:         canonical,
		},
		Twitter: Twitter{
			Card:  "summary_large_image",
			Image: image,
		},
	}
}
