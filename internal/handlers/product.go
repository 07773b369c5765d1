package handlers

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/catalog"
	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/content"
	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/format"
	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/gallery"
	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/pricing"
	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/seo"
	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/variant"
)

// LoaderData is the per-request data contract served at /api/product and
// rendered into the product page.
type LoaderData struct {
	Price          float64 `json:"price"`
	Currency       string  `json:"currency"`
	Locale         string  `json:"locale"`
	AvailableColor string  `json:"availableColor"`
	IsDiscounted   bool    `json:"isDiscounted"`
}

// GalleryData is the view model of the gallery partial.
type GalleryData struct {
	Selected   catalog.GalleryImage
	Thumbnails []gallery.Thumbnail
}

// ProductPageData is the view model for the product page.
type ProductPageData struct {
	Lang        string
	Product     catalog.Product
	Description template.HTML
	Data        LoaderData
	// Price is Data.Price formatted for Data.Locale.
	Price         string
	DiscountBadge string
	// Available is nil when the drawn colour is not in the catalog.
	Available *catalog.ColorVariant
	Gallery   GalleryData
	SEO       seo.Meta
	JSONLD    template.JS
}

// ProductPage assembles page data from the catalog, the pricing resolver and
// the variant selector. It is safe for concurrent use.
type ProductPage struct {
	catalog     *catalog.Catalog
	resolver    *pricing.Resolver
	selector    *variant.Selector
	gallery     *gallery.Gallery
	description template.HTML
	baseURL     string
}

// NewProductPage renders the product description once and wires the
// per-request collaborators.
func NewProductPage(cat *catalog.Catalog, selector *variant.Selector, baseURL string) (*ProductPage, error) {
	if cat == nil {
		return nil, fmt.Errorf("handlers: catalog is required")
	}
	if selector == nil {
		selector = variant.NewSelector(cat.Variants(), nil)
	}
	desc, err := content.Render(cat.Product().Description)
	if err != nil {
		return nil, fmt.Errorf("handlers: product description: %w", err)
	}
	return &ProductPage{
		catalog:     cat,
		resolver:    pricing.NewResolver(cat.Pricing()),
		selector:    selector,
		gallery:     gallery.New(cat.Gallery()),
		description: desc,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}, nil
}

// Load resolves price, currency and locale from the raw header values and
// draws a colour. Each call is an independent draw.
func (p *ProductPage) Load(countryHeader, acceptLanguage string) LoaderData {
	data, _ := p.load(countryHeader, acceptLanguage)
	return data
}

func (p *ProductPage) load(countryHeader, acceptLanguage string) (LoaderData, pricing.Quote) {
	quote := p.resolver.Resolve(countryHeader, acceptLanguage)
	return LoaderData{
		Price:          quote.Price.InexactFloat64(),
		Currency:       string(quote.Currency),
		Locale:         quote.Locale,
		AvailableColor: p.selector.Pick().Name,
		IsDiscounted:   quote.IsDiscounted,
	}, quote
}

// Build loads the data contract and turns it into the page view model with
// imageID preselected in the gallery. Unknown ids show the first image.
func (p *ProductPage) Build(countryHeader, acceptLanguage, imageID string) ProductPageData {
	data, quote := p.load(countryHeader, acceptLanguage)
	product := p.catalog.Product()

	vm := ProductPageData{
		Lang:        format.Locale(data.Locale).String(),
		Product:     product,
		Description: p.description,
		Data:        data,
		Price:       format.FmtCurrency(quote.Price, data.Currency, data.Locale),
		Gallery:     p.GalleryFor(imageID),
	}
	if data.IsDiscounted {
		vm.DiscountBadge = format.FmtPercent(p.catalog.Pricing().Discount, data.Locale) + " Off Applied"
	}
	if v, ok := p.catalog.VariantByName(data.AvailableColor); ok {
		vm.Available = &v
	}

	canonical := p.absURL("/")
	image := p.absURL(p.gallery.Initial().Selected.Src)
	vm.SEO = seo.NewMeta(product.Title, product.Summary, canonical, image)
	vm.SEO.OG.SiteName = product.Brand
	vm.JSONLD = seo.Script(seo.Product(product.Name, product.Summary, canonical, image, product.SKU, product.Brand, seo.Offer{
		Price:        quote.Price.StringFixed(2),
		Currency:     data.Currency,
		Availability: "https://schema.org/InStock",
		URL:          canonical,
	}))
	return vm
}

// GalleryFor returns the gallery partial with imageID selected.
func (p *ProductPage) GalleryFor(imageID string) GalleryData {
	st := p.gallery.StateFor(imageID)
	return GalleryData{
		Selected:   st.Selected,
		Thumbnails: p.gallery.Thumbnails(st, gallery.DefaultThumbnails),
	}
}

// HasImage reports whether imageID is a valid gallery selection.
func (p *ProductPage) HasImage(imageID string) bool {
	_, ok := p.catalog.ImageByID(imageID)
	return ok
}

func (p *ProductPage) absURL(path string) string {
	if p.baseURL == "" {
		return path
	}
	return p.baseURL + path
}
