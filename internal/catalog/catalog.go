package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// ExpectedVariants is the number of colour variants the product is sold in.
const ExpectedVariants = 6

// Product holds the marketing copy for the single product on sale.
type Product struct {
	Name        string
	SKU         string
	Brand       string
	Title       string
	Summary     string
	Description string // markdown
	BuyLabel    string
}

// ColorVariant is a purchasable colour option. Cosmetic only, no stock behind it.
type ColorVariant struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Hex   string `json:"hex"`
}

// GalleryImage is one entry of the product gallery.
type GalleryImage struct {
	ID  string `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// PricingPolicy is the static price configuration shared by every request.
type PricingPolicy struct {
	BasePrice decimal.Decimal
	Discount  decimal.Decimal

	developed map[string]struct{}
	eurozone  map[string]struct{}
}

// IsDeveloped reports whether code is exempt from the discount. The lookup is
// exact: no case folding or trimming.
func (p PricingPolicy) IsDeveloped(code string) bool {
	_, ok := p.developed[code]
	return ok
}

// InEurozone reports whether code displays prices in EUR.
func (p PricingPolicy) InEurozone(code string) bool {
	_, ok := p.eurozone[code]
	return ok
}

// Catalog is the immutable product catalog. Slices returned by accessors are
// copies; callers cannot mutate the shared tables.
type Catalog struct {
	product  Product
	pricing  PricingPolicy
	variants []ColorVariant
	gallery  []GalleryImage

	variantsByName map[string]int
	imagesByID     map[string]int
}

// Product returns the product copy.
func (c *Catalog) Product() Product { return c.product }

// Pricing returns the pricing policy.
func (c *Catalog) Pricing() PricingPolicy { return c.pricing }

// Variants returns the colour variants in catalog order.
func (c *Catalog) Variants() []ColorVariant {
	out := make([]ColorVariant, len(c.variants))
	copy(out, c.variants)
	return out
}

// Gallery returns the gallery images in display order.
func (c *Catalog) Gallery() []GalleryImage {
	out := make([]GalleryImage, len(c.gallery))
	copy(out, c.gallery)
	return out
}

// VariantByName finds a colour variant by its exact name.
func (c *Catalog) VariantByName(name string) (ColorVariant, bool) {
	idx, ok := c.variantsByName[name]
	if !ok {
		return ColorVariant{}, false
	}
	return c.variants[idx], true
}

// ImageByID finds a gallery image by id.
func (c *Catalog) ImageByID(id string) (GalleryImage, bool) {
	idx, ok := c.imagesByID[id]
	if !ok {
		return GalleryImage{}, false
	}
	return c.gallery[idx], true
}

// ValidationError lists every problem found in a catalog document.
type ValidationError struct {
	problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog validation failed: [%s]", strings.Join(e.problems, "; "))
}

// Problems returns a copy of the validation problems.
func (e *ValidationError) Problems() []string {
	out := make([]string, len(e.problems))
	copy(out, e.problems)
	return out
}

// ErrEmptyDocument is returned by Load when no catalog data is supplied.
var ErrEmptyDocument = errors.New("catalog: empty document")

type document struct {
	Product struct {
		Name        string `yaml:"name"`
		SKU         string `yaml:"sku"`
		Brand       string `yaml:"brand"`
		Title       string `yaml:"title"`
		Summary     string `yaml:"summary"`
		Description string `yaml:"description"`
		BuyLabel    string `yaml:"buy_label"`
	} `yaml:"product"`
	Pricing struct {
		BasePrice string   `yaml:"base_price"`
		Discount  string   `yaml:"discount"`
		Developed []string `yaml:"developed"`
		Eurozone  []string `yaml:"eurozone"`
	} `yaml:"pricing"`
	Variants []struct {
		Name  string `yaml:"name"`
		Image string `yaml:"image"`
		Hex   string `yaml:"hex"`
	} `yaml:"variants"`
	Gallery []struct {
		ID  string `yaml:"id"`
		Src string `yaml:"src"`
		Alt string `yaml:"alt"`
	} `yaml:"gallery"`
}

// Load parses and validates a YAML catalog document.
func Load(data []byte) (*Catalog, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyDocument
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	var problems []string
	c := &Catalog{
		product: Product{
			Name:        strings.TrimSpace(doc.Product.Name),
			SKU:         strings.TrimSpace(doc.Product.SKU),
			Brand:       strings.TrimSpace(doc.Product.Brand),
			Title:       strings.TrimSpace(doc.Product.Title),
			Summary:     strings.TrimSpace(doc.Product.Summary),
			Description: doc.Product.Description,
			BuyLabel:    strings.TrimSpace(doc.Product.BuyLabel),
		},
		variantsByName: make(map[string]int, len(doc.Variants)),
		imagesByID:     make(map[string]int, len(doc.Gallery)),
	}
	if c.product.Name == "" {
		problems = append(problems, "product.name is required")
	}
	if c.product.Title == "" {
		c.product.Title = c.product.Name
	}
	if c.product.BuyLabel == "" {
		c.product.BuyLabel = "Buy Now"
	}

	base, err := decimal.NewFromString(strings.TrimSpace(doc.Pricing.BasePrice))
	switch {
	case err != nil:
		problems = append(problems, fmt.Sprintf("pricing.base_price %q is not a decimal", doc.Pricing.BasePrice))
	case !base.IsPositive():
		problems = append(problems, "pricing.base_price must be positive")
	}
	discount, err := decimal.NewFromString(strings.TrimSpace(doc.Pricing.Discount))
	switch {
	case err != nil:
		problems = append(problems, fmt.Sprintf("pricing.discount %q is not a decimal", doc.Pricing.Discount))
	case discount.IsNegative() || discount.GreaterThanOrEqual(decimal.NewFromInt(1)):
		problems = append(problems, "pricing.discount must be within [0, 1)")
	}
	c.pricing = PricingPolicy{
		BasePrice: base,
		Discount:  discount,
		developed: codeSet(doc.Pricing.Developed),
		eurozone:  codeSet(doc.Pricing.Eurozone),
	}

	if len(doc.Variants) != ExpectedVariants {
		problems = append(problems, fmt.Sprintf("expected %d variants, got %d", ExpectedVariants, len(doc.Variants)))
	}
	for i, v := range doc.Variants {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			problems = append(problems, fmt.Sprintf("variants[%d].name is required", i))
			continue
		}
		if _, dup := c.variantsByName[name]; dup {
			problems = append(problems, fmt.Sprintf("duplicate variant %q", name))
			continue
		}
		c.variantsByName[name] = len(c.variants)
		c.variants = append(c.variants, ColorVariant{Name: name, Image: strings.TrimSpace(v.Image), Hex: strings.TrimSpace(v.Hex)})
	}

	if len(doc.Gallery) == 0 {
		problems = append(problems, "gallery must contain at least one image")
	}
	for i, img := range doc.Gallery {
		id := strings.TrimSpace(img.ID)
		if id == "" {
			problems = append(problems, fmt.Sprintf("gallery[%d].id is required", i))
			continue
		}
		if _, dup := c.imagesByID[id]; dup {
			problems = append(problems, fmt.Sprintf("duplicate gallery image %q", id))
			continue
		}
		c.imagesByID[id] = len(c.gallery)
		c.gallery = append(c.gallery, GalleryImage{ID: id, Src: strings.TrimSpace(img.Src), Alt: strings.TrimSpace(img.Alt)})
	}

	if len(problems) > 0 {
		return nil, &ValidationError{problems: problems}
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog embedded in the binary. It is parsed once per
// process; an invalid embedded document is a build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(embeddedCatalog)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded document: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func codeSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		set[code] = struct{}{}
	}
	return set
}
