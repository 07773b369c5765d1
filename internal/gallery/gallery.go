// Package gallery models which product image is currently on display.
package gallery

import "github.com/xdemocle/victorinox-tomato-knife-shop/internal/catalog"

// DefaultThumbnails is how many images are offered as thumbnails.
const DefaultThumbnails = 6

// State is the currently displayed image. It is always a member of the
// gallery it was produced from.
type State struct {
	Selected catalog.GalleryImage
}

// Thumbnail is a selectable image with its active flag.
type Thumbnail struct {
	catalog.GalleryImage
	Active bool
}

// Gallery is an ordered, immutable image sequence.
type Gallery struct {
	images []catalog.GalleryImage
	index  map[string]int
}

// New builds a gallery over images in display order.
func New(images []catalog.GalleryImage) *Gallery {
	g := &Gallery{
		images: make([]catalog.GalleryImage, len(images)),
		index:  make(map[string]int, len(images)),
	}
	copy(g.images, images)
	for i, img := range g.images {
		if _, dup := g.index[img.ID]; !dup {
			g.index[img.ID] = i
		}
	}
	return g
}

// Initial displays the first image.
func (g *Gallery) Initial() State {
	if len(g.images) == 0 {
		return State{}
	}
	return State{Selected: g.images[0]}
}

// Select is the only transition: it displays the image with id. An unknown
// id leaves current untouched and reports false.
func (g *Gallery) Select(current State, id string) (State, bool) {
	idx, ok := g.index[id]
	if !ok {
		return current, false
	}
	return State{Selected: g.images[idx]}, true
}

// StateFor starts from Initial and applies a selection when id is known.
func (g *Gallery) StateFor(id string) State {
	st := g.Initial()
	if id == "" {
		return st
	}
	st, _ = g.Select(st, id)
	return st
}

// Thumbnails returns the first n images marked against st. n <= 0 uses
// DefaultThumbnails.
func (g *Gallery) Thumbnails(st State, n int) []Thumbnail {
	if n <= 0 {
		n = DefaultThumbnails
	}
	if n > len(g.images) {
		n = len(g.images)
	}
	out := make([]Thumbnail, 0, n)
	for _, img := range g.images[:n] {
		out = append(out, Thumbnail{GalleryImage: img, Active: img.ID == st.Selected.ID})
	}
	return out
}

// Len reports the number of images.
func (g *Gallery) Len() int { return len(g.images) }
