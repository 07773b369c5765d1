package main

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	handlersPkg "github.com/xdemocle/victorinox-tomato-knife-shop/internal/handlers"
	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/httpx"
	mw "github.com/xdemocle/victorinox-tomato-knife-shop/internal/middleware"
	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/observability"
	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/requestctx"
)

// app bundles the collaborators shared by the HTTP handlers.
type app struct {
	page          *handlersPkg.ProductPage
	render        *renderer
	logger        *zap.Logger
	countryHeader string
	publicDir     string
	traceProject  string
}

// ProductHandler renders the product page. ?image=<id> preselects a gallery image.
func (a *app) ProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vm := a.page.Build(mw.Country(ctx), mw.Locale(ctx), r.URL.Query().Get("image"))
	observability.RecordQuote(ctx, vm.Data.Currency, vm.Data.IsDiscounted)
	requestctx.Logger(ctx).Debug("product page",
		zap.String("currency", vm.Data.Currency),
		zap.Bool("discounted", vm.Data.IsDiscounted),
		zap.String("color", vm.Data.AvailableColor),
	)
	a.render.render(w, r, "page_product", http.StatusOK, vm)
}

// GalleryFrag renders the gallery partial with imageID selected. An unknown
// id answers 204 so htmx keeps the current image. Non-htmx requests are
// redirected to the full page with the same selection.
func (a *app) GalleryFrag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "imageID")
	known := a.page.HasImage(id)
	if !mw.IsHTMX(r.Context()) {
		target := "/"
		if known {
			target = "/?image=" + url.QueryEscape(id)
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	if !known {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("HX-Push-Url", "/?image="+url.QueryEscape(id))
	a.render.render(w, r, "frag_gallery", http.StatusOK, a.page.GalleryFor(id))
}

// ProductJSON serves the loader data contract.
func (a *app) ProductJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := a.page.Load(mw.Country(ctx), mw.Locale(ctx))
	observability.RecordQuote(ctx, data.Currency, data.IsDiscounted)
	w.Header().Set("Cache-Control", "no-store")
	httpx.WriteJSON(ctx, w, http.StatusOK, data)
}

// NotFound renders the 404 page, or the JSON envelope under /api/.
func (a *app) NotFound(w http.ResponseWriter, r *http.Request) {
	if isAPI(r) {
		httpx.WriteError(r.Context(), w, httpx.NewError("not_found", "resource not found", http.StatusNotFound))
		return
	}
	a.render.renderError(w, r, http.StatusNotFound)
}

// MethodNotAllowed mirrors NotFound for unsupported methods.
func (a *app) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if isAPI(r) {
		httpx.WriteError(r.Context(), w, httpx.NewError("method_not_allowed", "method not allowed", http.StatusMethodNotAllowed))
		return
	}
	a.render.renderError(w, r, http.StatusMethodNotAllowed)
}

// Panic is handed to the recovery middleware.
func (a *app) Panic(w http.ResponseWriter, r *http.Request) {
	if isAPI(r) {
		httpx.WriteError(r.Context(), w, httpx.NewError("internal", "internal server error", http.StatusInternalServerError))
		return
	}
	a.render.renderError(w, r, http.StatusInternalServerError)
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
