package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	handlersPkg "github.com/xdemocle/victorinox-tomato-knife-shop/internal/handlers"
	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/requestctx"
)

// renderer executes named templates. In dev mode templates are reparsed on
// each request.
type renderer struct {
	dir   string
	dev   bool
	cache *template.Template
}

func newRenderer(dir string, dev bool) (*renderer, error) {
	rd := &renderer{dir: dir, dev: dev}
	tc, err := parseTemplates(dir)
	if err != nil {
		return nil, err
	}
	rd.cache = tc
	return rd, nil
}

func parseTemplates(dir string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"now": time.Now,
	}
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", dir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

func (rd *renderer) templates() (*template.Template, error) {
	if rd.dev {
		return parseTemplates(rd.dir)
	}
	if rd.cache == nil {
		return nil, fmt.Errorf("template not initialized")
	}
	return rd.cache, nil
}

// execute renders name into a buffer so a failing template never leaves a
// half-written page behind.
func (rd *renderer) execute(name string, data any) ([]byte, error) {
	t, err := rd.templates()
	if err != nil {
		return nil, fmt.Errorf("template parse: %w", err)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("template exec %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// render writes the named template with status, falling back to the error
// page when execution fails.
func (rd *renderer) render(w http.ResponseWriter, r *http.Request, name string, status int, data any) {
	body, err := rd.execute(name, data)
	if err != nil {
		requestctx.Logger(r.Context()).Error("render failed", zap.String("template", name), zap.Error(err))
		rd.renderError(w, r, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// renderError writes the HTML error page. If the error template itself is
// broken a plain-text response is sent instead.
func (rd *renderer) renderError(w http.ResponseWriter, r *http.Request, status int) {
	data := handlersPkg.BuildErrorData(status)
	body, err := rd.execute("page_error", data)
	if err != nil {
		requestctx.Logger(r.Context()).Error("render error page failed", zap.Error(err))
		http.Error(w, data.Title, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
