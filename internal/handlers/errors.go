package handlers

import (
	"net/http"

	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/seo"
)

// ErrorPageData is the view model for the error page.
type ErrorPageData struct {
	Lang    string
	Status  int
	Title   string
	Message string
	SEO     seo.Meta
}

// BuildErrorData returns the error page for status. 404 gets its own copy;
// every other status shows the generic message.
func BuildErrorData(status int) ErrorPageData {
	d := ErrorPageData{
		Lang:    "en",
		Status:  status,
		Title:   "Oops! Something went wrong",
		Message: "We're sorry, but we encountered an error. Please try again later.",
	}
	if status == http.StatusNotFound {
		d.Title = "Page not found"
		d.Message = "The page you are looking for does not exist."
	}
	d.SEO = seo.Meta{Title: d.Title, Robots: "noindex,nofollow"}
	return d
}
