package views

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/angelofallars/htmx-go"
	"github.com/jackielii/viewroutes/internal/countries"
)

// NotFound renders the not-found view for paths outside the route table.
func NotFound(basePath string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render(w, r, http.StatusNotFound, shell("Not found", basePath+"/", notFoundBody(r.URL.Path)))
	})
}

// redirectError sends the client to the canonical URL of a page.
type redirectError struct {
	url string
}

func (e *redirectError) Error() string { return "moved to " + e.url }

// ErrorHandler renders failures of the route table. A country that does not
// exist is a not-found; anything else is logged and reported as a 500.
func ErrorHandler(logger *slog.Logger, basePath string) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		var redirect *redirectError
		if errors.As(err, &redirect) {
			if htmx.IsHTMX(r) {
				headers, err := htmx.NewResponse().Redirect(redirect.url).Headers()
				if err == nil {
					for k, v := range headers {
						w.Header().Set(k, v)
					}
					w.WriteHeader(http.StatusOK)
					return
				}
			}
			http.Redirect(w, r, redirect.url, http.StatusMovedPermanently)
			return
		}
		if errors.Is(err, countries.ErrNotFound) {
			logger.Debug("country not found", "path", r.URL.Path, "error", err)
			render(w, r, http.StatusNotFound, shell("Not found", basePath+"/", notFoundBody(r.URL.Path)))
			return
		}
		logger.Error("render failed", "path", r.URL.Path, "error", err)
		render(w, r, http.StatusInternalServerError,
			shell("Error", basePath+"/", errorBody(http.StatusInternalServerError, "Something went wrong.")))
	}
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = c.Render(r.Context(), w)
}
