// Package views holds the country explorer's pages: the route table
// definition and the components each route renders.
package views

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/jackielii/viewroutes"
	"github.com/jackielii/viewroutes/internal/countries"
)

// Pages is the route table of the explorer. Field names are route names.
//
//lint:ignore U1000 fields are read through struct tags
type Pages struct {
	home    homeView    `route:"GET / Home"`
	country countryView `route:"GET /countries/{name}-{countryCode} Country"`
}

// homeView lists every country. Init warms the service's index on the first
// visit; Props reads through the cache, so the list refreshes once cache_ttl
// expires.
type homeView struct{}

type homeProps struct {
	Query     string
	Countries []countries.Country
}

func (h *homeView) Init(ctx context.Context, svc *countries.Service) error {
	_, err := svc.Index(ctx)
	return err
}

func (h *homeView) Props(r *http.Request, svc *countries.Service) (homeProps, error) {
	list, err := svc.Index(r.Context())
	if err != nil {
		return homeProps{}, err
	}
	q := r.URL.Query().Get("q")
	return homeProps{Query: q, Countries: countries.Filter(list, q)}, nil
}

func (h *homeView) Page(p homeProps) templ.Component {
	return layout("Countries", homeBody(p))
}

func (h *homeView) View(p homeProps) templ.Component {
	return homeBody(p)
}

func (h *homeView) CountryList(p homeProps) templ.Component {
	return countryList(p.Countries)
}

type countryView struct{}

type countryProps struct {
	Country *countries.Country
}

// Props looks the country up by code. A URL whose name or code is not the
// canonical one, e.g. /countries/germany-FR, is redirected to it.
func (countryView) Props(r *http.Request, svc *countries.Service) (countryProps, error) {
	ctx := r.Context()
	c, err := svc.Lookup(ctx, viewroutes.PathValue(ctx, "countryCode"))
	if err != nil {
		return countryProps{}, err
	}
	slug := c.Slug()
	if slug != "" && (viewroutes.PathValue(ctx, "name") != slug || viewroutes.PathValue(ctx, "countryCode") != c.Code) {
		u, err := viewroutes.URLFor(ctx, "country", slug, c.Code)
		if err != nil {
			return countryProps{}, err
		}
		return countryProps{}, &redirectError{url: u}
	}
	return countryProps{Country: c}, nil
}

func (countryView) Page(p countryProps) templ.Component {
	return layout(p.Country.Name, countryDetail(p.Country))
}

func (countryView) View(p countryProps) templ.Component {
	return countryDetail(p.Country)
}
