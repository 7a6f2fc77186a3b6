package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/jackielii/viewroutes"
	"github.com/jackielii/viewroutes/internal/countries"
)

const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

var esc = templ.EscapeString

// shell is the HTML document around every view. Views render into #view.
func shell(title, home string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<script src="%s"></script>
</head>
<body hx-boost="true">
<header><a href="%s">Countries</a></header>
<main id="view">`, esc(title), htmxScript, esc(home)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

// layout wraps body in the shell, linking the header to the home route.
func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		home, err := viewroutes.URLFor(ctx, "home")
		if err != nil {
			return err
		}
		return shell(title, home, body).Render(ctx, w)
	})
}

func homeBody(p homeProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		home, err := viewroutes.URLFor(ctx, "home")
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<h1>Countries</h1>
<form action="%[1]s" method="get" hx-get="%[1]s" hx-target="#country-list" hx-trigger="input changed delay:300ms from:input, submit">
<input type="search" name="q" value="%[2]s" placeholder="Search countries">
</form>
<ul id="country-list">`, esc(home), esc(p.Query)); err != nil {
			return err
		}
		if err := countryItems(p.Countries).Render(ctx, w); err != nil {
			return err
		}
		_, err = io.WriteString(w, "</ul>\n")
		return err
	})
}

// countryList is the #country-list element's content.
func countryList(list []countries.Country) templ.Component {
	return countryItems(list)
}

func countryItems(list []countries.Country) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(list) == 0 {
			_, err := io.WriteString(w, `<li class="empty">No countries found</li>`)
			return err
		}
		for _, c := range list {
			slug := c.Slug()
			if slug == "" {
				continue
			}
			href, err := viewroutes.URLFor(ctx, "country", slug, c.Code)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, `<li><a href="%[1]s" hx-get="%[1]s" hx-target="#view">%[2]s %[3]s</a></li>`,
				esc(href), esc(c.Flag), esc(c.Name)); err != nil {
				return err
			}
		}
		return nil
	})
}

func countryDetail(c *countries.Country) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		rows := [][2]string{
			{"Official name", c.OfficialName},
			{"Code", c.Code},
			{"Capital", c.Capital},
			{"Region", strings.Trim(c.Region+" / "+c.Subregion, " /")},
			{"Population", formatPopulation(c.Population)},
			{"Currencies", strings.Join(c.Currencies, ", ")},
		}
		if _, err := fmt.Fprintf(w, "<article class=\"country\">\n<h1>%s %s</h1>\n<dl>\n", esc(c.Flag), esc(c.Name)); err != nil {
			return err
		}
		for _, row := range rows {
			if row[1] == "" {
				continue
			}
			if _, err := fmt.Fprintf(w, "<dt>%s</dt><dd>%s</dd>\n", esc(row[0]), esc(row[1])); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</dl>\n</article>\n")
		return err
	})
}

func notFoundBody(path string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<h1>Not found</h1>\n<p>Nothing lives at <code>%s</code>.</p>\n", esc(path))
		return err
	})
}

func errorBody(status int, msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<h1>%d</h1>\n<p>%s</p>\n", status, esc(msg))
		return err
	})
}

// formatPopulation groups digits by thousands: 67391582 -> 67,391,582.
func formatPopulation(n int64) string {
	if n <= 0 {
		return ""
	}
	s := fmt.Sprint(n)
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
