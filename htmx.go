package viewroutes

import (
	"net/http"
	"strings"

	"github.com/angelofallars/htmx-go"
)

// HTMXPageConfig picks the component to render from the HX-Target header, so a
// partial navigation renders only the element being swapped:
//
//	HX-Target: country-view  ->  CountryView
//	HX-Target: country-list  ->  CountryList
//
// Plain and boosted requests, and requests without a usable target, get Page.
// When the page has no component for the target, the table renders Page and
// retargets the swap to the body.
//
//	t := viewroutes.New(viewroutes.WithDefaultPageConfig(viewroutes.HTMXPageConfig))
func HTMXPageConfig(r *http.Request) (string, error) {
	if htmx.IsHTMX(r) && !htmx.IsBoosted(r) {
		if target, ok := htmx.GetTarget(r); ok && target != "" {
			if name := mixedCase(target); name != "" {
				return name, nil
			}
		}
	}
	return "Page", nil
}

// mixedCase turns an element id like "country-view" into "CountryView".
func mixedCase(s string) string {
	if s == "" || strings.ContainsAny(s, " \t") {
		return ""
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, "")
}
