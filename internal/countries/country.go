// Package countries fetches country data from the REST Countries API and
// caches it in memory.
package countries

import (
	"errors"
	"strings"
	"unicode"
)

// ErrNotFound is returned when no country matches a code or name.
var ErrNotFound = errors.New("country not found")

// Country is the country data shown by the views and the JSON API.
type Country struct {
	Name         string   `json:"name"`
	OfficialName string   `json:"official_name,omitempty"`
	Code         string   `json:"code"`
	Capital      string   `json:"capital,omitempty"`
	Region       string   `json:"region,omitempty"`
	Subregion    string   `json:"subregion,omitempty"`
	Population   int64    `json:"population,omitempty"`
	Flag         string   `json:"flag,omitempty"`
	Currencies   []string `json:"currencies,omitempty"`
}

// Slug is the name part of a country URL: lower case, with every run of
// non-alphanumerics replaced by a single "-".
func (c Country) Slug() string { return Slug(c.Name) }

// Slug lower-cases name and joins its alphanumeric runs with "-".
func Slug(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "-")
}
