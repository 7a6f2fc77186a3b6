//lint:file-ignore U1000 Ignore unused code in test file

package viewroutes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

type linkPages struct {
	home    homePage    `route:"/ Home"`
	country countryPage `route:"GET /countries/{name}-{countryCode} Country"`
	files   filesPage   `route:"/files/:dir/{path...}"`
	links   linksPage   `route:"/links/{name}-{countryCode}"`
}

type filesPage struct{}

func (filesPage) Page() component { return testComponent{"files"} }

// linksPage writes URLs built from the request context.
type linksPage struct{}

func (linksPage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	for _, args := range [][]any{
		{"country"},
		{"country", map[string]any{"countryCode": "DE"}},
		{"home"},
	} {
		u, err := URLFor(ctx, args[0], args[1:]...)
		if err != nil {
			u = "error: " + err.Error()
		}
		fmt.Fprintln(w, u)
	}
}

func TestURLFor(t *testing.T) {
	tbl, _ := mount(t, linkPages{})

	tests := []struct {
		name string
		page any
		args []any
		want string
		err  error
	}{
		{name: "static", page: "home", want: "/"},
		{name: "positional", page: "country", args: []any{"france", "FR"}, want: "/countries/france-FR"},
		{name: "map", page: "country", args: []any{map[string]any{"countryCode": "FR", "name": "france"}}, want: "/countries/france-FR"},
		{name: "pairs", page: "country", args: []any{"countryCode", "FR", "name", "france"}, want: "/countries/france-FR"},
		{name: "non-string values", page: "files", args: []any{2024, "a/b.txt"}, want: "/files/2024/a%2Fb.txt"},
		{name: "by value", page: countryPage{}, args: []any{"france", "FR"}, want: "/countries/france-FR"},
		{name: "by pointer", page: &countryPage{}, args: []any{"france", "FR"}, want: "/countries/france-FR"},
		{
			name: "by predicate",
			page: func(n *PageNode) bool { return n.Title == "Country" },
			args: []any{"france", "FR"},
			want: "/countries/france-FR",
		},
		{name: "greedy name", page: "country", args: []any{"bosnia-and-herzegovina", "BA"}, want: "/countries/bosnia-and-herzegovina-BA"},
		{name: "escaped", page: "country", args: []any{"a b/c", "XY"}, want: "/countries/a%20b%2Fc-XY"},
		{name: "query suffix", page: []any{"home", "?q={q}"}, args: []any{"q", "côte d"}, want: "/?q=c%C3%B4te+d"},
		{name: "literal suffix", page: []any{"country", "?tab=map"}, args: []any{"france", "FR"}, want: "/countries/france-FR?tab=map"},
		{name: "missing", page: "country", args: []any{"france"}, err: ErrMissingParam},
		{name: "missing map key", page: "country", args: []any{map[string]any{"name": "france"}}, err: ErrMissingParam},
		{name: "empty value", page: "country", args: []any{"", "FR"}, err: ErrMissingParam},
		{name: "ambiguous split", page: "country", args: []any{"france", "F-R"}, err: ErrAmbiguousParams},
		{name: "unknown name", page: "nope", err: ErrRouteNotFound},
		{name: "unknown type", page: struct{}{}, err: ErrRouteNotFound},
		{name: "no predicate match", page: func(*PageNode) bool { return false }, err: ErrRouteNotFound},
		{name: "empty list", page: []any{}, err: ErrRouteNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tbl.URLFor(tt.page, tt.args...)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("URLFor() error = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("URLFor() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("URLFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestURLFor_RoundTrip(t *testing.T) {
	tbl, _ := mount(t, linkPages{})
	for _, args := range [][2]string{
		{"france", "FR"},
		{"bosnia-and-herzegovina", "BA"},
		{"côte-d-ivoire", "CI"},
		{"100%", "X"},
	} {
		u, err := tbl.URLFor("country", args[0], args[1])
		if err != nil {
			t.Fatalf("URLFor(%v): %v", args, err)
		}
		m, ok := tbl.Match(u)
		if !ok || m.Node.Name != "country" {
			t.Fatalf("Match(%q) did not resolve to country", u)
		}
		if m.Get("name") != args[0] || m.Get("countryCode") != args[1] {
			t.Errorf("Match(%q) = %v, want %v", u, m.Map(), args)
		}
	}
}

func TestURLFor_BasePath(t *testing.T) {
	tbl, _ := mount(t, linkPages{}, WithBasePath("/app"))
	got, err := tbl.URLFor("country", "france", "FR")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/app/countries/france-FR" {
		t.Errorf("URLFor() = %q", got)
	}
}

func TestURLFor_Context(t *testing.T) {
	_, mux := mount(t, linkPages{}, WithBasePath("/app"))

	rec := serve(mux, http.MethodGet, "/app/links/france-FR")
	want := "/app/countries/france-FR\n/app/countries/france-DE\n/app/\n"
	if got := rec.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}

	if _, err := URLFor(context.Background(), "home"); err == nil {
		t.Error("URLFor without a table in the context should fail")
	}
	if got := PathValue(context.Background(), "name"); got != "" {
		t.Errorf("PathValue() = %q outside a request", got)
	}
	if CurrentMatch(context.Background()) != nil {
		t.Error("CurrentMatch() != nil outside a request")
	}
}

func TestParseSegments(t *testing.T) {
	segs, err := parseSegments("/a/{x}?q={y}")
	if err != nil {
		t.Fatal(err)
	}
	want := []segment{
		{name: "/a/"},
		{name: "x", param: true},
		{name: "?q="},
		{name: "y", param: true, query: true},
	}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(segs), len(want), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, segs[i], want[i])
		}
	}
	if _, err := parseSegments("/a/{x"); err == nil {
		t.Error("expected error for unmatched {")
	}
}
