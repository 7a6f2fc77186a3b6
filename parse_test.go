//lint:file-ignore U1000 Ignore unused code in test file

package viewroutes

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTag(t *testing.T) {
	type tag struct {
		method, path, title string
	}
	tests := []struct {
		name  string
		route string
		want  tag
	}{
		{name: "Empty route", route: "", want: tag{methodAll, "/", ""}},
		{name: "Only path", route: "/example", want: tag{methodAll, "/example", ""}},
		{name: "Path and title", route: "/ Home", want: tag{methodAll, "/", "Home"}},
		{name: "Method and path", route: "POST /example", want: tag{"POST", "/example", ""}},
		{name: "Lower case method", route: "get /example", want: tag{"GET", "/example", ""}},
		{
			name:  "Method, path, and title",
			route: "GET /countries/{name}-{countryCode} Country Detail",
			want:  tag{"GET", "/countries/{name}-{countryCode}", "Country Detail"},
		},
		{
			name:  "Invalid method",
			route: "INVALID /example Invalid Method",
			want:  tag{methodAll, "INVALID", "/example Invalid Method"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got tag
			got.method, got.path, got.title = parseTag(tt.route)
			if got != tt.want {
				t.Errorf("parseTag(%q) = %+v, want %+v", tt.route, got, tt.want)
			}
		})
	}
}

type classifiedPage struct {
	child countryPage `route:"/child Child"`
}

func (classifiedPage) Page() component               { return testComponent{"page"} }
func (*classifiedPage) Sidebar() component           { return testComponent{"sidebar"} }
func (classifiedPage) Props() string                 { return "" }
func (classifiedPage) SidebarProps() string          { return "" }
func (classifiedPage) PageConfig() string            { return "Page" }
func (classifiedPage) Middlewares() []MiddlewareFunc { return nil }
func (*classifiedPage) Init() error                  { return nil }
func (classifiedPage) Helper(s string) string        { return s }

func TestParsePageTree(t *testing.T) {
	pc, err := parsePageTree("/ Root", classifiedPage{})
	if err != nil {
		t.Fatal(err)
	}
	root := pc.root

	if root.Name != "classifiedPage" || root.Route != "/" || root.Title != "Root" {
		t.Errorf("root = %s %s %s", root.Name, root.Route, root.Title)
	}
	if diff := cmp.Diff([]string{"Page", "Sidebar"}, sortedKeys(root.Components)); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Props", "SidebarProps"}, sortedKeys(root.Props)); diff != "" {
		t.Errorf("props mismatch (-want +got):\n%s", diff)
	}
	if root.Config == nil || root.Middlewares == nil || root.Init == nil {
		t.Errorf("PageConfig, Middlewares or Init not found: %s", root)
	}
	if root.Value.Kind() != reflect.Pointer {
		t.Errorf("root value should be a pointer, got %s", root.Value.Kind())
	}

	if len(root.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(root.Children))
	}
	child := root.Children[0]
	if child.Name != "child" || child.Parent != root || child.FullRoute() != "/child" {
		t.Errorf("child = %s, parent %v, route %s", child.Name, child.Parent == root, child.FullRoute())
	}
	if diff := cmp.Diff([]string{"CountryView", "Page"}, sortedKeys(child.Components)); diff != "" {
		t.Errorf("child components mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePageTree_Nil(t *testing.T) {
	if _, err := parsePageTree("/", nil); err == nil {
		t.Error("expected error for nil page")
	}
}
