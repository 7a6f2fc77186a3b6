package viewroutes

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testTree() *PageNode {
	return &PageNode{
		Name:  "Top",
		Route: "/",
		Children: []*PageNode{
			{
				Name:  "Child1",
				Route: "/countries",
				Children: []*PageNode{
					{Name: "GrandChild1", Route: "{name}-{countryCode}"},
					{Name: "GrandChild2", Route: "/new"},
				},
			},
			{Name: "Child2", Route: "/about/"},
		},
	}
}

func setParents(pn *PageNode) {
	for _, c := range pn.Children {
		c.Parent = pn
		setParents(c)
	}
}

func TestPageNode_All(t *testing.T) {
	root := testTree()
	want := []string{"Top", "Child1", "GrandChild1", "GrandChild2", "Child2"}

	var got []string
	for n := range root.All() {
		got = append(got, n.Name)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}

	got = got[:0]
	for n := range root.All() {
		if len(got) == 3 {
			break
		}
		got = append(got, n.Name)
	}
	if diff := cmp.Diff(want[:3], got); diff != "" {
		t.Errorf("All() with break mismatch (-want +got):\n%s", diff)
	}
}

func TestPageNode_FullRoute(t *testing.T) {
	root := testTree()
	setParents(root)

	want := map[string]string{
		"Top":         "/",
		"Child1":      "/countries",
		"GrandChild1": "/countries/{name}-{countryCode}",
		"GrandChild2": "/countries/new",
		"Child2":      "/about",
	}
	for n := range root.All() {
		if got := n.FullRoute(); got != want[n.Name] {
			t.Errorf("%s.FullRoute() = %q, want %q", n.Name, got, want[n.Name])
		}
	}
}

func TestPageNode_PatternAndParams(t *testing.T) {
	tbl, _ := mount(t, explorerPages{})

	country, ok := tbl.Route("country")
	if !ok {
		t.Fatal("country route not found")
	}
	if got := country.Pattern(); got != "/countries/{name}-{countryCode}" {
		t.Errorf("Pattern() = %q", got)
	}
	if diff := cmp.Diff([]string{"name", "countryCode"}, country.Params()); diff != "" {
		t.Errorf("Params() mismatch (-want +got):\n%s", diff)
	}
	if !country.Loaded() {
		t.Error("a page without Init is always loaded")
	}

	group := &PageNode{Name: "group"}
	if group.Pattern() != "" || group.Params() != nil {
		t.Error("group nodes have no pattern")
	}
}

func TestPageNode_String(t *testing.T) {
	pc, err := parsePageTree("/ Countries", explorerPages{})
	if err != nil {
		t.Fatal(err)
	}
	s := pc.root.String()
	for _, want := range []string{
		"name: explorerPages",
		"title: Countries",
		"route: /countries/{name}-{countryCode}",
		"component: CountryView -> viewroutes.countryPage.CountryView",
		"props: Props -> viewroutes.countryPage.Props",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}
