package viewroutes

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// PrintRoutes renders the table's routes in lookup order, one per line:
// name, method, full pattern (with base path) and title.
func PrintRoutes(t *Table) string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMETHOD\tPATTERN\tTITLE")
	for _, n := range t.routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.Name, n.Method, t.basePath+n.Pattern(), n.Title)
	}
	_ = tw.Flush()
	return sb.String()
}
