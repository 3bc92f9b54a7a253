package dashboard

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Stat is one headline figure of a page.
type Stat struct {
	Label string
	Value string
}

// Section is a titled table; Empty is shown instead when it has no rows.
type Section struct {
	Title   string
	Columns []string
	Rows    [][]string
	Empty   string
}

// View is a rendered page, independent of the output medium.
type View struct {
	Page     Page
	Title    string
	Subtitle string
	Stats    []Stat
	Sections []Section
}

// Section returns the section with the given title.
func (v *View) Section(title string) (Section, bool) {
	for _, sec := range v.Sections {
		if sec.Title == title {
			return sec, true
		}
	}
	return Section{}, false
}

// Stat returns the value of the stat with the given label.
func (v *View) Stat(label string) (string, bool) {
	for _, st := range v.Stats {
		if st.Label == label {
			return st.Value, true
		}
	}
	return "", false
}

// Render writes v as aligned plain text.
func (v *View) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, v.Title)
	if v.Subtitle != "" {
		fmt.Fprintln(tw, v.Subtitle)
	}
	if len(v.Stats) > 0 {
		fmt.Fprintln(tw)
		for _, st := range v.Stats {
			fmt.Fprintf(tw, "%s:\t%s\n", st.Label, st.Value)
		}
	}
	for _, sec := range v.Sections {
		fmt.Fprintln(tw)
		if sec.Title != "" {
			fmt.Fprintf(tw, "== %s ==\n", sec.Title)
		}
		if len(sec.Rows) == 0 {
			fmt.Fprintln(tw, sec.Empty)
			continue
		}
		if len(sec.Columns) > 0 {
			fmt.Fprintln(tw, strings.Join(sec.Columns, "\t"))
		}
		for _, row := range sec.Rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
	}
	return tw.Flush()
}
