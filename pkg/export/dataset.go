// Package export renders planning data into downloadable files.
package export

// Dataset defines tabular export content.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
	// GroupBy names a header whose value starts a new section when it
	// changes. Layout aware renderers (PDF) print it as a band instead of
	// a column; flat renderers ignore it.
	GroupBy string
}

// Renderer produces a file from a dataset.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

func (d Dataset) record(row map[string]string) []string {
	out := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		out[i] = row[header]
	}
	return out
}

// columns returns the headers printed as table columns.
func (d Dataset) columns() []string {
	if d.GroupBy == "" {
		return d.Headers
	}
	cols := make([]string, 0, len(d.Headers))
	for _, h := range d.Headers {
		if h != d.GroupBy {
			cols = append(cols, h)
		}
	}
	return cols
}
