package sqlexec

type columns struct {
	names []string
	pos   map[string]int
}

func newColumns(names []string) *columns {
	pos := make(map[string]int, len(names))
	for i, name := range names {
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}
	return &columns{names: names, pos: pos}
}

// Row is one result row holding raw driver values. All rows of a result set
// share their column index.
type Row struct {
	cols   *columns
	values []any
}

// NewRow builds a row from parallel column names and values.
func NewRow(names []string, values []any) Row {
	return Row{cols: newColumns(names), values: values}
}

// Value returns the value of the named column. The second result is false
// when the row has no such column.
func (r Row) Value(column string) (any, bool) {
	if r.cols == nil {
		return nil, false
	}
	i, ok := r.cols.pos[column]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Columns returns the column names in result order.
func (r Row) Columns() []string {
	if r.cols == nil {
		return nil
	}
	return r.cols.names
}

// AllNull reports whether every column of the row is NULL.
func (r Row) AllNull() bool {
	for _, v := range r.values {
		if v != nil {
			return false
		}
	}
	return true
}
