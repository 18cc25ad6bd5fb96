package postgres

import (
	"fmt"
	"strings"
)

// where accumulates AND-ed conditions with positional arguments.
type where struct {
	clauses []string
	args    []any
}

// eq adds "<column> = $n".
func (w *where) eq(column string, v any) {
	w.args = append(w.args, v)
	w.clauses = append(w.clauses, fmt.Sprintf("%s = $%d", column, len(w.args)))
}

func (w *where) raw(cond string) {
	w.clauses = append(w.clauses, cond)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}
