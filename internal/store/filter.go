package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// FilterOp is a comparison the table browser can apply to a column.
type FilterOp string

const (
	OpContains   FilterOp = "Contains"
	OpEquals     FilterOp = "Equals"
	OpStartsWith FilterOp = "Starts with"
	OpEndsWith   FilterOp = "Ends with"
)

// FilterOps lists the operators in menu order.
var FilterOps = []FilterOp{OpContains, OpEquals, OpStartsWith, OpEndsWith}

// Filter narrows browsed rows to those where Column matches Value
// under Op. Column "*" means any column (quick search).
type Filter struct {
	Column string
	Op     FilterOp
	Value  string
}

// Tables lists the user tables of the database in name order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Columns lists the column names of table in declaration order.
func (s *Store) Columns(ctx context.Context, table string) ([]string, error) {
	if err := s.checkTable(ctx, table); err != nil {
		return nil, err
	}
	// PRAGMA arguments cannot be bound; the name was just validated
	// against sqlite_master.
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("scan column info: %w", err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// BrowseRows returns the column headers and up to limit rows of table,
// every value rendered as text, optionally narrowed by filter. A nil
// filter or an empty filter value returns the unfiltered table.
func (s *Store) BrowseRows(ctx context.Context, table string, filter *Filter, limit int) ([]string, [][]string, error) {
	cols, err := s.Columns(ctx, table)
	if err != nil {
		return nil, nil, err
	}
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("table %s has no columns", table)
	}
	if limit <= 0 {
		limit = 500
	}

	selects := make([]string, len(cols))
	for i, c := range cols {
		selects[i] = fmt.Sprintf(`COALESCE(CAST(%q AS TEXT), '')`, c)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `SELECT %s FROM %q`, strings.Join(selects, ", "), table)

	var args []any
	if filter != nil && filter.Value != "" {
		clause, clauseArgs, err := filter.where(cols)
		if err != nil {
			return nil, nil, err
		}
		b.WriteString(` WHERE `)
		b.WriteString(clause)
		args = append(args, clauseArgs...)
	}
	b.WriteString(` ORDER BY 1 LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, nil, fmt.Errorf("browse %s: %w", table, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		values := make([]string, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, values)
	}
	return cols, out, rows.Err()
}

// where renders the filter as a SQL predicate over the given columns.
func (f *Filter) where(cols []string) (string, []any, error) {
	targets := cols
	if f.Column != "*" {
		found := false
		for _, c := range cols {
			if c == f.Column {
				found = true
				break
			}
		}
		if !found {
			return "", nil, fmt.Errorf("unknown filter column %q", f.Column)
		}
		targets = []string{f.Column}
	}

	var (
		parts []string
		args  []any
	)
	for _, c := range targets {
		expr := fmt.Sprintf(`CAST(%q AS TEXT)`, c)
		switch f.Op {
		case OpEquals:
			parts = append(parts, expr+` = ?`)
			args = append(args, f.Value)
		case OpStartsWith:
			parts = append(parts, expr+` LIKE ? ESCAPE '\'`)
			args = append(args, escapeLike(f.Value)+"%")
		case OpEndsWith:
			parts = append(parts, expr+` LIKE ? ESCAPE '\'`)
			args = append(args, "%"+escapeLike(f.Value))
		case OpContains, "":
			parts = append(parts, expr+` LIKE ? ESCAPE '\'`)
			args = append(args, "%"+escapeLike(f.Value)+"%")
		default:
			return "", nil, fmt.Errorf("unknown filter operator %q", f.Op)
		}
	}
	return "(" + strings.Join(parts, " OR ") + ")", args, nil
}

func (s *Store) checkTable(ctx context.Context, table string) error {
	tables, err := s.Tables(ctx)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("unknown table %q", table)
}

// escapeLike neutralizes LIKE wildcards so filter values match
// literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
