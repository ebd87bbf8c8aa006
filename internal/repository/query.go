package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns free text into a substring ILIKE pattern with the
// wildcard characters escaped.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// listQuery accumulates a filtered SELECT and its COUNT twin
type listQuery struct {
	where strings.Builder
	args  []interface{}
}

// search adds a case-insensitive substring match over columns. An empty or
// blank term matches everything.
func (q *listQuery) search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}
	q.args = append(q.args, likePattern(term))
	pos := len(q.args)

	conds := make([]string, len(columns))
	for i, col := range columns {
		conds[i] = fmt.Sprintf("%s ILIKE $%d", col, pos)
	}
	q.where.WriteString(" AND (" + strings.Join(conds, " OR ") + ")")
}

// page appends ORDER BY, LIMIT and OFFSET to base and returns the full query
func (q *listQuery) page(base, orderBy string, filters ListFilters) (string, []interface{}) {
	limit, offset := filters.limitOffset()
	n := len(q.args)

	var b strings.Builder
	b.WriteString(base)
	b.WriteString(" WHERE 1=1")
	b.WriteString(q.where.String())
	b.WriteString(" ORDER BY " + orderBy)
	b.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2))

	args := append(append([]interface{}{}, q.args...), limit, offset)
	return b.String(), args
}

// count returns the COUNT(*) query over the same filter
func (q *listQuery) count(from string) (string, []interface{}) {
	return "SELECT COUNT(*) " + from + " WHERE 1=1" + q.where.String(), q.args
}

func countRows(ctx context.Context, db DB, query string, args ...interface{}) (int, error) {
	var total int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// cascadeRule names a dependent table removed along with its parent row
type cascadeRule struct {
	table  string
	column string
}

// deleteCascade removes the dependents listed in rules and then the parent row,
// all inside one transaction.
func deleteCascade(ctx context.Context, db *sql.DB, resource, table string, id int, rules []cascadeRule) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, rule := range rules {
		query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", rule.table, rule.column)
		if _, err := tx.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("failed to delete %s of %s: %w", rule.table, resource, err)
		}
	}

	result, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", resource, err)
	}
	if err := expectAffected(result, resource); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
