package content

import (
	"sort"
	"strings"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

// QueryOptions narrows, projects and orders a query.
type QueryOptions struct {
	// Projection lists the columns to return; empty means all columns.
	Projection []string
	// Selection is empty or "isCompleted=?".
	Selection     string
	SelectionArgs []string
	// SortOrder is empty (storage order) or one of "_id", "name", "dueDate",
	// optionally followed by ASC or DESC.
	SortOrder string
}

// ResultSet is a tabular query result.
type ResultSet struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	return len(rs.Rows)
}

// Records returns each row as a column-to-value map.
func (rs *ResultSet) Records() []map[string]interface{} {
	records := make([]map[string]interface{}, len(rs.Rows))
	for i, row := range rs.Rows {
		rec := make(map[string]interface{}, len(rs.Columns))
		for j, col := range rs.Columns {
			rec[col] = row[j]
		}
		records[i] = rec
	}
	return records
}

func columnValue(t domain.Task, column string) interface{} {
	switch column {
	case ColumnID:
		return t.ID
	case ColumnName:
		return t.Name
	case ColumnDescription:
		return t.Description
	case ColumnDueDate:
		return t.DueDate
	case ColumnCategory:
		return t.Category
	case ColumnPriority:
		return t.Priority
	case ColumnIsCompleted:
		return t.IsCompleted
	}
	return nil
}

func resolveProjection(projection []string) ([]string, error) {
	if len(projection) == 0 {
		return Columns, nil
	}
	known := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		known[c] = true
	}
	for _, c := range projection {
		if !known[c] {
			return nil, errors.NewInvalidInputError("projection", c, "unknown column")
		}
	}
	return projection, nil
}

// applySelection filters tasks by the single supported selection clause.
func applySelection(tasks []domain.Task, selection string, args []string) ([]domain.Task, error) {
	clause := strings.ReplaceAll(selection, " ", "")
	if clause == "" {
		return tasks, nil
	}
	if clause != ColumnIsCompleted+"=?" {
		return nil, errors.NewInvalidInputError("selection", selection, "only isCompleted=? is supported")
	}
	if len(args) != 1 {
		return nil, errors.NewInvalidInputError("selectionArgs", args, "exactly one argument required")
	}

	var want bool
	switch strings.ToLower(args[0]) {
	case "1", "true":
		want = true
	case "0", "false":
		want = false
	default:
		return nil, errors.NewInvalidInputError("selectionArgs", args[0], "expected 0, 1, true or false")
	}

	active, completed := domain.Partition(tasks)
	if want {
		return completed, nil
	}
	return active, nil
}

func applySortOrder(tasks []domain.Task, sortOrder string) ([]domain.Task, error) {
	fields := strings.Fields(sortOrder)
	if len(fields) == 0 {
		return tasks, nil
	}
	if len(fields) > 2 {
		return nil, errors.NewInvalidInputError("sortOrder", sortOrder, "expected a column and optional direction")
	}

	desc := false
	if len(fields) == 2 {
		switch strings.ToUpper(fields[1]) {
		case "ASC":
		case "DESC":
			desc = true
		default:
			return nil, errors.NewInvalidInputError("sortOrder", sortOrder, "direction must be ASC or DESC")
		}
	}

	sorted := make([]domain.Task, len(tasks))
	copy(sorted, tasks)

	switch fields[0] {
	case ColumnID:
		sort.SliceStable(sorted, func(i, j int) bool {
			return less(sorted[i].ID < sorted[j].ID, sorted[j].ID < sorted[i].ID, desc)
		})
	case ColumnName:
		sort.SliceStable(sorted, func(i, j int) bool {
			return less(sorted[i].Name < sorted[j].Name, sorted[j].Name < sorted[i].Name, desc)
		})
	case ColumnDueDate:
		// Unparseable dates stay last in both directions.
		sort.SliceStable(sorted, func(i, j int) bool {
			di, okI := sorted[i].Due()
			dj, okJ := sorted[j].Due()
			switch {
			case okI && okJ:
				return less(di.Before(dj), dj.Before(di), desc)
			case okI:
				return true
			default:
				return false
			}
		})
	default:
		return nil, errors.NewInvalidInputError("sortOrder", sortOrder, "column must be _id, name or dueDate")
	}
	return sorted, nil
}

func less(asc, reverse, desc bool) bool {
	if desc {
		return reverse
	}
	return asc
}
