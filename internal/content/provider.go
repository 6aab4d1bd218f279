// Package content exposes the task store to other processes through
// resource locators of the form content://<authority>/tasks.
package content

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"task-manager/internal/api"
	"task-manager/internal/errors"
	"task-manager/internal/events"
	"task-manager/internal/logging"
)

// Provider answers content requests against the Task Access Layer. Calls
// block until the store work is done and return its real result. Successful
// mutations publish a change notification for the affected locator.
type Provider struct {
	api       api.API
	authority string
	hub       *events.Hub
	logger    *zap.Logger
}

// NewProvider creates a provider for authority, or DefaultAuthority when empty.
// hub may be nil when nobody observes changes.
func NewProvider(taskAPI api.API, authority string, hub *events.Hub, logger *zap.Logger) *Provider {
	if authority == "" {
		authority = DefaultAuthority
	}
	return &Provider{
		api:       taskAPI,
		authority: authority,
		hub:       hub,
		logger:    logging.OrNop(logger).Named("content"),
	}
}

// Authority returns the authority this provider serves.
func (p *Provider) Authority() string {
	return p.authority
}

// Query returns the tasks under uri as a result set.
func (p *Provider) Query(ctx context.Context, uri string, opts QueryOptions) (*ResultSet, error) {
	loc, err := p.parse(uri)
	if err != nil {
		return nil, err
	}
	columns, err := resolveProjection(opts.Projection)
	if err != nil {
		return nil, err
	}

	tasks, err := p.api.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}
	if loc.hasID {
		filtered := tasks[:0:0]
		for _, t := range tasks {
			if t.ID == loc.id {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	if tasks, err = applySelection(tasks, opts.Selection, opts.SelectionArgs); err != nil {
		return nil, err
	}
	if tasks, err = applySortOrder(tasks, opts.SortOrder); err != nil {
		return nil, err
	}

	rs := &ResultSet{Columns: columns, Rows: make([][]interface{}, 0, len(tasks))}
	for _, t := range tasks {
		row := make([]interface{}, len(columns))
		for i, col := range columns {
			row[i] = columnValue(t, col)
		}
		rs.Rows = append(rs.Rows, row)
	}
	return rs, nil
}

// Insert stores a new task and returns its locator.
func (p *Provider) Insert(ctx context.Context, uri string, values TaskValues) (string, error) {
	loc, err := p.parse(uri)
	if err != nil {
		return "", err
	}
	if loc.hasID {
		return "", errors.NewInvalidInputError("uri", uri, "insert targets the task directory")
	}

	stored, err := p.api.Insert(ctx, values.Task(0))
	if err != nil {
		return "", err
	}
	created := p.TaskURI(stored.ID)
	p.notify(ctx, created)
	p.logger.Debug("task inserted", zap.String("uri", created))
	return created, nil
}

// Update replaces the task whose id is in uri or, for the directory locator,
// in selectionArgs[0]. It returns the number of rows replaced.
func (p *Provider) Update(ctx context.Context, uri string, values TaskValues, selectionArgs []string) (int, error) {
	id, err := p.targetID(uri, selectionArgs)
	if err != nil {
		return 0, err
	}

	if err := p.api.Update(ctx, values.Task(id)); err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return 0, nil
		}
		return 0, err
	}
	p.notify(ctx, p.TaskURI(id))
	return 1, nil
}

// Delete removes the task whose id is in uri or in selectionArgs[0]. It
// returns the number of rows removed.
func (p *Provider) Delete(ctx context.Context, uri string, selectionArgs []string) (int, error) {
	id, err := p.targetID(uri, selectionArgs)
	if err != nil {
		return 0, err
	}

	_, found, err := p.api.GetTaskByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := p.api.DeleteTask(ctx, id); err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	p.notify(ctx, p.TaskURI(id))
	return 1, nil
}

// GetType returns the MIME-like type of uri.
func (p *Provider) GetType(uri string) (string, error) {
	loc, err := p.parse(uri)
	if err != nil {
		return "", err
	}
	if loc.hasID {
		return p.ItemType(), nil
	}
	return p.DirType(), nil
}

func (p *Provider) targetID(uri string, selectionArgs []string) (int64, error) {
	loc, err := p.parse(uri)
	if err != nil {
		return 0, err
	}
	if loc.hasID {
		return loc.id, nil
	}
	if len(selectionArgs) == 0 {
		return 0, errors.NewInvalidInputError("selectionArgs", selectionArgs, "the first argument must be the task id")
	}
	id, err := strconv.ParseInt(selectionArgs[0], 10, 64)
	if err != nil {
		return 0, errors.NewInvalidInputError("selectionArgs", selectionArgs[0], "task id must be an integer")
	}
	return id, nil
}

func (p *Provider) notify(ctx context.Context, uri string) {
	if p.hub != nil {
		p.hub.Notify(ctx, uri)
	}
}
