package content

import (
	"fmt"
	"strconv"
	"strings"

	"task-manager/internal/errors"
)

// Locator components.
const (
	Scheme           = "content://"
	DefaultAuthority = "task-manager.provider"
	TasksPath        = "tasks"
)

// locator is a parsed resource locator: the tasks directory, or one task in it.
type locator struct {
	id    int64
	hasID bool
}

func (p *Provider) parse(uri string) (locator, error) {
	prefix := p.TasksURI()
	if uri == prefix {
		return locator{}, nil
	}
	rest, ok := strings.CutPrefix(uri, prefix+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return locator{}, errors.NewUnknownResourceError(uri)
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return locator{}, errors.NewUnknownResourceError(uri)
	}
	return locator{id: id, hasID: true}, nil
}

// TasksURI is the locator of the task directory.
func (p *Provider) TasksURI() string {
	return Scheme + p.authority + "/" + TasksPath
}

// TaskURI is the locator of the task with id.
func (p *Provider) TaskURI(id int64) string {
	return fmt.Sprintf("%s/%d", p.TasksURI(), id)
}

// DirType is the MIME-like type of the task directory.
func (p *Provider) DirType() string {
	return "vnd.task-manager.cursor.dir/" + p.authority + "." + TasksPath
}

// ItemType is the MIME-like type of a single task.
func (p *Provider) ItemType() string {
	return "vnd.task-manager.cursor.item/" + p.authority + "." + TasksPath
}
