// Package httpapi serves the content interface to other local processes.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"task-manager/internal/content"
	"task-manager/internal/errors"
	"task-manager/internal/logging"
)

// Handler adapts HTTP requests to content.Provider calls.
type Handler struct {
	provider *content.Provider
	logger   *zap.Logger
	timeout  time.Duration
}

// NewHandler creates a handler. A non-positive timeout disables the per-request deadline.
func NewHandler(provider *content.Provider, timeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		provider: provider,
		logger:   logging.OrNop(logger).Named("http"),
		timeout:  timeout,
	}
}

func (h *Handler) requestContext() (context.Context, context.CancelFunc) {
	if h.timeout > 0 {
		return context.WithTimeout(context.Background(), h.timeout)
	}
	return context.WithCancel(context.Background())
}

func (h *Handler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h *Handler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, NewSuccess(data))
}

func (h *Handler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError || errors.ShouldLogError(err) {
		h.logger.Error("request failed",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err))
	}
	h.respondJSON(ctx, status, NewError(errors.GetErrorCode(err), errors.GetUserMessage(err)))
}

func statusFor(err error) int {
	switch {
	case errors.IsErrorType(err, errors.ErrorTypeValidation),
		errors.IsErrorType(err, errors.ErrorTypeInvalidInput):
		return http.StatusBadRequest
	case errors.IsErrorType(err, errors.ErrorTypeUnknownResource),
		errors.IsErrorType(err, errors.ErrorTypeNotFound):
		return http.StatusNotFound
	case errors.IsErrorType(err, errors.ErrorTypeTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) taskURI(ctx *fasthttp.RequestCtx) string {
	if id, ok := ctx.UserValue("id").(string); ok && id != "" {
		return h.provider.TasksURI() + "/" + id
	}
	return h.provider.TasksURI()
}

// Query handles GET /tasks and GET /tasks/{id}.
func (h *Handler) Query(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	opts := content.QueryOptions{
		Selection: string(args.Peek("selection")),
		SortOrder: string(args.Peek("sortOrder")),
	}
	if projection := string(args.Peek("projection")); projection != "" {
		opts.Projection = strings.Split(projection, ",")
	}
	for _, arg := range args.PeekMulti("selectionArgs") {
		opts.SelectionArgs = append(opts.SelectionArgs, string(arg))
	}

	stdCtx, cancel := h.requestContext()
	defer cancel()

	rs, err := h.provider.Query(stdCtx, h.taskURI(ctx), opts)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, rs)
}

// Insert handles POST /tasks with a JSON field map body.
func (h *Handler) Insert(ctx *fasthttp.RequestCtx) {
	values, ok := h.parseValues(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext()
	defer cancel()

	uri, err := h.provider.Insert(stdCtx, h.provider.TasksURI(), values)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.Response.Header.Set("Location", uri)
	h.respondSuccess(ctx, http.StatusCreated, map[string]string{"uri": uri})
}

// Update handles PUT /tasks/{id}.
func (h *Handler) Update(ctx *fasthttp.RequestCtx) {
	values, ok := h.parseValues(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext()
	defer cancel()

	rows, err := h.provider.Update(stdCtx, h.taskURI(ctx), values, nil)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int{"rowsAffected": rows})
}

// Delete handles DELETE /tasks/{id}.
func (h *Handler) Delete(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext()
	defer cancel()

	rows, err := h.provider.Delete(stdCtx, h.taskURI(ctx), nil)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int{"rowsAffected": rows})
}

// GetType handles GET /type/{resource}; resource is tasks or tasks/{id}.
func (h *Handler) GetType(ctx *fasthttp.RequestCtx) {
	resource, _ := ctx.UserValue("resource").(string)
	uri := content.Scheme + h.provider.Authority() + "/" + strings.TrimPrefix(resource, "/")

	typ, err := h.provider.GetType(uri)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"uri": uri, "type": typ})
}

// Health handles GET /health.
func (h *Handler) Health(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"authority": h.provider.Authority(),
	})
}

func (h *Handler) parseValues(ctx *fasthttp.RequestCtx) (content.TaskValues, bool) {
	var fields map[string]interface{}
	if body := ctx.PostBody(); len(body) > 0 {
		if err := json.Unmarshal(body, &fields); err != nil {
			h.respondError(ctx, errors.NewInvalidInputError("body", "", "must be a JSON object"))
			return content.TaskValues{}, false
		}
	}
	values, err := content.ParseTaskValues(fields)
	if err != nil {
		h.respondError(ctx, err)
		return content.TaskValues{}, false
	}
	return values, true
}
