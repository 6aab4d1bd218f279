package cli

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func TestServeCommand_Execute(t *testing.T) {
	app, out := setupTestApp(t)
	ln := fasthttputil.NewInmemoryListener()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServeCommand(app).Execute(ctx, ln) }()

	client := &fasthttp.Client{
		Dial: func(string) (net.Conn, error) { return ln.Dial() },
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://td/tasks")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetBodyString(`{"name":"From HTTP","dueDate":"1/1/2030"}`)
	require.NoError(t, client.DoTimeout(req, resp, 5*time.Second))
	assert.Equal(t, http.StatusCreated, resp.StatusCode())

	// the content interface writes through the same store the task commands read
	require.NoError(t, app.rt.Controller.Load().Wait(context.Background()))
	require.Len(t, app.rt.Controller.Snapshot().All, 1)
	assert.Equal(t, "From HTTP", app.rt.Controller.Snapshot().All[0].Name)

	req.Reset()
	resp.Reset()
	req.SetRequestURI("http://td/health")
	require.NoError(t, client.DoTimeout(req, resp, 5*time.Second))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body(), &body))
	assert.Equal(t, "success", body["status"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("serve did not stop")
	}
	assert.Contains(t, out.String(), "Serving content://")
}
