package engine

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/getmockd/crudcontract/pkg/stub"
)

func TestServer_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	transport := &http.Transport{}
	defer transport.CloseIdleConnections()
	client := &http.Client{Transport: transport}

	srv := NewServer(nil)
	require.NoError(t, srv.Start(0))
	assert.True(t, srv.IsRunning())
	assert.NotZero(t, srv.Port())
	assert.True(t, strings.HasPrefix(srv.URL(), "http://127.0.0.1:"))

	_, err := srv.RegisterStub(&stub.Stub{
		Method:      stub.MethodGet,
		PathPattern: "/users",
		Response:    stub.Response{Status: 200, Body: "[]"},
	})
	require.NoError(t, err)

	resp, err := client.Get(srv.URL() + "/users")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "[]", string(body))

	resp, err = client.Get(srv.URL() + AdminPrefix + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	transport.CloseIdleConnections()
	require.NoError(t, srv.Stop())
	assert.False(t, srv.IsRunning())
	assert.Zero(t, srv.Port())
	assert.Empty(t, srv.URL())
	assert.Zero(t, srv.Uptime())
}

func TestServer_StartTwice(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv := NewServer(New())
	require.NoError(t, srv.Start(0))
	defer srv.Stop()

	err := srv.Start(0)
	assert.True(t, errors.Is(err, ErrServerRunning))
}

func TestServer_StopWhenStopped(t *testing.T) {
	srv := NewServer(nil)
	assert.NoError(t, srv.Stop())
}

func TestServer_ResetAll(t *testing.T) {
	e := newLifecycleEngine(t)
	srv := NewServer(e)
	srv.ResetAll()
	assert.Empty(t, srv.Engine().Stubs())
}
