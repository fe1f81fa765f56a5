package tui

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/toyrobot/internal/controlplane"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := controlplane.NewServer(newTestService(t), nil, "127.0.0.1:0")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL)
}

func TestClient_ExecuteAndState(t *testing.T) {
	c := newTestClient(t)

	_, err := c.ExecuteText("PLACE_ROBOT 2,2,NORTH")
	require.NoError(t, err)
	_, err = c.ExecuteText("move")
	require.NoError(t, err)

	entry, err := c.ExecuteText("REPORT")
	require.NoError(t, err)
	assert.Equal(t, 3, entry.Seq)
	assert.Equal(t, "2,3,NORTH", entry.Result)

	st, err := c.State()
	require.NoError(t, err)
	require.NotNil(t, st.Robot)
	assert.Equal(t, "2,3,NORTH", st.Robot.Report())
	assert.Len(t, st.History, 3)
}

func TestClient_Rejected(t *testing.T) {
	c := newTestClient(t)

	_, err := c.ExecuteText("JUMP 1")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
}

func TestClient_ResetAndHealth(t *testing.T) {
	c := newTestClient(t)

	_, err := c.ExecuteText("PLACE_WALL 1,1")
	require.NoError(t, err)
	require.NoError(t, c.Reset())

	st, err := c.State()
	require.NoError(t, err)
	assert.Empty(t, st.History)

	h, err := c.Health()
	require.NoError(t, err)
	assert.True(t, h.OK)
	assert.Equal(t, "disabled", h.DB)

	_, err = c.Audit(10)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestClient_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.State()
	assert.Error(t, err)
}

func TestApp_RemoteSession(t *testing.T) {
	app := New(newTestClient(t), "remote")
	app.Update(app.Init()())

	press(app, runes("w"))
	deliver(t, app, press(app, keyEnter))
	assert.Len(t, app.state.History, 1)
	assert.Contains(t, app.View(), "remote")
}
