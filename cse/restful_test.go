package cse

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testServer(t *testing.T) *httptest.Server {
	s := New(testConfig(), "1.0.0")
	server := httptest.NewServer(NewRestful(s).CreateHandler())
	t.Cleanup(server.Close)
	return server
}

func TestGetStatus(t *testing.T) {
	server := testServer(t)
	resp, err := http.Get(server.URL + "/api/cse/status")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var info StatusInfo
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, 2, info.Templates)
}

func TestListTemplatesEndpoint(t *testing.T) {
	server := testServer(t)
	resp, err := http.Get(server.URL + "/api/cse/templates")
	assert.NoError(t, err)
	defer resp.Body.Close()

	var infos []TemplateInfo
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	assert.Len(t, infos, 2)
	assert.Equal(t, "photon-v2", infos[0].Name)
}

func TestHealthz(t *testing.T) {
	server := testServer(t)
	resp, err := http.Get(server.URL + "/healthz")
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	server := testServer(t)
	resp, err := http.Get(server.URL + "/metrics")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestShutdownIdempotent(t *testing.T) {
	s := New(testConfig(), "1.0.0")
	s.Shutdown()
	s.Shutdown()
}
