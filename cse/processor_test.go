package cse

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Vijendrasi/container-service-extension/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Broker.DefaultTemplate = "photon-v2"
	cfg.Broker.Templates = []*config.Template{
		{Name: "photon-v2", CatalogItem: "photon-k8s", CPU: 2, Mem: 2048},
		{Name: "ubuntu-16.04", CatalogItem: "ubuntu-k8s", CPU: 2, Mem: 2048},
	}
	return cfg
}

func decodeResponse(t *testing.T, raw []byte) Response {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestSystemInfo(t *testing.T) {
	p := NewProcessor(testConfig(), "1.0.0")
	raw := p.Handle(context.Background(), []byte(`{"id":"r1","operation":"system/info"}`))
	resp := decodeResponse(t, raw)

	assert.Equal(t, "r1", resp.ID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var info SystemInfo
	assert.NoError(t, json.Unmarshal(resp.Body, &info))
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, 2, info.Templates)
}

func TestTemplateList(t *testing.T) {
	p := NewProcessor(testConfig(), "1.0.0")
	raw := p.Handle(context.Background(), []byte(`{"id":"r2","operation":"template/list"}`))
	resp := decodeResponse(t, raw)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var infos []TemplateInfo
	assert.NoError(t, json.Unmarshal(resp.Body, &infos))
	assert.Len(t, infos, 2)
	assert.True(t, infos[0].IsDefault)
	assert.False(t, infos[1].IsDefault)
}

func TestUnsupportedOperation(t *testing.T) {
	p := NewProcessor(testConfig(), "1.0.0")
	raw := p.Handle(context.Background(), []byte(`{"id":"r3","operation":"cluster/create"}`))
	resp := decodeResponse(t, raw)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)

	var body ErrorBody
	assert.NoError(t, json.Unmarshal(resp.Body, &body))
	assert.Equal(t, "unsupported operation", body.Message.Reason)
	assert.Contains(t, body.Message.Description, "cluster/create")
}

func TestUndecodableEnvelope(t *testing.T) {
	p := NewProcessor(testConfig(), "1.0.0")
	resp := decodeResponse(t, p.Handle(context.Background(), []byte("not json")))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestErrorToJSONReason(t *testing.T) {
	body := errorToJSON(&OperationError{Operation: "x"})
	assert.Equal(t, "unsupported operation", body.Message.Reason)
	assert.NotEmpty(t, body.Message.Stacktrace)
}
