package template

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Vijendrasi/container-service-extension/config"
)

func TestCheckSource(t *testing.T) {
	body := []byte("ova-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		if r.Method == http.MethodHead {
			return
		}
		w.Write(body)
	}))
	defer server.Close()

	r := NewRechecker(&config.Config{})

	tmpl := &config.Template{Name: "photon-v2", SourceOVAHref: server.URL}
	assert.NoError(t, r.checkSource(tmpl))

	tmpl.SizeBytes = int64(len(body))
	assert.NoError(t, r.checkSource(tmpl))

	tmpl.SizeBytes = 1
	assert.Error(t, r.checkSource(tmpl))
}

func TestCheckSourceNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	r := NewRechecker(&config.Config{})
	err := r.checkSource(&config.Template{SourceOVAHref: server.URL})
	assert.Error(t, err)
}

func TestStartWithoutSchedule(t *testing.T) {
	r := NewRechecker(&config.Config{})
	assert.NoError(t, r.Start())
	r.Stop()
}

func TestStartBadSchedule(t *testing.T) {
	cfg := &config.Config{}
	cfg.Broker.TemplateRecheck = "not a schedule"
	assert.Error(t, NewRechecker(cfg).Start())
}
