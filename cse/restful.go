package cse

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Restful serves the JSON status surface of a running service
type Restful struct {
	router  *mux.Router
	service *Service
}

// NewRestful returns object for Restful
func NewRestful(service *Service) *Restful {
	return &Restful{router: mux.NewRouter(), service: service}
}

// CreateHandler registers the status routes and returns the handler
func (r *Restful) CreateHandler() http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(NewServiceCollector(r.service))

	r.router.HandleFunc("/api/cse/status", r.GetStatus).Methods("GET")
	r.router.HandleFunc("/api/cse/templates", r.ListTemplates).Methods("GET")
	r.router.HandleFunc("/healthz", r.Healthz).Methods("GET")
	r.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
	return r.router
}

// GetStatus reports the service status as json
func (r *Restful) GetStatus(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(r.service.Status())
}

// ListTemplates reports the configured templates as json
func (r *Restful) ListTemplates(w http.ResponseWriter, req *http.Request) {
	infos := make([]TemplateInfo, 0)
	for _, t := range r.service.cfg.Broker.Templates {
		infos = append(infos, TemplateInfo{
			Name:        t.Name,
			CatalogItem: t.CatalogItem,
			Description: t.Description,
			CPU:         t.CPU,
			Mem:         t.Mem,
			IsDefault:   t.Name == r.service.cfg.Broker.DefaultTemplate,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(infos)
}

// Healthz liveness endpoint
func (r *Restful) Healthz(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
