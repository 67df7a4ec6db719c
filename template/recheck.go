package template

import (
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/Vijendrasi/container-service-extension/config"
)

// Rechecker periodically revalidates that the template OVA sources are
// still reachable and sized as configured. Schedule comes from the
// broker.template_recheck_cron setting.
type Rechecker struct {
	cfg  *config.Config
	cron *cron.Cron
	http *http.Client
}

// NewRechecker creates a Rechecker object
func NewRechecker(cfg *config.Config) *Rechecker {
	return &Rechecker{
		cfg:  cfg,
		cron: cron.New(),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// Start schedules the recheck job. Without a configured schedule this is a
// no-op.
func (r *Rechecker) Start() error {
	expr := r.cfg.Broker.TemplateRecheck
	if expr == "" {
		return nil
	}
	if _, err := r.cron.AddFunc(expr, r.RunOnce); err != nil {
		return fmt.Errorf("schedule template recheck %q: %w", expr, err)
	}
	r.cron.Start()
	log.WithFields(log.Fields{"schedule": expr}).Info("template source recheck scheduled")
	return nil
}

// Stop cancels the schedule
func (r *Rechecker) Stop() {
	r.cron.Stop()
}

// RunOnce checks every template source immediately
func (r *Rechecker) RunOnce() {
	for _, t := range r.cfg.Broker.Templates {
		if err := r.checkSource(t); err != nil {
			log.WithFields(log.Fields{
				log.ErrorKey: err,
				"template":   t.Name,
			}).Warn("template source check failed")
		}
	}
}

func (r *Rechecker) checkSource(t *config.Template) error {
	resp, err := r.http.Head(t.SourceOVAHref)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("source %s: unexpected status %s", t.SourceOVAHref, resp.Status)
	}
	if t.SizeBytes > 0 && resp.ContentLength > 0 && resp.ContentLength != t.SizeBytes {
		return fmt.Errorf("source %s: size changed: got %d want %d", t.SourceOVAHref, resp.ContentLength, t.SizeBytes)
	}
	return nil
}
