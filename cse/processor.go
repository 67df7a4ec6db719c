package cse

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Vijendrasi/container-service-extension/config"
)

// Request the envelope delivered on the extension queue
type Request struct {
	ID        string          `json:"id"`
	Operation string          `json:"operation"`
	Body      json.RawMessage `json:"body,omitempty"`
}

// Response the envelope published back to the reply routing key
type Response struct {
	ID         string          `json:"id,omitempty"`
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body,omitempty"`
}

// ErrorMessage error detail shape carried in error replies
type ErrorMessage struct {
	Reason      string   `json:"reason"`
	Description string   `json:"description"`
	Stacktrace  []string `json:"stacktrace,omitempty"`
}

// ErrorBody the body of an error reply
type ErrorBody struct {
	Message ErrorMessage `json:"message"`
}

// errorToJSON converts an error into the reply error shape. The reason is
// the first comma separated segment of the error text.
func errorToJSON(err error) ErrorBody {
	if err == nil {
		return ErrorBody{}
	}
	text := err.Error()
	reason := text
	if idx := strings.Index(text, ","); idx >= 0 {
		reason = text[:idx]
	}
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return ErrorBody{Message: ErrorMessage{
		Reason:      reason,
		Description: text,
		Stacktrace:  strings.Split(string(buf[:n]), "\n"),
	}}
}

// TemplateInfo template description returned by the template/list operation
type TemplateInfo struct {
	Name        string `json:"name"`
	CatalogItem string `json:"catalog_item"`
	Description string `json:"description"`
	CPU         int    `json:"cpu"`
	Mem         int    `json:"mem"`
	IsDefault   bool   `json:"is_default"`
}

// SystemInfo reply of the system/info operation
type SystemInfo struct {
	Version     string `json:"version"`
	Description string `json:"description"`
	Templates   int    `json:"templates"`
}

// Processor decodes request envelopes and dispatches them on the operation
type Processor struct {
	cfg     *config.Config
	version string
}

// NewProcessor creates a Processor object
func NewProcessor(cfg *config.Config, version string) *Processor {
	return &Processor{cfg: cfg, version: version}
}

// Handle processes one raw delivery body and returns the encoded reply
func (p *Processor) Handle(ctx context.Context, body []byte) []byte {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		log.WithFields(log.Fields{log.ErrorKey: err}).Warn("undecodable request envelope")
		return p.errorReply("", http.StatusBadRequest, err)
	}

	log.WithFields(log.Fields{"id": req.ID, "operation": req.Operation}).Debug("processing request")

	switch req.Operation {
	case "system/info":
		return p.reply(req.ID, http.StatusOK, SystemInfo{
			Version:     p.version,
			Description: "Container Service Extension for vCloud Director",
			Templates:   len(p.cfg.Broker.Templates),
		})
	case "template/list":
		infos := make([]TemplateInfo, 0)
		for _, t := range p.cfg.Broker.Templates {
			infos = append(infos, TemplateInfo{
				Name:        t.Name,
				CatalogItem: t.CatalogItem,
				Description: t.Description,
				CPU:         t.CPU,
				Mem:         t.Mem,
				IsDefault:   t.Name == p.cfg.Broker.DefaultTemplate,
			})
		}
		return p.reply(req.ID, http.StatusOK, infos)
	default:
		return p.errorReply(req.ID, http.StatusNotImplemented, &OperationError{Operation: req.Operation})
	}
}

func (p *Processor) reply(id string, status int, body interface{}) []byte {
	raw, err := json.Marshal(body)
	if err != nil {
		return p.errorReply(id, http.StatusInternalServerError, err)
	}
	b, _ := json.Marshal(Response{ID: id, StatusCode: status, Body: raw})
	return b
}

func (p *Processor) errorReply(id string, status int, err error) []byte {
	raw, _ := json.Marshal(errorToJSON(err))
	b, _ := json.Marshal(Response{ID: id, StatusCode: status, Body: raw})
	return b
}
