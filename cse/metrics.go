package cse

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cse"

type serviceCollector struct {
	consumersDesc *prometheus.Desc
	processedDesc *prometheus.Desc
	errorsDesc    *prometheus.Desc
	inFlightDesc  *prometheus.Desc
	service       *Service
}

// NewServiceCollector returns new Collector exposing extension statistics.
func NewServiceCollector(service *Service) prometheus.Collector {
	subsystem := "service"

	return &serviceCollector{
		consumersDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "consumers_alive"),
			"Consumers currently bound to the extension queue",
			nil,
			nil,
		),
		processedDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "messages_processed_total"),
			"Messages processed since start",
			nil,
			nil,
		),
		errorsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "processing_errors_total"),
			"Message processing errors since start",
			nil,
			nil,
		),
		inFlightDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "deliveries_in_flight"),
			"Deliveries currently being processed",
			nil,
			nil,
		),
		service: service,
	}
}

// Describe generates prometheus metric description
func (c *serviceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.consumersDesc
	ch <- c.processedDesc
	ch <- c.errorsDesc
	ch <- c.inFlightDesc
}

// Collect gathers the current counters from the service
func (c *serviceCollector) Collect(ch chan<- prometheus.Metric) {
	status := c.service.Status()
	ch <- prometheus.MustNewConstMetric(c.consumersDesc, prometheus.GaugeValue, float64(status.ConsumersAlive))
	ch <- prometheus.MustNewConstMetric(c.processedDesc, prometheus.CounterValue, float64(status.Processed))
	ch <- prometheus.MustNewConstMetric(c.errorsDesc, prometheus.CounterValue, float64(status.Errors))
	ch <- prometheus.MustNewConstMetric(c.inFlightDesc, prometheus.GaugeValue, float64(status.InFlight))
}
