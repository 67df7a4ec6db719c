package config

import (
	"fmt"
	"regexp"

	"github.com/robfig/cron/v3"
)

// Placeholder marks a value the operator must replace before the
// configuration can be used.
const Placeholder = "???"

var sha256Pattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

type validator struct {
	errors ErrList
}

func (v *validator) Err() error {
	return v.errors.Err()
}

// require records an error when the value is empty or still the placeholder
func (v *validator) require(location, key, value string) {
	if value == "" {
		v.errors.Add(fmt.Errorf("missing key '%s' in %s", key, location))
	} else if value == Placeholder {
		v.errors.Add(fmt.Errorf("%s key '%s': replace the '%s' placeholder", location, key, Placeholder))
	}
}

func (v *validator) port(location, key string, value int) {
	if value < 1 || value > 65535 {
		v.errors.Add(fmt.Errorf("%s key '%s': port %d out of range", location, key, value))
	}
}

func (v *validator) visitAMQP(a *AMQP) {
	v.require("amqp", "host", a.Host)
	v.require("amqp", "username", a.Username)
	v.require("amqp", "password", a.Password)
	v.require("amqp", "exchange", a.Exchange)
	v.require("amqp", "routing_key", a.RoutingKey)
	v.require("amqp", "vhost", a.Vhost)
	v.port("amqp", "port", a.Port)
}

func (v *validator) visitVCD(c *VCD) {
	v.require("vcd", "host", c.Host)
	v.require("vcd", "username", c.Username)
	v.require("vcd", "password", c.Password)
	v.require("vcd", "api_version", c.APIVersion)
	v.port("vcd", "port", c.Port)
}

func (v *validator) visitVCS(all []*VCS) {
	for i, vc := range all {
		location := fmt.Sprintf("vcs[%d]", i)
		v.require(location, "name", vc.Name)
		v.require(location, "username", vc.Username)
		v.require(location, "password", vc.Password)
	}
}

func (v *validator) visitService(s *Service) {
	if s.Listeners < 1 {
		v.errors.Add(fmt.Errorf("service key 'listeners': must be at least 1, got %d", s.Listeners))
	}
}

func (v *validator) visitTemplate(t *Template, seen map[string]bool) {
	if t.Name == "" {
		v.errors.Add(fmt.Errorf("missing template name"))
		// won't process anymore, as we have no name
		return
	}
	location := fmt.Sprintf("template %q", t.Name)
	if seen[t.Name] {
		v.errors.Add(fmt.Errorf("duplicate template name %q", t.Name))
	}
	seen[t.Name] = true

	v.require(location, "catalog_item", t.CatalogItem)
	v.require(location, "source_ova_name", t.SourceOVAName)
	v.require(location, "source_ova", t.SourceOVAHref)
	v.require(location, "temp_vapp", t.TempVApp)
	v.require(location, "admin_password", t.AdminPassword)
	if t.SHA256OVA == "" || !sha256Pattern.MatchString(t.SHA256OVA) {
		v.errors.Add(fmt.Errorf("%s key 'sha256_ova': not a sha256 hex digest", location))
	}
	if t.CPU < 1 {
		v.errors.Add(fmt.Errorf("%s key 'cpu': must be at least 1", location))
	}
	if t.Mem < 1 {
		v.errors.Add(fmt.Errorf("%s key 'mem': must be at least 1 MB", location))
	}
	if t.SizeBytes < 0 {
		v.errors.Add(fmt.Errorf("%s key 'size': must not be negative", location))
	}
}

func (v *validator) visitBroker(b *Broker) {
	v.require("broker", "type", b.Type)
	v.require("broker", "org", b.Org)
	v.require("broker", "vdc", b.VDC)
	v.require("broker", "catalog", b.Catalog)
	v.require("broker", "network", b.Network)
	v.require("broker", "storage_profile", b.StorageProfile)

	switch b.IPAllocationMode {
	case "dhcp", "pool":
	default:
		v.errors.Add(fmt.Errorf("broker key 'ip_allocation_mode': must be 'dhcp' or 'pool', got %q", b.IPAllocationMode))
	}

	if b.TemplateRecheck != "" {
		p := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := p.Parse(b.TemplateRecheck); err != nil {
			v.errors.Add(fmt.Errorf("error parsing broker key 'template_recheck_cron' %q: %w", b.TemplateRecheck, err))
		}
	}

	seen := make(map[string]bool)
	for _, t := range b.Templates {
		v.visitTemplate(t, seen)
	}

	if b.DefaultTemplate != "" && !seen[b.DefaultTemplate] {
		v.errors.Add(fmt.Errorf("broker key 'default_template': no template named %q", b.DefaultTemplate))
	}
}

// Validate checks the loaded configuration for missing keys, placeholder
// values and out-of-range settings. All problems are reported together.
func Validate(c *Config) error {
	var v validator
	v.visitAMQP(&c.AMQP)
	v.visitVCD(&c.VCD)
	v.visitVCS(c.VCS)
	v.visitService(&c.Service)
	v.visitBroker(&c.Broker)
	return v.Err()
}
