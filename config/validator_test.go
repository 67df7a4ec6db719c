package config

import (
	"strings"
	"testing"
)

func validConfig(t *testing.T) *Config {
	cfg, err := Parse(sampleBytes(t))
	if err != nil {
		t.Fatal(err)
	}
	// the sample ships with placeholder credentials
	cfg.VCD.Password = "secret"
	for _, vc := range cfg.VCS {
		vc.Password = "secret"
	}
	for _, tmpl := range cfg.Broker.Templates {
		tmpl.AdminPassword = "secret"
	}
	return cfg
}

func TestValidateSampleAfterFillingPlaceholders(t *testing.T) {
	if err := Validate(validConfig(t)); err != nil {
		t.Error("Expected a valid configuration, got:", err)
	}
}

func TestValidateRejectsPlaceholders(t *testing.T) {
	cfg, err := Parse(sampleBytes(t))
	if err != nil {
		t.Fatal(err)
	}
	err = Validate(cfg)
	if err == nil {
		t.Fatal("Expected placeholder values to be rejected")
	}
	if !strings.Contains(err.Error(), Placeholder) {
		t.Error("Error should mention the placeholder:", err)
	}
}

func TestValidateMissingKeys(t *testing.T) {
	cfg := validConfig(t)
	cfg.AMQP.Host = ""
	cfg.VCD.APIVersion = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected missing keys to be rejected")
	}
	msg := err.Error()
	if !strings.Contains(msg, "missing key 'host' in amqp") {
		t.Error("Missing amqp host not reported:", msg)
	}
	if !strings.Contains(msg, "missing key 'api_version' in vcd") {
		t.Error("Missing vcd api_version not reported:", msg)
	}
}

func TestValidateIPAllocationMode(t *testing.T) {
	cfg := validConfig(t)
	cfg.Broker.IPAllocationMode = "static"
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "ip_allocation_mode") {
		t.Error("Expected ip_allocation_mode to be rejected:", err)
	}

	for _, mode := range []string{"dhcp", "pool"} {
		cfg.Broker.IPAllocationMode = mode
		if err := Validate(cfg); err != nil {
			t.Errorf("Mode %q should be accepted: %v", mode, err)
		}
	}
}

func TestValidateListeners(t *testing.T) {
	cfg := validConfig(t)
	cfg.Service.Listeners = 0
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "listeners") {
		t.Error("Expected zero listeners to be rejected:", err)
	}
}

func TestValidatePortRange(t *testing.T) {
	cfg := validConfig(t)
	cfg.AMQP.Port = 0
	cfg.VCD.Port = 70000
	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected out of range ports to be rejected")
	}
	if len(err.(*ErrList).Errors()) != 2 {
		t.Error("Expected both port errors to be accumulated:", err)
	}
}

func TestValidateTemplateChecksum(t *testing.T) {
	cfg := validConfig(t)
	cfg.Broker.Templates[0].SHA256OVA = "not-a-digest"
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "sha256_ova") {
		t.Error("Expected malformed sha256 to be rejected:", err)
	}
}

func TestValidateTemplateSize(t *testing.T) {
	cfg := validConfig(t)
	cfg.Broker.Templates[0].SizeBytes = -1
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "size") {
		t.Error("Expected a negative size to be rejected:", err)
	}
}

func TestValidateDuplicateTemplates(t *testing.T) {
	cfg := validConfig(t)
	cfg.Broker.Templates[1].Name = cfg.Broker.Templates[0].Name
	cfg.Broker.DefaultTemplate = cfg.Broker.Templates[0].Name
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "duplicate template name") {
		t.Error("Expected duplicate template names to be rejected:", err)
	}
}

func TestValidateDefaultTemplate(t *testing.T) {
	cfg := validConfig(t)
	cfg.Broker.DefaultTemplate = "no-such-template"
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "default_template") {
		t.Error("Expected unknown default_template to be rejected:", err)
	}
}

func TestValidateRecheckCron(t *testing.T) {
	cfg := validConfig(t)
	cfg.Broker.TemplateRecheck = "@hourly"
	if err := Validate(cfg); err != nil {
		t.Error("Expected @hourly to be accepted:", err)
	}

	cfg.Broker.TemplateRecheck = "every tuesday"
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "template_recheck_cron") {
		t.Error("Expected invalid cron expression to be rejected:", err)
	}
}

func TestValidateEmptyTemplatesAllowed(t *testing.T) {
	cfg := validConfig(t)
	cfg.Broker.Templates = nil
	cfg.Broker.DefaultTemplate = ""
	if err := Validate(cfg); err != nil {
		t.Error("An empty template list should validate:", err)
	}
}
