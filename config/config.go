package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// SystemOrg the administrative organization used for vCD system logins
const SystemOrg = "System"

// AMQP message broker connection parameters
type AMQP struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Prefix       string `yaml:"prefix"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Exchange     string `yaml:"exchange"`
	RoutingKey   string `yaml:"routing_key"`
	Vhost        string `yaml:"vhost"`
	SSL          bool   `yaml:"ssl"`
	SSLAcceptAll bool   `yaml:"ssl_accept_all"`
}

// VCD vCloud Director endpoint parameters
type VCD struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	APIVersion string `yaml:"api_version"`
	Verify     bool   `yaml:"verify"`
	Log        bool   `yaml:"log"`
}

// VCS credentials of a single vCenter server, looked up by name
type VCS struct {
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Verify   bool   `yaml:"verify"`
}

// Service runtime parameters of the extension itself
type Service struct {
	Listeners  int    `yaml:"listeners"`
	ListenAddr string `yaml:"listen_addr,omitempty"`
}

// Template describes one OVA-based VM image the broker installs
type Template struct {
	Name            string `yaml:"name"`
	CatalogItem     string `yaml:"catalog_item"`
	SourceOVAName   string `yaml:"source_ova_name"`
	SourceOVAHref   string `yaml:"source_ova"`
	SHA256OVA       string `yaml:"sha256_ova"`
	SizeBytes       int64  `yaml:"size,omitempty"`
	TempVApp        string `yaml:"temp_vapp"`
	CPU             int    `yaml:"cpu"`
	Mem             int    `yaml:"mem"`
	AdminPassword   string `yaml:"admin_password"`
	Description     string `yaml:"description"`
	CleanupOnCreate bool   `yaml:"cleanup"`
}

// Broker installation and template parameters
type Broker struct {
	Type             string      `yaml:"type"`
	Org              string      `yaml:"org"`
	VDC              string      `yaml:"vdc"`
	Catalog          string      `yaml:"catalog"`
	Network          string      `yaml:"network"`
	IPAllocationMode string      `yaml:"ip_allocation_mode"`
	StorageProfile   string      `yaml:"storage_profile"`
	SSHKeyFilepath   string      `yaml:"ssh_key_filepath,omitempty"`
	DefaultTemplate  string      `yaml:"default_template"`
	CleanupOnCreate  bool        `yaml:"cleanup"`
	TemplateRecheck  string      `yaml:"template_recheck_cron,omitempty"`
	Templates        []*Template `yaml:"templates"`
}

// Config memory representation of the CSE configuration file
type Config struct {
	AMQP    AMQP    `yaml:"amqp"`
	VCD     VCD     `yaml:"vcd"`
	VCS     []*VCS  `yaml:"vcs"`
	Service Service `yaml:"service"`
	Broker  Broker  `yaml:"broker"`
}

// GetTemplate returns the template configuration by name or nil
func (c *Config) GetTemplate(name string) *Template {
	for _, t := range c.Broker.Templates {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// TemplateNames returns slice with the names of all configured templates
func (c *Config) TemplateNames() []string {
	result := make([]string, 0)
	for _, t := range c.Broker.Templates {
		result = append(result, t.Name)
	}
	return result
}

// GetVCS returns the vCenter credential record by name or nil
func (c *Config) GetVCS(name string) *VCS {
	for _, v := range c.VCS {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Load reads the configuration file, decodes it and applies environment
// overrides. The returned Config is not validated; call Validate for that.
func Load(configFile string) (*Config, error) {
	log.WithFields(log.Fields{"file": configFile}).Info("load configuration from file")
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a configuration document from raw bytes
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
