package vcd

import (
	"fmt"
	"net/url"

	log "github.com/sirupsen/logrus"
	"github.com/vmware/go-vcloud-director/v2/govcd"
	"github.com/vmware/go-vcloud-director/v2/util"

	"github.com/Vijendrasi/container-service-extension/config"
)

// Client wraps an authenticated vCloud Director system session
type Client struct {
	cfg   *config.VCD
	vcd   *govcd.VCDClient
	vcs   []*config.VCS
	admin *govcd.AdminOrg
}

// NewClient creates a Client object. No session is made until Connect.
func NewClient(cfg *config.VCD, vcs []*config.VCS) *Client {
	return &Client{cfg: cfg, vcs: vcs}
}

// Connect logs in to the vCD endpoint as the system administrator
func (c *Client) Connect() error {
	endpoint := fmt.Sprintf("https://%s:%d/api", c.cfg.Host, c.cfg.Port)
	u, err := url.ParseRequestURI(endpoint)
	if err != nil {
		return fmt.Errorf("parse vcd endpoint %s: %w", endpoint, err)
	}

	util.EnableLogging = c.cfg.Log

	vcd := govcd.NewVCDClient(*u, !c.cfg.Verify, govcd.WithAPIVersion(c.cfg.APIVersion))
	if err := vcd.Authenticate(c.cfg.Username, c.cfg.Password, config.SystemOrg); err != nil {
		return fmt.Errorf("vcd login %s@%s: %w", c.cfg.Username, c.cfg.Host, err)
	}
	c.vcd = vcd
	log.WithFields(log.Fields{
		"host":        c.cfg.Host,
		"api_version": c.cfg.APIVersion,
	}).Info("logged in to vcd")
	return nil
}

// Disconnect ends the vCD session
func (c *Client) Disconnect() {
	if c.vcd != nil {
		_ = c.vcd.Disconnect()
		c.vcd = nil
		c.admin = nil
	}
}

// GetOrg returns the named organization
func (c *Client) GetOrg(name string) (*govcd.Org, error) {
	org, err := c.vcd.GetOrgByName(name)
	if err != nil {
		return nil, fmt.Errorf("get org %q: %w", name, err)
	}
	return org, nil
}

// GetAdminOrg returns the named organization with administrative rights
func (c *Client) GetAdminOrg(name string) (*govcd.AdminOrg, error) {
	if c.admin != nil && c.admin.AdminOrg.Name == name {
		return c.admin, nil
	}
	admin, err := c.vcd.GetAdminOrgByName(name)
	if err != nil {
		return nil, fmt.Errorf("get admin org %q: %w", name, err)
	}
	c.admin = admin
	return admin, nil
}

// GetVDC returns the named virtual data center inside an organization
func (c *Client) GetVDC(orgName, vdcName string) (*govcd.Vdc, error) {
	org, err := c.GetOrg(orgName)
	if err != nil {
		return nil, err
	}
	vdc, err := org.GetVDCByName(vdcName, false)
	if err != nil {
		return nil, fmt.Errorf("get vdc %q in org %q: %w", vdcName, orgName, err)
	}
	return vdc, nil
}

// VCenterCredentials returns the credential record configured for the named
// vCenter server.
func (c *Client) VCenterCredentials(name string) (*config.VCS, error) {
	for _, vc := range c.vcs {
		if vc.Name == name {
			return vc, nil
		}
	}
	return nil, fmt.Errorf("no vcs credentials configured for vcenter %q", name)
}
