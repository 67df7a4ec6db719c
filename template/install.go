package template

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/Vijendrasi/container-service-extension/config"
	"github.com/Vijendrasi/container-service-extension/util"
	"github.com/Vijendrasi/container-service-extension/vcd"
)

// Client is the subset of vCD operations the installer drives
type Client interface {
	CatalogItemExists(orgName, catalogName, itemName string) (bool, error)
	CreateAndShareCatalog(orgName, catalogName, description string) error
	UploadOVA(orgName, catalogName, itemName, description, filePath string, update bool) error
	CaptureTemplate(spec vcd.CaptureSpec) error
	CatalogItemNames(orgName, catalogName string) ([]string, error)
}

// Installer installs the configured template OVAs into the vCD catalog
type Installer struct {
	cfg      *config.Config
	client   Client
	cacheDir string

	// SkipCapture uploads the OVA as the final catalog item instead of
	// capturing it from a temp vApp.
	SkipCapture bool
}

// NewInstaller creates an Installer downloading OVAs into cacheDir
func NewInstaller(cfg *config.Config, client Client, cacheDir string) *Installer {
	return &Installer{cfg: cfg, client: client, cacheDir: cacheDir}
}

// InstallAll installs every configured template. Failures are accumulated so
// one broken template does not abort the rest.
func (i *Installer) InstallAll(update bool) error {
	if len(i.cfg.Broker.Templates) == 0 {
		return fmt.Errorf("no templates configured in broker section")
	}

	var errs config.ErrList
	for _, t := range i.cfg.Broker.Templates {
		errs.Add(i.Install(t, update))
	}
	return errs.Err()
}

// Install downloads, verifies and uploads a single template OVA. Without
// update, an already present catalog item short-circuits the work.
func (i *Installer) Install(t *config.Template, update bool) error {
	broker := &i.cfg.Broker

	if !update {
		exists, err := i.client.CatalogItemExists(broker.Org, broker.Catalog, t.CatalogItem)
		if err == nil && exists {
			log.WithFields(log.Fields{
				"template": t.Name,
				"item":     t.CatalogItem,
			}).Info("catalog item already present, skipping install")
			return nil
		}
	}

	if err := i.client.CreateAndShareCatalog(broker.Org, broker.Catalog, "CSE templates"); err != nil {
		return fmt.Errorf("template %q: %w", t.Name, err)
	}

	path := filepath.Join(i.cacheDir, t.SourceOVAName)
	log.WithFields(log.Fields{"template": t.Name, "source": t.SourceOVAHref}).Info("fetching source ova")
	if err := util.DownloadFile(t.SourceOVAHref, path, t.SHA256OVA); err != nil {
		return fmt.Errorf("template %q: download: %w", t.Name, err)
	}

	digest, err := util.GetSHA256(path)
	if err != nil {
		return fmt.Errorf("template %q: %w", t.Name, err)
	}
	if digest != t.SHA256OVA {
		return fmt.Errorf("template %q: sha256 mismatch: got %s want %s", t.Name, digest, t.SHA256OVA)
	}

	if i.SkipCapture {
		if err := i.client.UploadOVA(broker.Org, broker.Catalog, t.CatalogItem, t.Description, path, update); err != nil {
			return fmt.Errorf("template %q: %w", t.Name, err)
		}
		log.WithFields(log.Fields{"template": t.Name, "item": t.CatalogItem}).Info("template installed without capture")
		return nil
	}

	if err := i.client.UploadOVA(broker.Org, broker.Catalog, t.SourceOVAName, "source OVA for "+t.Name, path, update); err != nil {
		return fmt.Errorf("template %q: %w", t.Name, err)
	}

	spec := vcd.CaptureSpec{
		Org:            broker.Org,
		VDC:            broker.VDC,
		Catalog:        broker.Catalog,
		SourceItem:     t.SourceOVAName,
		TargetItem:     t.CatalogItem,
		VAppName:       t.TempVApp,
		Network:        broker.Network,
		StorageProfile: broker.StorageProfile,
		Description:    t.Description,
		AdminPassword:  t.AdminPassword,
		CPU:            t.CPU,
		Mem:            t.Mem,
		Cleanup:        t.CleanupOnCreate || broker.CleanupOnCreate,
	}
	if err := i.client.CaptureTemplate(spec); err != nil {
		return fmt.Errorf("template %q: %w", t.Name, err)
	}

	log.WithFields(log.Fields{
		"template": t.Name,
		"item":     t.CatalogItem,
	}).Info("template installed")
	return nil
}

// Missing returns the configured catalog items absent from the catalog
func (i *Installer) Missing() ([]string, error) {
	present, err := i.client.CatalogItemNames(i.cfg.Broker.Org, i.cfg.Broker.Catalog)
	if err != nil {
		return nil, err
	}
	configured := make([]string, 0)
	for _, t := range i.cfg.Broker.Templates {
		configured = append(configured, t.CatalogItem)
	}
	return util.Sub(configured, present), nil
}
