package template

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Vijendrasi/container-service-extension/config"
	"github.com/Vijendrasi/container-service-extension/util"
	"github.com/Vijendrasi/container-service-extension/vcd"
)

type fakeClient struct {
	items    map[string]bool
	names    []string
	shared   bool
	uploads  []string
	captures []vcd.CaptureSpec
}

func (f *fakeClient) CatalogItemExists(orgName, catalogName, itemName string) (bool, error) {
	return f.items[itemName], nil
}

func (f *fakeClient) CreateAndShareCatalog(orgName, catalogName, description string) error {
	f.shared = true
	return nil
}

func (f *fakeClient) UploadOVA(orgName, catalogName, itemName, description, filePath string, update bool) error {
	f.uploads = append(f.uploads, itemName)
	return nil
}

func (f *fakeClient) CaptureTemplate(spec vcd.CaptureSpec) error {
	f.captures = append(f.captures, spec)
	return nil
}

func (f *fakeClient) CatalogItemNames(orgName, catalogName string) ([]string, error) {
	return f.names, nil
}

// installConfig stages the OVA in the cache so Install skips the download
func installConfig(t *testing.T, cacheDir string) *config.Config {
	path := filepath.Join(cacheDir, "photon.ova")
	if err := os.WriteFile(path, []byte("ova-payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	digest, err := util.GetSHA256(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{}
	cfg.Broker.Org = "Admin"
	cfg.Broker.VDC = "Gold"
	cfg.Broker.Catalog = "cse"
	cfg.Broker.Network = "admin_network"
	cfg.Broker.StorageProfile = "*"
	cfg.Broker.Templates = []*config.Template{{
		Name:            "photon-v2",
		CatalogItem:     "photon-k8s",
		SourceOVAName:   "photon.ova",
		SourceOVAHref:   "http://127.0.0.1:1/absent.ova",
		SHA256OVA:       digest,
		TempVApp:        "photon2-temp",
		CPU:             2,
		Mem:             2048,
		AdminPassword:   "secret",
		CleanupOnCreate: true,
	}}
	return cfg
}

func TestInstallUploadsSourceAndCaptures(t *testing.T) {
	cacheDir := t.TempDir()
	cfg := installConfig(t, cacheDir)
	client := &fakeClient{items: map[string]bool{}}

	installer := NewInstaller(cfg, client, cacheDir)
	assert.NoError(t, installer.Install(cfg.Broker.Templates[0], false))

	assert.True(t, client.shared)
	assert.Equal(t, []string{"photon.ova"}, client.uploads)
	if assert.Len(t, client.captures, 1) {
		spec := client.captures[0]
		assert.Equal(t, "photon.ova", spec.SourceItem)
		assert.Equal(t, "photon-k8s", spec.TargetItem)
		assert.Equal(t, "photon2-temp", spec.VAppName)
		assert.Equal(t, 2, spec.CPU)
		assert.Equal(t, 2048, spec.Mem)
		assert.True(t, spec.Cleanup)
	}
}

func TestInstallSkipCapture(t *testing.T) {
	cacheDir := t.TempDir()
	cfg := installConfig(t, cacheDir)
	client := &fakeClient{items: map[string]bool{}}

	installer := NewInstaller(cfg, client, cacheDir)
	installer.SkipCapture = true
	assert.NoError(t, installer.Install(cfg.Broker.Templates[0], false))

	assert.Equal(t, []string{"photon-k8s"}, client.uploads)
	assert.Empty(t, client.captures)
}

func TestInstallSkipsPresentItem(t *testing.T) {
	cacheDir := t.TempDir()
	cfg := installConfig(t, cacheDir)
	client := &fakeClient{items: map[string]bool{"photon-k8s": true}}

	installer := NewInstaller(cfg, client, cacheDir)
	assert.NoError(t, installer.Install(cfg.Broker.Templates[0], false))

	assert.Empty(t, client.uploads)
	assert.Empty(t, client.captures)
}

func TestInstallChecksumMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ova-payload"))
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	cfg := installConfig(t, cacheDir)
	tmpl := cfg.Broker.Templates[0]
	tmpl.SourceOVAHref = server.URL
	tmpl.SHA256OVA = "0000000000000000000000000000000000000000000000000000000000000000"
	client := &fakeClient{items: map[string]bool{}}

	installer := NewInstaller(cfg, client, cacheDir)
	err := installer.Install(tmpl, false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sha256 mismatch")
	assert.Empty(t, client.uploads)
}

func TestInstallAllWithoutTemplates(t *testing.T) {
	cfg := &config.Config{}
	installer := NewInstaller(cfg, &fakeClient{}, t.TempDir())
	assert.Error(t, installer.InstallAll(false))
}

func TestMissing(t *testing.T) {
	cacheDir := t.TempDir()
	cfg := installConfig(t, cacheDir)
	client := &fakeClient{names: []string{"other-item"}}

	installer := NewInstaller(cfg, client, cacheDir)
	missing, err := installer.Missing()
	assert.NoError(t, err)
	assert.Equal(t, []string{"photon-k8s"}, missing)
}
