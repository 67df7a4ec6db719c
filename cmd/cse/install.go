package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Vijendrasi/container-service-extension/template"
	"github.com/Vijendrasi/container-service-extension/vcd"
)

// InstallCommand installs the configured template OVAs into the vCD catalog
type InstallCommand struct {
	Template  string `short:"t" long:"template" description:"install only the named template"`
	Update    bool   `long:"update" description:"overwrite catalog items that already exist"`
	NoCapture bool   `long:"no-capture" description:"upload the OVA as the catalog item without capturing a temp vApp"`
	CacheDir  string `long:"cache-dir" description:"directory for downloaded OVA files"`
}

var installCommand InstallCommand

func (x *InstallCommand) cacheDir() string {
	if x.CacheDir != "" {
		return x.CacheDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "cse-cache"
	}
	return filepath.Join(home, ".cse-cache")
}

// Execute runs the template installation
func (x *InstallCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := vcd.NewClient(&cfg.VCD, cfg.VCS)
	if err := client.Connect(); err != nil {
		return err
	}
	defer client.Disconnect()

	installer := template.NewInstaller(cfg, client, x.cacheDir())
	installer.SkipCapture = x.NoCapture

	if x.Template != "" {
		t := cfg.GetTemplate(x.Template)
		if t == nil {
			return fmt.Errorf("no template named %q in configuration", x.Template)
		}
		return installer.Install(t, x.Update)
	}
	return installer.InstallAll(x.Update)
}

func init() {
	parser.AddCommand("install",
		"install the configured templates",
		"The install subcommand downloads the template OVAs, verifies their checksums and uploads them to the vcd catalog",
		&installCommand)
}
