package vcd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/vmware/go-vcloud-director/v2/govcd"
	"github.com/vmware/go-vcloud-director/v2/types/v56"
)

// CaptureSpec describes how a temporary vApp is built from an uploaded
// source item and captured as the final catalog item.
type CaptureSpec struct {
	Org            string
	VDC            string
	Catalog        string
	SourceItem     string
	TargetItem     string
	VAppName       string
	Network        string
	StorageProfile string
	Description    string
	AdminPassword  string
	CPU            int
	Mem            int
	Cleanup        bool
}

// CaptureTemplate composes the temporary vApp from the source catalog item,
// applies the compute and guest settings and captures it as the target
// catalog item. With Cleanup set the temporary vApp is removed afterwards,
// otherwise it is kept for inspection.
func (c *Client) CaptureTemplate(spec CaptureSpec) error {
	org, err := c.GetOrg(spec.Org)
	if err != nil {
		return err
	}
	vdc, err := org.GetVDCByName(spec.VDC, false)
	if err != nil {
		return fmt.Errorf("get vdc %q: %w", spec.VDC, err)
	}
	catalog, err := org.GetCatalogByName(spec.Catalog, true)
	if err != nil {
		return fmt.Errorf("get catalog %q: %w", spec.Catalog, err)
	}
	item, err := catalog.GetCatalogItemByName(spec.SourceItem, true)
	if err != nil {
		return fmt.Errorf("get source item %q: %w", spec.SourceItem, err)
	}
	sourceTemplate, err := item.GetVAppTemplate()
	if err != nil {
		return fmt.Errorf("get vapp template of %q: %w", spec.SourceItem, err)
	}

	networks := make([]*types.OrgVDCNetwork, 0)
	if spec.Network != "" {
		network, err := vdc.GetOrgVdcNetworkByName(spec.Network, false)
		if err != nil {
			return fmt.Errorf("get network %q: %w", spec.Network, err)
		}
		networks = append(networks, network.OrgVDCNetwork)
	}

	var storageRef types.Reference
	if spec.StorageProfile != "" && spec.StorageProfile != "*" {
		storageRef, err = vdc.FindStorageProfileReference(spec.StorageProfile)
		if err != nil {
			return fmt.Errorf("get storage profile %q: %w", spec.StorageProfile, err)
		}
	}

	log.WithFields(log.Fields{
		"vapp":   spec.VAppName,
		"source": spec.SourceItem,
	}).Info("composing temp vapp")
	task, err := vdc.ComposeVApp(networks, sourceTemplate, storageRef, spec.VAppName, spec.Description, true)
	if err != nil {
		return fmt.Errorf("compose vapp %q: %w", spec.VAppName, err)
	}
	if err := task.WaitTaskCompletion(); err != nil {
		return fmt.Errorf("wait for vapp %q: %w", spec.VAppName, err)
	}

	vapp, err := vdc.GetVAppByName(spec.VAppName, true)
	if err != nil {
		return fmt.Errorf("get vapp %q: %w", spec.VAppName, err)
	}
	if err := c.customizeVApp(vapp, spec); err != nil {
		return err
	}

	// a stale target item from an aborted run blocks the capture
	existing, err := catalog.GetCatalogItemByName(spec.TargetItem, true)
	if err != nil && !govcd.ContainsNotFound(err) {
		return err
	}
	if existing != nil {
		if err := existing.Delete(); err != nil {
			return fmt.Errorf("delete catalog item %q: %w", spec.TargetItem, err)
		}
	}

	log.WithFields(log.Fields{
		"vapp": spec.VAppName,
		"item": spec.TargetItem,
	}).Info("capturing vapp as catalog item")
	params := &types.CaptureVAppParams{
		Name:        spec.TargetItem,
		Description: spec.Description,
		Source:      &types.Reference{HREF: vapp.VApp.HREF},
		CustomizationSection: types.CaptureVAppParamsCustomizationSection{
			Info:                   "CustomizeOnInstantiate Settings",
			CustomizeOnInstantiate: true,
		},
	}
	if _, err := catalog.CaptureVappTemplate(params); err != nil {
		return fmt.Errorf("capture vapp %q as %q: %w", spec.VAppName, spec.TargetItem, err)
	}

	if spec.Cleanup {
		log.WithFields(log.Fields{"vapp": spec.VAppName}).Info("removing temp vapp")
		task, err := vapp.Delete()
		if err != nil {
			return fmt.Errorf("delete vapp %q: %w", spec.VAppName, err)
		}
		if err := task.WaitTaskCompletion(); err != nil {
			return fmt.Errorf("wait for vapp %q removal: %w", spec.VAppName, err)
		}
	}
	return nil
}

// customizeVApp applies cpu, memory and the guest admin password to the
// first vm of the temp vApp.
func (c *Client) customizeVApp(vapp *govcd.VApp, spec CaptureSpec) error {
	if vapp.VApp.Children == nil || len(vapp.VApp.Children.VM) == 0 {
		return fmt.Errorf("temp vapp %q has no vm", spec.VAppName)
	}
	vm, err := vapp.GetVMByName(vapp.VApp.Children.VM[0].Name, true)
	if err != nil {
		return fmt.Errorf("get vm of vapp %q: %w", spec.VAppName, err)
	}

	if spec.CPU > 0 {
		if err := vm.ChangeCPU(spec.CPU, 1); err != nil {
			return fmt.Errorf("set cpu of vapp %q: %w", spec.VAppName, err)
		}
	}
	if spec.Mem > 0 {
		if err := vm.ChangeMemory(int64(spec.Mem)); err != nil {
			return fmt.Errorf("set memory of vapp %q: %w", spec.VAppName, err)
		}
	}
	if spec.AdminPassword != "" {
		enabled := true
		auto := false
		_, err := vm.SetGuestCustomizationSection(&types.GuestCustomizationSection{
			Enabled:              &enabled,
			AdminPasswordEnabled: &enabled,
			AdminPasswordAuto:    &auto,
			AdminPassword:        spec.AdminPassword,
			ComputerName:         spec.VAppName,
		})
		if err != nil {
			return fmt.Errorf("set guest customization of vapp %q: %w", spec.VAppName, err)
		}
	}
	return nil
}
