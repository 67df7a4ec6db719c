package vcd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/vmware/go-vcloud-director/v2/govcd"
	"github.com/vmware/go-vcloud-director/v2/types/v56"
)

// uploadPieceSize chunk size in bytes for OVA uploads
const uploadPieceSize = 1024 * 1024

// CatalogExists returns true if the named catalog exists in the org
func (c *Client) CatalogExists(orgName, catalogName string) (bool, error) {
	org, err := c.GetOrg(orgName)
	if err != nil {
		return false, err
	}
	_, err = org.GetCatalogByName(catalogName, false)
	if govcd.ContainsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CatalogItemExists returns true if the named item exists in the catalog
func (c *Client) CatalogItemExists(orgName, catalogName, itemName string) (bool, error) {
	org, err := c.GetOrg(orgName)
	if err != nil {
		return false, err
	}
	catalog, err := org.GetCatalogByName(catalogName, false)
	if err != nil {
		return false, fmt.Errorf("get catalog %q: %w", catalogName, err)
	}
	_, err = catalog.GetCatalogItemByName(itemName, false)
	if govcd.ContainsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateAndShareCatalog creates the catalog when absent and shares it read
// only with every organization.
func (c *Client) CreateAndShareCatalog(orgName, catalogName, description string) error {
	exists, err := c.CatalogExists(orgName, catalogName)
	if err != nil {
		return err
	}

	admin, err := c.GetAdminOrg(orgName)
	if err != nil {
		return err
	}

	if exists {
		log.WithFields(log.Fields{"catalog": catalogName}).Info("found catalog")
	} else {
		log.WithFields(log.Fields{"catalog": catalogName}).Info("creating catalog")
		if _, err := admin.CreateCatalog(catalogName, description); err != nil {
			return fmt.Errorf("create catalog %q: %w", catalogName, err)
		}
	}

	adminCatalog, err := admin.GetAdminCatalogByName(catalogName, true)
	if err != nil {
		return fmt.Errorf("get admin catalog %q: %w", catalogName, err)
	}
	readOnly := types.ControlAccessReadOnly
	err = adminCatalog.SetAccessControl(&types.ControlAccessParams{
		IsSharedToEveryone:  true,
		EveryoneAccessLevel: &readOnly,
	}, false)
	if err != nil {
		return fmt.Errorf("share catalog %q: %w", catalogName, err)
	}
	return nil
}

// UploadOVA uploads the local OVA file as a catalog item and waits for the
// upload task to resolve. With update set, an existing item is removed
// first; without it, an existing item short-circuits the upload.
func (c *Client) UploadOVA(orgName, catalogName, itemName, description, filePath string, update bool) error {
	org, err := c.GetOrg(orgName)
	if err != nil {
		return err
	}
	catalog, err := org.GetCatalogByName(catalogName, true)
	if err != nil {
		return fmt.Errorf("get catalog %q: %w", catalogName, err)
	}

	item, err := catalog.GetCatalogItemByName(itemName, true)
	if err != nil && !govcd.ContainsNotFound(err) {
		return err
	}
	if item != nil {
		if !update {
			log.WithFields(log.Fields{"item": itemName, "catalog": catalogName}).Info("catalog item already exists")
			return nil
		}
		log.WithFields(log.Fields{"item": itemName, "catalog": catalogName}).Info("update flag set, removing catalog item")
		if err := item.Delete(); err != nil {
			return fmt.Errorf("delete catalog item %q: %w", itemName, err)
		}
	}

	log.WithFields(log.Fields{"item": itemName, "catalog": catalogName}).Info("uploading ova to catalog")
	task, err := catalog.UploadOvf(filePath, itemName, description, uploadPieceSize)
	if err != nil {
		return fmt.Errorf("upload %q to catalog %q: %w", itemName, catalogName, err)
	}
	if err := task.WaitTaskCompletion(); err != nil {
		return fmt.Errorf("wait for upload of %q: %w", itemName, err)
	}
	log.WithFields(log.Fields{"item": itemName, "catalog": catalogName}).Info("uploaded ova to catalog")
	return nil
}

// CatalogItemNames lists the item names present in the catalog
func (c *Client) CatalogItemNames(orgName, catalogName string) ([]string, error) {
	org, err := c.GetOrg(orgName)
	if err != nil {
		return nil, err
	}
	catalog, err := org.GetCatalogByName(catalogName, true)
	if err != nil {
		return nil, fmt.Errorf("get catalog %q: %w", catalogName, err)
	}

	result := make([]string, 0)
	if catalog.Catalog.CatalogItems == nil {
		return result, nil
	}
	for _, items := range catalog.Catalog.CatalogItems {
		for _, item := range items.CatalogItem {
			result = append(result, item.Name)
		}
	}
	return result, nil
}
