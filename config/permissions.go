//go:build !windows
// +build !windows

package config

import (
	"fmt"
	"os"
)

// CheckPermissions ensures the configuration file is only readable and
// writable by its owner. The file carries credentials, so execute bits and
// any group or other access are rejected.
func CheckPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()

	var e ErrList
	if mode&0o100 != 0 {
		e.Add(fmt.Errorf("remove execute permission of the owner for the file %s", path))
	}
	if mode&0o070 != 0 {
		e.Add(fmt.Errorf("remove read, write and execute permissions of group for the file %s", path))
	}
	if mode&0o007 != 0 {
		e.Add(fmt.Errorf("remove read, write and execute permissions of others for the file %s", path))
	}
	return e.Err()
}
