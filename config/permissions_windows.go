//go:build windows
// +build windows

package config

// CheckPermissions is a no-op on windows, posix permission bits do not apply.
func CheckPermissions(path string) error {
	return nil
}
