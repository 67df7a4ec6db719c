package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// hashBufSize chunk size in bytes for file hashing
	hashBufSize = 64 * 1024

	// downloadChunkSize chunk size in bytes for file downloading
	downloadChunkSize = 1024 * 1024
)

// Sub returns a slice with the elements from arr1 that are absent from arr2.
func Sub(arr1, arr2 []string) []string {
	result := make([]string, 0)
	for _, s := range arr1 {
		exist := false
		for _, s2 := range arr2 {
			if s == s2 {
				exist = true
			}
		}
		if !exist {
			result = append(result, s)
		}
	}
	return result
}

// ElementsMatchString returns true if arr1 and arr2 have the same elements without regard for order.
func ElementsMatchString(arr1, arr2 []string) bool {
	if len(arr1) != len(arr2) {
		return false
	}
	for _, s := range arr1 {
		exist := false
		for _, s2 := range arr2 {
			if s2 == s {
				exist = true
				break
			}
		}
		if !exist {
			return false
		}
	}
	return true
}

// GetSHA256 computes the sha256 digest of the file at path and returns it as
// a lowercase hex string.
func GetSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashBufSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DownloadFile downloads url to path. If a file already exists at path and
// either sha256sum is empty or matches the file digest, the download is
// skipped. Parent directories of path are created as needed.
func DownloadFile(url, path, sha256sum string) error {
	if _, err := os.Stat(path); err == nil {
		if sha256sum == "" {
			return nil
		}
		if digest, err := GetSHA256(path); err == nil && digest == sha256sum {
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	client := &http.Client{Timeout: 30 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	buf := make([]byte, downloadChunkSize)
	if _, err := io.CopyBuffer(f, resp.Body, buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
