package util

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestSub(t *testing.T) {
	r := Sub([]string{"a", "b", "c"}, []string{"b"})
	if !ElementsMatchString(r, []string{"a", "c"}) {
		t.Error("Fail to subtract slices")
	}

	r = Sub([]string{"a"}, []string{"a"})
	if len(r) != 0 {
		t.Error("Fail to subtract equal slices")
	}
}

func TestElementsMatchString(t *testing.T) {
	if !ElementsMatchString([]string{"a", "b"}, []string{"b", "a"}) {
		t.Error("Fail to match equal slices")
	}
	if ElementsMatchString([]string{"a"}, []string{"a", "a"}) {
		t.Error("Unexpected match of different length slices")
	}
}

func TestGetSHA256(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(path, []byte("hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	digest, err := GetSHA256(path)
	if err != nil {
		t.Fatal(err)
	}
	// sha256 of "hello\n"
	if digest != "5891b5b522d5df086d0ff0b110fbd9d21bb4fc7163af34d08286a2e846f6be03" {
		t.Errorf("unexpected digest %s", digest)
	}
}

func TestDownloadFile(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, "ova-content")
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "cache", "photon.ova")
	if err := DownloadFile(server.URL, path, ""); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "ova-content" {
		t.Errorf("unexpected content %q", b)
	}

	// second download must be skipped, the file exists
	if err := DownloadFile(server.URL, path, ""); err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("expected a single hit, got %d", hits)
	}

	// mismatching digest forces a re-download
	if err := DownloadFile(server.URL, path, "0000000000000000000000000000000000000000000000000000000000000000"); err != nil {
		t.Fatal(err)
	}
	if hits != 2 {
		t.Errorf("expected re-download, got %d hits", hits)
	}
}
