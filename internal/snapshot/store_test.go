// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/pubmed-sync/pkg/types"
)

func TestFileStore_DownloadAbsent(t *testing.T) {
	s := &FileStore{Path: filepath.Join(t.TempDir(), "snapshot.csv")}

	_, ok, err := s.Download(context.Background())
	if err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	if ok {
		t.Fatal("Download() should report absent for a missing file")
	}
}

func TestFileStore_UploadDownloadRoundTrip(t *testing.T) {
	s := &FileStore{Path: filepath.Join(t.TempDir(), "data", "snapshot.csv")}
	payload := []byte("pmid,title\n1,a\n")

	if err := s.Upload(context.Background(), payload); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	data, ok, err := s.Download(context.Background())
	if err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	if !ok {
		t.Fatal("Download() should find the uploaded snapshot")
	}
	if string(data) != string(payload) {
		t.Errorf("Download() = %q, want %q", data, payload)
	}
}

func TestFileStore_UploadReplaces(t *testing.T) {
	s := &FileStore{Path: filepath.Join(t.TempDir(), "snapshot.csv")}

	if err := s.Upload(context.Background(), []byte("old content, longer than the replacement")); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if err := s.Upload(context.Background(), []byte("new")); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	data, _, err := s.Download(context.Background())
	if err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	if string(data) != "new" {
		t.Errorf("Download() = %q, want full replacement, not append", data)
	}
}

func TestFileStore_UploadLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := &FileStore{Path: filepath.Join(dir, "snapshot.csv")}

	if err := s.Upload(context.Background(), []byte("x")); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".snapshot-") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want just the snapshot", len(entries))
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.StorageConfig
		wantErr bool
	}{
		{"file backend", types.StorageConfig{Backend: types.BackendFile, Path: "x.csv"}, false},
		{"file backend without path", types.StorageConfig{Backend: types.BackendFile}, true},
		{"azure without connection string", types.StorageConfig{Backend: types.BackendAzure, Container: "c", Blob: "b"}, true},
		{"unknown backend", types.StorageConfig{Backend: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewStore() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
