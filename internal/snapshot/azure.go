// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/pdiddy/pubmed-sync/pkg/types"
)

const contentTypeCSV = "text/csv"

// AzureStore keeps the snapshot as a single block blob. A block-blob
// upload commits atomically on the service side, which gives the
// old-or-new-never-truncated guarantee without client-side staging.
type AzureStore struct {
	client    *azblob.Client
	container string
	blob      string
}

// NewAzureStore builds a store from a connection string, container, and
// blob name.
func NewAzureStore(cfg types.StorageConfig) (*AzureStore, error) {
	if cfg.ConnectionString == "" {
		return nil, fmt.Errorf("azure storage requires a connection string")
	}
	if cfg.Container == "" || cfg.Blob == "" {
		return nil, fmt.Errorf("azure storage requires container and blob names")
	}

	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}

	return &AzureStore{
		client:    client,
		container: cfg.Container,
		blob:      cfg.Blob,
	}, nil
}

// Download fetches the snapshot blob. A missing blob or container means
// no snapshot yet.
func (s *AzureStore) Download(ctx context.Context) ([]byte, bool, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, s.blob, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("downloading blob %s/%s: %w", s.container, s.blob, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("reading blob %s/%s: %w", s.container, s.blob, err)
	}
	return data, true, nil
}

// Upload replaces the snapshot blob, creating the container on first use.
func (s *AzureStore) Upload(ctx context.Context, data []byte) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("creating container %s: %w", s.container, err)
	}

	contentType := contentTypeCSV
	_, err = s.client.UploadBuffer(ctx, s.container, s.blob, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return fmt.Errorf("uploading blob %s/%s: %w", s.container, s.blob, err)
	}
	return nil
}
