// Package storage archives report PDFs to Azure Blob Storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/mwhitfield/bursar/pkg/lifecycle"
)

// System manages blob archival and its lifecycle registration.
type System interface {
	// Start registers a startup hook that ensures the container exists.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to the blob at key with the given content type.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download opens the blob at key; the caller closes the reader.
	// Missing blobs yield ErrNotFound.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob at key. Missing blobs yield ErrNotFound.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a blob is stored at key.
	Exists(ctx context.Context, key string) (bool, error)
}

type system struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// New builds the storage system from cfg. The connection string is parsed
// here; the account is not touched until Start runs.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &system{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage"),
	}, nil
}

func (s *system) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting storage system")

	lc.OnStartup(func() {
		_, err := s.client.CreateContainer(lc.Context(), s.container, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			s.logger.Error("storage container initialization failed", "error", err)
			return
		}
		s.logger.Info("storage container ready", "container", s.container)
	})

	return nil
}

func (s *system) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	}
	if _, err := s.client.UploadStream(ctx, s.container, key, reader, opts); err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}
	return nil
}

func (s *system) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, s.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}
	return resp.Body, nil
}

func (s *system) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if _, err := s.client.DeleteBlob(ctx, s.container, key, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

func (s *system) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	_, err := s.blobClient(key).GetProperties(ctx, nil)
	switch {
	case err == nil:
		return true, nil
	case bloberror.HasCode(err, bloberror.BlobNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("check blob existence %s: %w", key, err)
	}
}

// blobClient returns a client scoped to one blob in the archive container.
func (s *system) blobClient(key string) *blob.Client {
	return s.client.ServiceClient().NewContainerClient(s.container).NewBlobClient(key)
}

// validateKey rejects empty keys and path traversal.
func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
