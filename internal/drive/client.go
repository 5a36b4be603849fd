package drive

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// metadataFields is the single field set requested from Files.Get. One
// metadata read happens per invocation.
const metadataFields = "id, name, mimeType, size"

// Operation names used in telemetry.
const (
	opMetadata = "metadata"
	opExport   = "export"
	opDownload = "download"
)

// API is the narrow Drive surface the conversion pipeline depends on.
// The concrete Google binding implements it; tests substitute a fake.
type API interface {
	// GetMetadata fetches the file's metadata.
	GetMetadata(ctx context.Context, fileID string) (*FileMetadata, error)

	// Export requests a server-side conversion of a Google-native document
	// into the given MIME type and returns the response body.
	Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error)

	// Download requests the file's raw media bytes.
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// Client implements API against the Drive v3 REST API using a
// per-invocation credential.
type Client struct {
	service  *drive.Service
	observer Observer
}

var _ API = (*Client)(nil)

// NewClient creates a Drive client scoped to one invocation. The credential
// is wrapped in a static token source; no refresh happens here because the
// upstream proxy owns the token lifecycle.
func NewClient(ctx context.Context, cred Credential) (*Client, error) {
	return NewClientWithObserver(ctx, cred, nil)
}

// NewClientWithObserver creates a Client that reports each API call to the
// given observer.
func NewClientWithObserver(ctx context.Context, cred Credential, observer Observer) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cred.Token()})

	service, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{service: service, observer: observer}, nil
}

// GetMetadata fetches the declared content type, display name and size of a
// file. Transient upstream failures are retried once.
func (c *Client) GetMetadata(ctx context.Context, fileID string) (*FileMetadata, error) {
	var file *drive.File

	start := time.Now()
	err := withRetry(ctx, func() error {
		var err error
		file, err = c.service.Files.Get(fileID).
			Context(ctx).
			Fields(metadataFields).
			Do()
		return err
	}, c.observeRetry(ctx, opMetadata))
	c.observeOperation(ctx, opMetadata, start, err)

	if err != nil {
		return nil, mapAPIError("metadata fetch", fileID, err)
	}

	return &FileMetadata{
		ID:       file.Id,
		Name:     file.Name,
		MimeType: file.MimeType,
		Size:     file.Size,
	}, nil
}

// Export requests a native export of a Google document at the given format.
func (c *Client) Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	var body io.ReadCloser

	start := time.Now()
	err := withRetry(ctx, func() error {
		resp, err := c.service.Files.Export(fileID, mimeType).
			Context(ctx).
			Download()
		if err != nil {
			return err
		}
		body = resp.Body
		return nil
	}, c.observeRetry(ctx, opExport))
	c.observeOperation(ctx, opExport, start, err)

	if err != nil {
		return nil, mapAPIError("export", fileID, err)
	}

	return body, nil
}

// Download requests the raw media bytes of a binary or plain file.
func (c *Client) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	var body io.ReadCloser

	start := time.Now()
	err := withRetry(ctx, func() error {
		resp, err := c.service.Files.Get(fileID).
			Context(ctx).
			Download()
		if err != nil {
			return err
		}
		body = resp.Body
		return nil
	}, c.observeRetry(ctx, opDownload))
	c.observeOperation(ctx, opDownload, start, err)

	if err != nil {
		return nil, mapAPIError("download", fileID, err)
	}

	return body, nil
}
