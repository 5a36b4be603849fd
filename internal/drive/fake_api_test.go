package drive

import (
	"context"
	"io"
	"strings"

	"github.com/teemow/drive2md/internal/fault"
)

// fakeAPI is an in-memory API used by the retriever and pipeline tests.
// It counts calls so tests can assert that no network operation happens
// for inputs that must fail locally.
type fakeAPI struct {
	meta *FileMetadata

	// exportBody maps a MIME type to the body returned for it. Formats not
	// in the map are rejected with a 400, mirroring the export endpoint.
	exportBody map[string]string

	downloadBody string

	metadataErr error
	exportErr   error
	downloadErr error

	metadataCalls int
	exportCalls   int
	downloadCalls int
}

var _ API = (*fakeAPI)(nil)

func (f *fakeAPI) GetMetadata(_ context.Context, fileID string) (*FileMetadata, error) {
	f.metadataCalls++
	if f.metadataErr != nil {
		return nil, f.metadataErr
	}
	if f.meta == nil {
		return nil, fault.New(fault.ReferenceNotFound, "file %s not found", fileID)
	}
	return f.meta, nil
}

func (f *fakeAPI) Export(_ context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	f.exportCalls++
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	body, ok := f.exportBody[mimeType]
	if !ok {
		return nil, fault.Upstream(400, "export of file %s as %s failed", fileID, mimeType)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (f *fakeAPI) Download(context.Context, string) (io.ReadCloser, error) {
	f.downloadCalls++
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return io.NopCloser(strings.NewReader(f.downloadBody)), nil
}
