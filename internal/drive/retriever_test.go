package drive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/drive2md/internal/fault"
)

func TestRetrieveNativeExport(t *testing.T) {
	api := &fakeAPI{
		exportBody: map[string]string{MimeTypeMarkdown: "# Title\n\nBody"},
	}
	r := NewRetriever(api, 1<<20, time.Minute)
	meta := &FileMetadata{ID: "1AbCxyz", MimeType: MimeTypeDocument}

	content, err := r.Retrieve(context.Background(), meta, PlanExport(meta.MimeType))
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody", string(content.Data))
	assert.Equal(t, MimeTypeMarkdown, content.MimeType)
	assert.Equal(t, 1, api.exportCalls)
	assert.Equal(t, 0, api.downloadCalls)
}

// When the export endpoint rejects the Markdown format, the retriever falls
// back to the plan's HTML format.
func TestRetrieveExportFallback(t *testing.T) {
	api := &fakeAPI{
		exportBody: map[string]string{MimeTypeHTML: "<h1>Hi</h1>"},
	}
	r := NewRetriever(api, 1<<20, time.Minute)
	meta := &FileMetadata{ID: "1AbCxyz", MimeType: MimeTypeDocument}

	content, err := r.Retrieve(context.Background(), meta, PlanExport(meta.MimeType))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi</h1>", string(content.Data))
	assert.Equal(t, MimeTypeHTML, content.MimeType)
	assert.Equal(t, 2, api.exportCalls)
}

func TestRetrieveDirectDownload(t *testing.T) {
	api := &fakeAPI{downloadBody: "plain content"}
	r := NewRetriever(api, 1<<20, time.Minute)
	meta := &FileMetadata{ID: "2ZZtop", MimeType: MimeTypePlainText, Size: 13}

	content, err := r.Retrieve(context.Background(), meta, PlanExport(meta.MimeType))
	require.NoError(t, err)
	assert.Equal(t, "plain content", string(content.Data))
	assert.Equal(t, MimeTypePlainText, content.MimeType)
	assert.Equal(t, 1, api.downloadCalls)
	assert.Equal(t, 0, api.exportCalls)
}

// Unsupported content fails immediately; no retrieval call is made.
func TestRetrieveUnsupported(t *testing.T) {
	api := &fakeAPI{}
	r := NewRetriever(api, 1<<20, time.Minute)
	meta := &FileMetadata{ID: "3PngFile", MimeType: "image/png"}

	content, err := r.Retrieve(context.Background(), meta, PlanExport(meta.MimeType))
	require.Error(t, err)
	assert.Nil(t, content)
	assert.Equal(t, fault.UnsupportedContentType, fault.KindOf(err))
	assert.Equal(t, 0, api.exportCalls)
	assert.Equal(t, 0, api.downloadCalls)
}

func TestRetrieveSizeLimit(t *testing.T) {
	t.Run("declared size over limit fails before any call", func(t *testing.T) {
		api := &fakeAPI{downloadBody: "irrelevant"}
		r := NewRetriever(api, 16, time.Minute)
		meta := &FileMetadata{ID: "4BigFile", MimeType: MimeTypePlainText, Size: 1 << 30}

		content, err := r.Retrieve(context.Background(), meta, PlanExport(meta.MimeType))
		require.Error(t, err)
		assert.Nil(t, content)
		assert.Equal(t, fault.SizeLimitExceeded, fault.KindOf(err))
		assert.Equal(t, 0, api.downloadCalls)
	})

	t.Run("stream over limit fails without partial content", func(t *testing.T) {
		// Google-native documents declare no size up front, so the limit
		// must also hold while reading the stream.
		api := &fakeAPI{
			exportBody: map[string]string{MimeTypeMarkdown: "this body is longer than the limit"},
		}
		r := NewRetriever(api, 16, time.Minute)
		meta := &FileMetadata{ID: "5Doc", MimeType: MimeTypeDocument}

		content, err := r.Retrieve(context.Background(), meta, PlanExport(meta.MimeType))
		require.Error(t, err)
		assert.Nil(t, content)
		assert.Equal(t, fault.SizeLimitExceeded, fault.KindOf(err))
	})
}

// Upstream failures pass through the retriever without being re-mapped.
func TestRetrievePropagatesAPIErrors(t *testing.T) {
	api := &fakeAPI{downloadErr: fault.New(fault.PermissionDenied, "forbidden")}
	r := NewRetriever(api, 1<<20, time.Minute)
	meta := &FileMetadata{ID: "6Locked", MimeType: MimeTypePlainText}

	_, err := r.Retrieve(context.Background(), meta, PlanExport(meta.MimeType))
	require.Error(t, err)
	assert.Equal(t, fault.PermissionDenied, fault.KindOf(err))
}
