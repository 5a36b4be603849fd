package drive

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/teemow/drive2md/internal/fault"
)

// Retriever executes an export plan against the Drive API under size and
// deadline bounds. The bounds are immutable configuration shared across
// invocations; everything else is call-scoped.
type Retriever struct {
	api      API
	maxBytes int64
	timeout  time.Duration
}

// NewRetriever creates a Retriever. maxBytes <= 0 disables the size bound;
// timeout <= 0 disables the per-retrieval deadline (the caller-facing
// deadline still applies through ctx).
func NewRetriever(api API, maxBytes int64, timeout time.Duration) *Retriever {
	return &Retriever{api: api, maxBytes: maxBytes, timeout: timeout}
}

// Retrieve fetches the file's content according to plan. Unsupported
// content fails immediately without a network call. A declared or streamed
// size beyond the configured limit fails closed with size_limit_exceeded;
// no partial content is ever returned.
func (r *Retriever) Retrieve(ctx context.Context, meta *FileMetadata, plan ExportPlan) (*Content, error) {
	if plan.Strategy == StrategyUnsupported {
		return nil, fault.New(fault.UnsupportedContentType, "cannot convert %q to Markdown", meta.MimeType)
	}

	if r.maxBytes > 0 && meta.Size > r.maxBytes {
		return nil, fault.New(fault.SizeLimitExceeded, "file %s declares %d bytes, limit is %d", meta.ID, meta.Size, r.maxBytes)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	body, mimeType, err := r.open(ctx, meta, plan)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := r.readBounded(ctx, meta.ID, body)
	if err != nil {
		return nil, err
	}

	return &Content{Data: data, MimeType: mimeType}, nil
}

// open starts the remote read for the planned strategy and returns the body
// along with the format it is delivered in.
func (r *Retriever) open(ctx context.Context, meta *FileMetadata, plan ExportPlan) (io.ReadCloser, string, error) {
	switch plan.Strategy {
	case StrategyNativeExport:
		body, err := r.api.Export(ctx, meta.ID, plan.TargetMime)
		if err == nil {
			return body, plan.TargetMime, nil
		}
		if plan.FallbackMime != "" && isFormatRejected(err) {
			body, fbErr := r.api.Export(ctx, meta.ID, plan.FallbackMime)
			if fbErr != nil {
				return nil, "", fbErr
			}
			return body, plan.FallbackMime, nil
		}
		return nil, "", err

	case StrategyDirectDownload:
		body, err := r.api.Download(ctx, meta.ID)
		if err != nil {
			return nil, "", err
		}
		return body, plan.TargetMime, nil

	default:
		return nil, "", fault.New(fault.Internal, "unknown retrieval strategy %q", plan.Strategy)
	}
}

// readBounded reads the body up to the configured size limit. Crossing the
// limit mid-stream discards everything read so far.
func (r *Retriever) readBounded(ctx context.Context, fileID string, body io.Reader) ([]byte, error) {
	reader := body
	if r.maxBytes > 0 {
		reader = io.LimitReader(body, r.maxBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, fault.New(fault.Timeout, "reading content of file %s timed out", fileID)
		}
		return nil, fault.New(fault.UpstreamUnavailable, "reading content of file %s failed: %v", fileID, err)
	}

	if r.maxBytes > 0 && int64(len(data)) > r.maxBytes {
		return nil, fault.New(fault.SizeLimitExceeded, "content of file %s exceeds the %d byte limit", fileID, r.maxBytes)
	}

	return data, nil
}

// isFormatRejected reports whether an export failed because the requested
// format is not supported for the file, which is answered with 400.
func isFormatRejected(err error) bool {
	var fe *fault.Error
	if errors.As(err, &fe) {
		return fe.Kind == fault.UpstreamError && fe.Status == http.StatusBadRequest
	}
	return false
}
