package convert

import (
	"context"
	"log/slog"
	"time"

	"github.com/teemow/drive2md/internal/drive"
	"github.com/teemow/drive2md/internal/driveurl"
	"github.com/teemow/drive2md/internal/fault"
	"github.com/teemow/drive2md/internal/logging"
	"github.com/teemow/drive2md/internal/markdown"
)

// Default bounds applied when the configuration leaves them unset.
const (
	DefaultMaxBytes = int64(10 << 20) // 10 MiB
	DefaultTimeout  = 2 * time.Minute
)

// Config holds the immutable per-process bounds for conversions.
type Config struct {
	// MaxBytes is the maximum size of retrieved content. Larger content
	// fails with size_limit_exceeded before or during the read.
	MaxBytes int64

	// Timeout bounds one whole invocation; exceeding it cancels the
	// in-flight Drive call and fails with timeout.
	Timeout time.Duration
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.MaxBytes <= 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Result is the successful output of one conversion.
type Result struct {
	Markdown     string `json:"markdown"`
	Title        string `json:"title"`
	SourceFormat string `json:"sourceFormat"`

	// Family is the URL family the reference resolved to. It feeds telemetry
	// and is not part of the tool's JSON payload.
	Family string `json:"-"`
}

// APIFactory builds the per-invocation Drive binding from the caller's
// credential. Production wiring uses drive.NewClient; tests substitute a
// fake.
type APIFactory func(ctx context.Context, cred drive.Credential) (drive.API, error)

// Converter runs the conversion pipeline. It holds no mutable state and is
// safe for concurrent use by many invocations.
type Converter struct {
	newAPI APIFactory
	config Config
	logger *slog.Logger
}

// New creates a Converter with the given Drive binding factory and bounds.
func New(newAPI APIFactory, config Config, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		newAPI: newAPI,
		config: config.withDefaults(),
		logger: logger,
	}
}

// Convert performs one invocation: it resolves the URL, wraps the forwarded
// bearer header into a call-scoped credential, fetches metadata, plans and
// executes retrieval, and normalizes the content into Markdown. All
// failures, including panics, are returned as *fault.Error; nothing escapes
// into the hosting process.
func (c *Converter) Convert(ctx context.Context, rawURL, bearerHeader string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("conversion panicked",
				logging.Operation("convert"),
				slog.Any("panic", r),
			)
			result = nil
			err = fault.New(fault.Internal, "unexpected internal failure")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()

	ref, err := driveurl.Resolve(rawURL)
	if err != nil {
		return nil, fault.From(err)
	}

	logger := logging.WithOperation(c.logger, "convert").With(
		slog.String("file_id", ref.FileID),
		slog.String("family", string(ref.Family)),
	)

	cred, err := drive.CredentialFromBearer(bearerHeader)
	if err != nil {
		return nil, fault.From(err)
	}

	api, err := c.newAPI(ctx, cred)
	if err != nil {
		logger.Error("failed to create Drive binding", logging.Err(err))
		return nil, fault.New(fault.Internal, "could not initialize the Drive client")
	}

	meta, err := api.GetMetadata(ctx, ref.FileID)
	if err != nil {
		logger.Warn("metadata fetch failed",
			logging.ErrorKind(string(fault.KindOf(err))),
			logging.Err(err),
		)
		return nil, fault.From(err)
	}

	plan := drive.PlanExport(meta.MimeType)

	retriever := drive.NewRetriever(api, c.config.MaxBytes, c.config.Timeout)
	content, err := retriever.Retrieve(ctx, meta, plan)
	if err != nil {
		logger.Warn("content retrieval failed",
			slog.String("mime_type", meta.MimeType),
			logging.ErrorKind(string(fault.KindOf(err))),
			logging.Err(err),
		)
		return nil, fault.From(err)
	}

	md, err := markdown.Normalize(content.Data, content.MimeType)
	if err != nil {
		logger.Warn("normalization failed",
			slog.String("mime_type", content.MimeType),
			logging.ErrorKind(string(fault.KindOf(err))),
			logging.Err(err),
		)
		return nil, fault.From(err)
	}

	logger.Info("conversion completed",
		logging.Status(logging.StatusSuccess),
		slog.String("mime_type", meta.MimeType),
		slog.String("source_format", content.MimeType),
		slog.Int("markdown_bytes", len(md)),
		slog.Duration(logging.KeyDuration, time.Since(start)),
	)

	return &Result{
		Markdown:     md,
		Title:        meta.Name,
		SourceFormat: content.MimeType,
		Family:       string(ref.Family),
	}, nil
}
