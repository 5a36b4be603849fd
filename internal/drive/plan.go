package drive

import "strings"

// Google-native document MIME types.
const (
	MimeTypeDocument     = "application/vnd.google-apps.document"
	MimeTypeSpreadsheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypePresentation = "application/vnd.google-apps.presentation"
)

// Text formats the pipeline can pass through or normalize locally.
const (
	MimeTypeMarkdown  = "text/markdown"
	MimeTypeHTML      = "text/html"
	MimeTypePlainText = "text/plain"
	MimeTypeCSV       = "text/csv"
	MimeTypeTSV       = "text/tab-separated-values"
)

// Strategy selects how a file's content is retrieved.
type Strategy string

const (
	// StrategyNativeExport asks Drive to convert a Google-native document
	// server-side into the planned target format.
	StrategyNativeExport Strategy = "native_export"

	// StrategyDirectDownload fetches the raw media bytes unchanged.
	StrategyDirectDownload Strategy = "direct_download"

	// StrategyUnsupported marks content types the pipeline cannot convert.
	// No network call is made for them.
	StrategyUnsupported Strategy = "unsupported"
)

// ExportPlan is the retrieval decision for one file.
type ExportPlan struct {
	Strategy Strategy

	// TargetMime is the format requested from the export endpoint, or the
	// expected format of a direct download. Empty for unsupported content.
	TargetMime string

	// FallbackMime, when set, is requested instead if the export endpoint
	// rejects TargetMime. Drive only added Markdown export in 2024; older
	// deployments answer 400 for it and still support HTML.
	FallbackMime string
}

// PlanExport maps a declared MIME type to a retrieval strategy. It is a
// pure, total function: the same input always yields the same plan and no
// content sampling is involved. The declared MIME type, not the URL shape,
// is the source of truth for the export decision.
func PlanExport(mimeType string) ExportPlan {
	switch normalizeMimeType(mimeType) {
	case MimeTypeDocument:
		return ExportPlan{
			Strategy:     StrategyNativeExport,
			TargetMime:   MimeTypeMarkdown,
			FallbackMime: MimeTypeHTML,
		}
	case MimeTypeSpreadsheet:
		return ExportPlan{Strategy: StrategyNativeExport, TargetMime: MimeTypeCSV}
	case MimeTypePresentation:
		return ExportPlan{Strategy: StrategyNativeExport, TargetMime: MimeTypePlainText}
	case MimeTypeMarkdown, "text/x-markdown":
		return ExportPlan{Strategy: StrategyDirectDownload, TargetMime: MimeTypeMarkdown}
	case MimeTypePlainText:
		return ExportPlan{Strategy: StrategyDirectDownload, TargetMime: MimeTypePlainText}
	case MimeTypeCSV:
		return ExportPlan{Strategy: StrategyDirectDownload, TargetMime: MimeTypeCSV}
	case MimeTypeTSV:
		return ExportPlan{Strategy: StrategyDirectDownload, TargetMime: MimeTypeTSV}
	default:
		// Binary content: images, PDF, archives, video, other Google-native
		// types without a text rendering.
		return ExportPlan{Strategy: StrategyUnsupported}
	}
}

// normalizeMimeType lowercases a MIME type and strips parameters, so
// "text/plain; charset=utf-8" plans like "text/plain".
func normalizeMimeType(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
