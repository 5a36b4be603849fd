package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanExport(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		want     ExportPlan
	}{
		{
			name:     "google doc exports as markdown with html fallback",
			mimeType: MimeTypeDocument,
			want: ExportPlan{
				Strategy:     StrategyNativeExport,
				TargetMime:   MimeTypeMarkdown,
				FallbackMime: MimeTypeHTML,
			},
		},
		{
			name:     "google sheet exports as csv",
			mimeType: MimeTypeSpreadsheet,
			want:     ExportPlan{Strategy: StrategyNativeExport, TargetMime: MimeTypeCSV},
		},
		{
			name:     "google slides export as plain text",
			mimeType: MimeTypePresentation,
			want:     ExportPlan{Strategy: StrategyNativeExport, TargetMime: MimeTypePlainText},
		},
		{
			name:     "markdown downloads unchanged",
			mimeType: MimeTypeMarkdown,
			want:     ExportPlan{Strategy: StrategyDirectDownload, TargetMime: MimeTypeMarkdown},
		},
		{
			name:     "x-markdown downloads as markdown",
			mimeType: "text/x-markdown",
			want:     ExportPlan{Strategy: StrategyDirectDownload, TargetMime: MimeTypeMarkdown},
		},
		{
			name:     "plain text downloads unchanged",
			mimeType: MimeTypePlainText,
			want:     ExportPlan{Strategy: StrategyDirectDownload, TargetMime: MimeTypePlainText},
		},
		{
			name:     "plain text with charset parameter",
			mimeType: "text/plain; charset=utf-8",
			want:     ExportPlan{Strategy: StrategyDirectDownload, TargetMime: MimeTypePlainText},
		},
		{
			name:     "csv downloads unchanged",
			mimeType: MimeTypeCSV,
			want:     ExportPlan{Strategy: StrategyDirectDownload, TargetMime: MimeTypeCSV},
		},
		{
			name:     "tsv downloads unchanged",
			mimeType: MimeTypeTSV,
			want:     ExportPlan{Strategy: StrategyDirectDownload, TargetMime: MimeTypeTSV},
		},
		{
			name:     "png is unsupported",
			mimeType: "image/png",
			want:     ExportPlan{Strategy: StrategyUnsupported},
		},
		{
			name:     "pdf is unsupported",
			mimeType: "application/pdf",
			want:     ExportPlan{Strategy: StrategyUnsupported},
		},
		{
			name:     "drive folder is unsupported",
			mimeType: "application/vnd.google-apps.folder",
			want:     ExportPlan{Strategy: StrategyUnsupported},
		},
		{
			name:     "empty mime type is unsupported",
			mimeType: "",
			want:     ExportPlan{Strategy: StrategyUnsupported},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlanExport(tt.mimeType))
		})
	}
}

// The plan is a pure function of the MIME type: repeated calls always yield
// the identical plan.
func TestPlanExportDeterministic(t *testing.T) {
	for _, mimeType := range []string{
		MimeTypeDocument, MimeTypeSpreadsheet, MimeTypePresentation,
		MimeTypeMarkdown, MimeTypePlainText, MimeTypeCSV, MimeTypeTSV,
		"image/png", "application/zip",
	} {
		first := PlanExport(mimeType)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, PlanExport(mimeType), "mime type %q", mimeType)
		}
	}
}
