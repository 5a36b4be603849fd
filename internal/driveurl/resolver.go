package driveurl

import (
	"regexp"

	"github.com/teemow/drive2md/internal/fault"
)

// Family is a coarse classification of the document type a URL points at.
// It is a hint derived from the URL shape only; the export decision is made
// from the MIME type the Drive API reports, not from this value.
type Family string

const (
	FamilyDocument     Family = "document"
	FamilySpreadsheet  Family = "spreadsheet"
	FamilyPresentation Family = "presentation"
	FamilyGeneric      Family = "generic"
	FamilyUnknown      Family = "unknown"
)

// Reference is a canonical Drive file reference extracted from a share URL
// or a bare identifier.
type Reference struct {
	FileID string `json:"fileId"`
	Family Family `json:"family"`
}

// Regular expressions for the supported Google Docs/Drive URL shapes.
var (
	// Google Docs: https://docs.google.com/document/d/{id}/...
	docsDocumentRegex = regexp.MustCompile(`^https?://docs\.google\.com/document/d/([a-zA-Z0-9_-]+)`)

	// Google Sheets: https://docs.google.com/spreadsheets/d/{id}/...
	docsSpreadsheetRegex = regexp.MustCompile(`^https?://docs\.google\.com/spreadsheets/d/([a-zA-Z0-9_-]+)`)

	// Google Slides: https://docs.google.com/presentation/d/{id}/...
	docsPresentationRegex = regexp.MustCompile(`^https?://docs\.google\.com/presentation/d/([a-zA-Z0-9_-]+)`)

	// Drive file view: https://drive.google.com/file/d/{id}/...
	driveFileRegex = regexp.MustCompile(`^https?://drive\.google\.com/file/d/([a-zA-Z0-9_-]+)`)

	// Drive open: https://drive.google.com/open?id={id}
	driveOpenRegex = regexp.MustCompile(`^https?://drive\.google\.com/open\?(?:[^#]*&)?id=([a-zA-Z0-9_-]+)`)

	// Drive content: https://drive.google.com/uc?id={id} or uc?export=download&id={id}
	driveContentRegex = regexp.MustCompile(`^https?://drive\.google\.com/uc\?(?:[^#]*&)?id=([a-zA-Z0-9_-]+)`)

	// Bare file identifiers. Drive IDs are opaque but stay within this
	// character class and are at least 10 characters long in practice.
	bareIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{10,100}$`)
)

// patterns pairs each URL shape with the family it implies. More specific
// shapes come first; the first match wins.
var patterns = []struct {
	regex  *regexp.Regexp
	family Family
}{
	{docsDocumentRegex, FamilyDocument},
	{docsSpreadsheetRegex, FamilySpreadsheet},
	{docsPresentationRegex, FamilyPresentation},
	{driveFileRegex, FamilyGeneric},
	{driveOpenRegex, FamilyGeneric},
	{driveContentRegex, FamilyGeneric},
}

// Resolve extracts a canonical file reference from a share URL or a bare
// file ID. It is purely structural: no network access happens here, and
// inputs that match no known shape fail with invalid_reference instead of
// producing a best-effort guess.
func Resolve(input string) (Reference, error) {
	if input == "" {
		return Reference{}, fault.New(fault.InvalidReference, "empty input")
	}

	for _, p := range patterns {
		if m := p.regex.FindStringSubmatch(input); len(m) >= 2 {
			return Reference{FileID: m[1], Family: p.family}, nil
		}
	}

	if bareIDRegex.MatchString(input) {
		return Reference{FileID: input, Family: FamilyUnknown}, nil
	}

	return Reference{}, fault.New(fault.InvalidReference, "could not extract a Drive file ID from %q", input)
}
