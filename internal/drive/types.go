package drive

// FileMetadata is the subset of Drive file metadata the pipeline needs.
// It is fetched once per invocation and immutable for the duration of the
// call.
type FileMetadata struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	// Size is the declared size in bytes. Google-native documents report 0;
	// their size is only known after export.
	Size int64 `json:"size,omitempty"`
}

// Content is the raw payload retrieved for a file, together with the format
// it was retrieved in. It exists only within one invocation.
type Content struct {
	Data     []byte
	MimeType string
}
