package domain

// DocumentInput is a source document handed to the extraction pipeline.
// It is produced by a document source (e.g. the filesystem connector)
// and consumed once per pipeline run.
type DocumentInput struct {
	// Content is the full text content after normalisation.
	Content string

	// Name is the document file name.
	Name string

	// Path is the absolute location of the document.
	Path string

	// RelativePath is the location relative to the scanned root.
	RelativePath string
}
