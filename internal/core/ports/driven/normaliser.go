package driven

// Normaliser converts raw file bytes into plain text suitable for
// prompting. Implementations are selected by file extension.
type Normaliser interface {
	// Extensions returns the file extensions this normaliser handles,
	// lowercase with the leading dot.
	Extensions() []string

	// Normalise converts raw content to plain text.
	Normalise(name string, content []byte) (string, error)
}
