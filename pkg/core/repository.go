package core

// Decoder turns the raw bytes of a file into document trees.
// Implementations return one tree per document in the stream.
type Decoder interface {
	Decode(raw []byte) ([]any, error)
}

// Checker inspects a decoded document and reports every violation it finds.
// A Checker never stops at the first failure.
type Checker interface {
	Check(doc *Document) []Violation
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(doc *Document) []Violation

// Check calls f(doc).
func (f CheckerFunc) Check(doc *Document) []Violation {
	return f(doc)
}
