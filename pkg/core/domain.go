// Package core holds the domain types shared by every fwlint component.
package core

import (
	"fmt"
	"time"
)

// Document is a structured-text file read from the validated collection.
// It is read once per run and never mutated afterwards.
type Document struct {
	// Path is the file path as it was opened.
	Path string
	// Raw is the exact byte content of the file.
	Raw []byte
	// Trees holds one decoded value per document in the stream.
	// An empty stream decodes to a single nil tree.
	Trees []any
}

// Size returns the byte length of the raw content.
func (d *Document) Size() int64 {
	return int64(len(d.Raw))
}

// Root returns the first decoded tree of the stream.
func (d *Document) Root() any {
	if len(d.Trees) == 0 {
		return nil
	}
	return d.Trees[0]
}

// EventType represents the type of change seen under a watched root.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a document in the collection.
type Event struct {
	Type      EventType
	Path      string // Slash-separated, relative to the watched root
	Timestamp time.Time
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Path)
}
