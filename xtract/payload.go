package xtract

import (
	"fmt"
	"os"
	"path/filepath"
)

// Payload carries one document into the pipeline: either raw bytes or a
// filesystem path, plus optional filename and MIME hints for classification.
// Exactly one of Content/Path must be usable. Payloads are values, created
// per call and discarded after.
type Payload struct {
	Content  []byte
	Path     string
	Filename string
	MIME     string
}

// FromBytes builds a Payload around in-memory content.
func FromBytes(content []byte, filename, mimeType string) Payload {
	return Payload{Content: content, Filename: filename, MIME: mimeType}
}

// FromFile builds a Payload around an on-disk file. The base name doubles as
// the classification hint unless a filename hint is set explicitly.
func FromFile(path, filename, mimeType string) Payload {
	if filename == "" {
		filename = filepath.Base(path)
	}
	return Payload{Path: path, Filename: filename, MIME: mimeType}
}

// bytes returns the document content, reading the file when only a path is
// present.
func (p Payload) bytes() ([]byte, error) {
	if p.Path != "" && p.Content == nil {
		data, err := os.ReadFile(p.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p.Path, err)
		}
		return data, nil
	}
	return p.Content, nil
}

// name returns the best filename hint available.
func (p Payload) name() string {
	if p.Filename != "" {
		return p.Filename
	}
	if p.Path != "" {
		return filepath.Base(p.Path)
	}
	return ""
}
