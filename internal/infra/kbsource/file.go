package kbsource

import (
	"context"
	"fmt"
	"os"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
)

// FileSource reads entries from a YAML file on disk.
type FileSource struct {
	path string
}

// NewFileSource constructs the source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load implements faq.Source.
func (s *FileSource) Load(context.Context) ([]faq.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base %s: %w", s.path, err)
	}
	return decodeDocument(data)
}

var _ faq.Source = (*FileSource)(nil)
