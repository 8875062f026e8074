package kbsource

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
)

// document is the YAML layout shared by the file and object storage sources.
type document struct {
	Entries []faq.Entry `yaml:"entries"`
}

func decodeDocument(data []byte) ([]faq.Record, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode knowledge base: %w", err)
	}
	records := make([]faq.Record, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		records = append(records, faq.Record{Entry: entry})
	}
	return records, nil
}
