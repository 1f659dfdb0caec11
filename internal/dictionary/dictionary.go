// Package dictionary loads the optional synonym file mapping answer keys to
// acceptable alternate strings. The file is flat YAML:
//
//	cat:
//	  - cat
//	  - neko
//
// An absent or malformed file degrades to "no synonyms" and never fails
// round construction.
package dictionary

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"go-reveal-quiz/internal/answer"
)

// Dictionary holds the synonym entries keyed by normalized answer key.
type Dictionary struct {
	entries answer.SynonymSet
}

// NewEmpty returns a dictionary with no entries; every lookup misses.
func NewEmpty() *Dictionary {
	return &Dictionary{entries: answer.SynonymSet{}}
}

// Load reads a YAML synonym file. Keys are normalized on load so lookups
// with normalized answer keys hit regardless of the file's casing.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	entries := make(answer.SynonymSet, len(raw))
	for key, alternates := range raw {
		normKey := answer.Normalize(key)
		if normKey == "" {
			continue
		}
		kept := make([]string, 0, len(alternates))
		for _, alt := range alternates {
			if strings.TrimSpace(alt) != "" {
				kept = append(kept, alt)
			}
		}
		entries[normKey] = kept
	}
	return &Dictionary{entries: entries}, nil
}

// Lookup returns the alternate strings for a key, or nil when the key has no
// entry.
func (d *Dictionary) Lookup(key string) []string {
	return d.entries[answer.Normalize(key)]
}

// Set exposes the entries in the form the answer matcher consumes.
func (d *Dictionary) Set() answer.SynonymSet {
	return d.entries
}

// Len returns the number of keys with entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}
