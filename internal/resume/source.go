package resume

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the document types picked up when none are configured.
var DefaultExtensions = []string{".pdf"}

// Document is one résumé file as raw bytes.
type Document struct {
	Name string
	Data []byte
}

// Source enumerates résumé documents in a stable order.
type Source interface {
	Documents(ctx context.Context) ([]Document, error)
	String() string
}

// DirSource reads documents from a single directory, without descending into subdirectories.
type DirSource struct {
	dir        string
	extensions []string
}

func NewDirSource(dir string, extensions []string) *DirSource {
	return &DirSource{dir: dir, extensions: normalizeExtensions(extensions)}
}

func (s *DirSource) String() string {
	return s.dir
}

// Documents returns every matching regular file sorted by name.
func (s *DirSource) Documents(ctx context.Context) ([]Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading resume directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !hasExtension(e.Name(), s.extensions) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading resume %s: %w", name, err)
		}
		docs = append(docs, Document{Name: name, Data: data})
	}

	return docs, nil
}

func normalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
