package source

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Document is the text of one input file.
type Document struct {
	Path string
	Text string
}

// Reader loads batch input from text and PDF files.
type Reader struct {
	logger  *zap.Logger
	ignored []string
}

// NewReader creates a reader. A nil logger discards diagnostics.
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		logger:  logger,
		ignored: []string{".git", "vendor", "node_modules"},
	}
}

// Supported reports whether path has an extension the reader understands.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".md", ".pdf":
		return true
	}
	return false
}

// ReadFile returns the text of a single file.
func (r *Reader) ReadFile(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return ReadPDF(path)
	}
	return ReadText(path)
}

// ReadText reads a plain text file.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// ReadPDF extracts the plain text of a PDF with whitespace runs collapsed.
func ReadPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	b, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract plain text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(b); err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}
	return strings.Join(strings.Fields(buf.String()), " "), nil
}

// Walk visits root, or every supported file under it when root is a
// directory, in lexical order. Files that cannot be read are logged and
// skipped; an error from onDoc stops the walk.
func (r *Reader) Walk(root string, onDoc func(Document) error) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		text, err := r.ReadFile(root)
		if err != nil {
			return err
		}
		return onDoc(Document{Path: root, Text: text})
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			for _, ign := range r.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !Supported(path) {
			return nil
		}

		text, err := r.ReadFile(path)
		if err != nil {
			r.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			return nil
		}
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return onDoc(Document{Path: path, Text: text})
	})
}

// ReadAll concatenates every document under root, one paragraph per file.
func (r *Reader) ReadAll(root string) (string, []string, error) {
	var parts, paths []string
	err := r.Walk(root, func(d Document) error {
		parts = append(parts, strings.TrimSpace(d.Text))
		paths = append(paths, d.Path)
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return strings.Join(parts, "\n\n"), paths, nil
}
