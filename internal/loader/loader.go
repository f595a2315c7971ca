package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"lexrag/internal/domain"
)

var DefaultExtensions = []string{".txt", ".md", ".pdf"}

// Loader reads files from disk into documents.
type Loader struct {
	extensions map[string]struct{}
}

// New creates a loader accepting the given file extensions.
// An empty list falls back to DefaultExtensions.
func New(extensions []string) *Loader {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = struct{}{}
	}
	return &Loader{extensions: exts}
}

// Expand resolves globs and keeps paths with an accepted extension.
// Paths naming the same file are dropped after the first; order follows the
// arguments.
func (l *Loader) Expand(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range paths {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", p, err)
		}
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if !l.Accepts(m) {
				continue
			}
			key := filepath.Clean(m)
			if abs, err := filepath.Abs(m); err == nil {
				key = abs
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrNoDocuments
	}
	return out, nil
}

func (l *Loader) Accepts(path string) bool {
	_, ok := l.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load reads a single file. PDFs are reduced to plain text; anything else
// must be valid UTF-8.
func (l *Loader) Load(path string) (domain.Document, error) {
	var (
		text string
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err = readPDF(path)
	} else {
		text, err = readText(path)
	}
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{
		ID:      DocumentID(path),
		Name:    filepath.Base(path),
		Path:    path,
		Content: text,
	}, nil
}

// DocumentID derives a stable id from the absolute path so that re-indexing a
// file reproduces the same document and chunk ids.
func DocumentID(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(path))).String()
}

func readText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "read "+path, errors.New("not valid UTF-8 text"))
	}
	return string(raw), nil
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "open pdf "+path, err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract pdf "+path, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text %s: %w", path, err)
	}
	return buf.String(), nil
}
