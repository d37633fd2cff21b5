package extract

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Extractor pulls indexable text out of a stored document. Implementations
// for richer formats (pdf, docx) can be registered per extension.
type Extractor interface {
	Extract(filename string, content []byte) (string, error)
}

// Registry routes extraction by file extension and falls back to a
// printable-run scan for anything unknown.
type Registry struct {
	byExt    map[string]Extractor
	fallback Extractor
}

func NewRegistry() *Registry {
	plain := PlainText{}
	return &Registry{
		byExt: map[string]Extractor{
			".txt": plain,
			".md":  plain,
		},
		fallback: PrintableRuns{MinRunLength: 4},
	}
}

// Register installs an extractor for an extension (including the dot).
func (r *Registry) Register(ext string, extractor Extractor) {
	r.byExt[strings.ToLower(ext)] = extractor
}

func (r *Registry) Extract(filename string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if extractor, ok := r.byExt[ext]; ok {
		return extractor.Extract(filename, content)
	}
	return r.fallback.Extract(filename, content)
}

// PlainText treats the content as UTF-8 text as-is.
type PlainText struct{}

func (PlainText) Extract(_ string, content []byte) (string, error) {
	return string(content), nil
}

// PrintableRuns salvages text from binary content by keeping runs of
// printable characters at least MinRunLength long. Crude, but it lets
// uploaded binaries contribute something to retrieval instead of nothing.
type PrintableRuns struct {
	MinRunLength int
}

func (p PrintableRuns) Extract(_ string, content []byte) (string, error) {
	minRun := p.MinRunLength
	if minRun <= 0 {
		minRun = 4
	}

	var out strings.Builder
	var run []rune

	flush := func() {
		if len(run) >= minRun {
			if out.Len() > 0 {
				out.WriteByte('\n')
			}
			out.WriteString(string(run))
		}
		run = run[:0]
	}

	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		i += size
		if r == utf8.RuneError && size == 1 {
			flush()
			continue
		}
		if unicode.IsPrint(r) || r == '\t' {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()

	return out.String(), nil
}
