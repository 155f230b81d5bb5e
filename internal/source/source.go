package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"podcaster/internal/logging"
	"podcaster/internal/services"
	"podcaster/internal/textutil"
)

// Kind identifies how a document was loaded.
type Kind string

const (
	KindText     Kind = "text"
	KindMarkdown Kind = "markdown"
	KindPDF      Kind = "pdf"
	KindDOCX     Kind = "docx"
	KindHTML     Kind = "html"
	KindFeed     Kind = "feed"
)

// Document is loaded source material.
type Document struct {
	Title  string
	Text   string
	Origin string
	Kind   Kind
}

// Words returns the document word count.
func (d Document) Words() int { return textutil.WordCount(d.Text) }

const defaultMaxBytes = 20 << 20

// Loader fetches and extracts documents.
type Loader struct {
	httpClient *http.Client
	feeds      *gofeed.Parser
	maxBytes   int64
	logger     *slog.Logger
}

// Option customizes a Loader.
type Option func(*Loader)

// WithHTTPClient overrides the client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.httpClient = client
		}
	}
}

// WithMaxBytes bounds how much of a remote response is read.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// NewLoader constructs a Loader.
func NewLoader(logger *slog.Logger, opts ...Option) *Loader {
	l := &Loader{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		maxBytes:   defaultMaxBytes,
		logger:     logging.NewComponentLogger(logger, "source"),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.feeds = gofeed.NewParser()
	l.feeds.Client = l.httpClient
	return l
}

// IsURL reports whether ref looks like an http(s) URL.
func IsURL(ref string) bool {
	lower := strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Load resolves ref as a URL or a local file path.
func (l *Loader) Load(ctx context.Context, ref string) (Document, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Document{}, services.Wrap(services.ErrValidation, "source", "load", "source reference is empty", nil)
	}
	var (
		doc Document
		err error
	)
	if IsURL(ref) {
		doc, err = l.LoadURL(ctx, ref)
	} else {
		doc, err = l.LoadFile(ref)
	}
	if err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return Document{}, services.Wrap(services.ErrValidation, "source", "load", fmt.Sprintf("no text found in %s", ref), nil)
	}
	logging.WithContext(ctx, l.logger).Info("source loaded",
		logging.String("origin", doc.Origin),
		logging.String("kind", string(doc.Kind)),
		logging.Int("words", doc.Words()),
	)
	return doc, nil
}

// LoadFile extracts text from a local file.
func (l *Loader) LoadFile(path string) (Document, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Document{}, services.Wrap(services.ErrNotFound, "source", "load file", path, err)
		}
		return Document{}, services.Wrap(services.ErrValidation, "source", "load file", path, err)
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var (
		text string
		kind Kind
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		kind = KindPDF
		text, err = pdfFileText(path)
	case ".docx":
		kind = KindDOCX
		text, err = docxFileText(path)
	case ".md", ".markdown":
		kind = KindMarkdown
		var data []byte
		if data, err = os.ReadFile(path); err == nil {
			text = MarkdownText(data)
		}
	default:
		kind = KindText
		var data []byte
		if data, err = os.ReadFile(path); err == nil {
			text = string(data)
		}
	}
	if err != nil {
		return Document{}, services.Wrap(services.ErrValidation, "source", "extract "+string(kind), path, err)
	}
	return Document{Title: title, Text: strings.TrimSpace(text), Origin: path, Kind: kind}, nil
}

// FromReader reads plain text, e.g. from stdin.
func FromReader(r io.Reader, origin string) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", origin, err)
	}
	return Document{Text: strings.TrimSpace(string(data)), Origin: origin, Kind: KindText}, nil
}
