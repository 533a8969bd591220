// Package acquire turns user input into readable text.
package acquire

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/verte-zerg/rapidread/internal/model"
)

// Kind classifies submitted input.
type Kind int

const (
	KindText Kind = iota
	KindURL
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindURL:
		return model.SourceURL
	case KindFile:
		return model.SourceFile
	default:
		return model.SourceText
	}
}

// Source is classified user input.
type Source struct {
	Kind  Kind
	Value string
}

const (
	defaultTimeout   = 15 * time.Second
	defaultMaxBytes  = 5 << 20
	defaultUserAgent = "rapidread/1.0 (+https://github.com/verte-zerg/rapidread)"
)

var textExts = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
}

var htmlExts = map[string]bool{
	".html": true,
	".htm":  true,
}

// Classify decides how input should be loaded. Pasted text is returned
// unchanged as KindText.
func Classify(input string) Source {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || strings.ContainsAny(trimmed, "\r\n") {
		return Source{Kind: KindText, Value: input}
	}
	if u, err := url.Parse(trimmed); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return Source{Kind: KindURL, Value: u.String()}
	}
	path := expandHome(trimmed)
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return Source{Kind: KindFile, Value: path}
	}
	return Source{Kind: KindText, Value: input}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Options configures a Fetcher. Zero values pick defaults.
type Options struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
	Client    *http.Client
	Logger    *slog.Logger
}

// Fetcher loads files and web pages.
type Fetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
	logger    *slog.Logger
}

// NewFetcher returns a Fetcher configured by opts.
func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{
		client:    opts.Client,
		maxBytes:  opts.MaxBytes,
		userAgent: opts.UserAgent,
		logger:    opts.Logger,
	}
}

// Fetch returns the text behind src. Errors are *model.ValidationError,
// *model.UpstreamError or wrap model.ErrEmptyContent.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (string, error) {
	var text string
	var err error
	switch src.Kind {
	case KindText:
		text = src.Value
	case KindFile:
		text, err = f.readFile(src.Value)
	case KindURL:
		text, err = f.fetchURL(ctx, src.Value)
	default:
		return "", model.Validationf("unsupported source")
	}
	if err != nil {
		return "", err
	}
	text = strings.ToValidUTF8(text, "\uFFFD")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s %q: %w", src.Kind, src.Value, model.ErrEmptyContent)
	}
	return text, nil
}

func (f *Fetcher) readFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !textExts[ext] && !htmlExts[ext] {
		if ext == "" {
			return "", model.Validationf("unsupported file type: %s has no extension", filepath.Base(path))
		}
		return "", model.Validationf("unsupported file type %q", ext)
	}
	file, err := os.Open(path)
	if err != nil {
		return "", model.Validationf("cannot open %s", filepath.Base(path))
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()

	data, err := readLimited(decodeBOM(file), f.maxBytes)
	if err != nil {
		return "", model.Validationf("cannot read %s: %v", filepath.Base(path), err)
	}
	contentType := "text/plain"
	if htmlExts[ext] {
		contentType = "text/html"
	}
	data, enc, err := toUTF8(data, contentType)
	if err != nil {
		return "", model.Validationf("cannot decode %s: %v", filepath.Base(path), err)
	}
	f.logger.Debug("file loaded", "path", path, "bytes", len(data), "encoding", enc)
	if htmlExts[ext] {
		return ExtractText(bytes.NewReader(data))
	}
	return string(data), nil
}

func (f *Fetcher) fetchURL(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", model.Validationf("invalid URL %q", rawURL)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &model.UpstreamError{Op: "fetch " + rawURL, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &model.UpstreamError{Op: "fetch " + rawURL, Err: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/html"
	}
	body, err := charset.NewReader(resp.Body, contentType)
	if err != nil {
		return "", &model.UpstreamError{Op: "decode " + rawURL, Err: err}
	}
	data, err := readLimited(body, f.maxBytes)
	if err != nil {
		return "", &model.UpstreamError{Op: "read " + rawURL, Err: err}
	}
	f.logger.Debug("url fetched", "url", rawURL, "content_type", mediaType, "bytes", len(data))

	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return ExtractText(bytes.NewReader(data))
	case "text/plain", "text/markdown":
		return string(data), nil
	default:
		return "", &model.UpstreamError{Op: "fetch " + rawURL, Err: fmt.Errorf("unsupported content type %q", mediaType)}
	}
}

// decodeBOM strips a UTF-8 BOM and transcodes UTF-16 input with a BOM.
func decodeBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(encoding.Nop.NewDecoder()))
}

// toUTF8 transcodes data that is not valid UTF-8 using the encoding sniffed
// from its leading bytes (windows-1252 when nothing is declared). Bytes the
// sniffed encoding cannot map become U+FFFD.
func toUTF8(data []byte, contentType string) ([]byte, string, error) {
	if utf8.Valid(data) {
		return data, "utf-8", nil
	}
	enc, name, _ := charset.DetermineEncoding(data, contentType)
	if name != "utf-8" {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return nil, name, err
		}
		data = decoded
	}
	return bytes.ToValidUTF8(data, []byte("\uFFFD")), name, nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("content exceeds %d bytes", limit)
	}
	return data, nil
}
