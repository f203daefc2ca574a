package probestore

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/ports"
)

const DefaultDir = "probes"

type JSONStore struct {
	dir        string
	writeIndex bool
	now        func() time.Time
}

type Option func(*JSONStore)

// WithIndex enables a JSONL index: <dir>/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(dir string, opts ...Option) *JSONStore {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}
	s := &JSONStore{
		dir: dir,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ProbeStore = (*JSONStore)(nil)

func (s *JSONStore) SaveProbe(res domain.ProbeResult) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", &domain.OpError{Op: "probestore.mkdir", Kind: domain.KindExecution, Path: s.dir, Err: err}
	}

	if res.At.IsZero() {
		res.At = s.now()
	}
	res.At = res.At.UTC()

	slug := slugify(hostOf(res.URL))
	if slug == "" {
		slug = "probe"
	}

	filename := fmt.Sprintf("%s_%s.json", res.At.Format("20060102T150405Z"), slug)
	id := strings.TrimSuffix(filename, ".json")
	path := filepath.Join(s.dir, filename)

	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", &domain.OpError{Op: "probestore.marshal", Kind: domain.KindExecution, Path: path, Err: err}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return "", &domain.OpError{Op: "probestore.write", Kind: domain.KindExecution, Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{Op: "probestore.rename", Kind: domain.KindExecution, Path: path, Err: err}
	}

	if s.writeIndex {
		_ = s.appendIndex(id, filename, res)
	}

	return id, nil
}

func (s *JSONStore) appendIndex(id, filename string, res domain.ProbeResult) error {
	type idx struct {
		ID         string    `json:"id"`
		File       string    `json:"file"`
		URL        string    `json:"url"`
		StatusCode int       `json:"status_code"`
		TLSVersion string    `json:"tls_version"`
		At         time.Time `json:"at"`
	}
	line, err := json.Marshal(idx{
		ID:         id,
		File:       filename,
		URL:        res.URL,
		StatusCode: res.StatusCode,
		TLSVersion: res.TLSVersion,
		At:         res.At,
	})
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(s.dir, "index.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
