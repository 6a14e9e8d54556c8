// Package docs resolves and reads the earnings source documents.
//
// Every document lives under a single trusted root directory. Resolution
// enforces root containment on every call: traversal sequences, absolute
// names and symlink escapes are rejected before any read is attempted.
package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"randomwalk/pkg/core/faults"
	"randomwalk/pkg/core/period"
)

// Supported document extensions. Text is preferred, PDF is the fallback.
const (
	extText = ".txt"
	extPDF  = ".pdf"
)

// Handle identifies one resolved document inside the trusted root.
type Handle struct {
	Name string // derived or caller-supplied document name, with extension
	Path string // absolute location under the trusted root
	Ext  string // lower-cased extension
}

// Store maps (company, period) pairs to readable documents under the
// trusted root.
type Store struct {
	root string
}

// NewStore anchors a store at the trusted root. The root must exist; it is
// resolved through symlinks once so later containment checks compare
// against the real location.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to absolutize document root %q: %w", root, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("document root %q is not accessible: %w", root, err)
	}
	return &Store{root: resolved}, nil
}

// Root returns the trusted root directory.
func (s *Store) Root() string { return s.root }

// DeriveName builds the document base name for a company and period,
// e.g. "Amazon_2020Q1". The extension is decided at resolution time.
func (s *Store) DeriveName(companyName string, p period.Period) string {
	return fmt.Sprintf("%s_%s", companyName, p)
}

// Resolve maps a document name to a handle inside the trusted root.
// Names carrying an explicit .txt/.pdf extension are honored as-is; bare
// names try .txt first and fall back to .pdf. The containment check runs on
// every resolution, before any existence probe.
func (s *Store) Resolve(name string) (Handle, error) {
	// Containment is checked before anything else, including the extension
	// policy, so escape attempts always surface as AccessDenied.
	if _, err := s.contain(name); err != nil {
		return Handle{}, err
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" {
		if ext != extText && ext != extPDF {
			return Handle{}, faults.New(faults.UnsupportedFormat, "unsupported document extension %q", ext)
		}
		path, err := s.contain(name)
		if err != nil {
			return Handle{}, err
		}
		if _, statErr := os.Stat(path); statErr != nil {
			return Handle{}, faults.New(faults.DocumentNotFound, "missing data file: %s", name)
		}
		return Handle{Name: name, Path: path, Ext: ext}, nil
	}

	// Bare name: prefer text, accept PDF.
	for _, candidate := range []string{extText, extPDF} {
		path, err := s.contain(name + candidate)
		if err != nil {
			return Handle{}, err
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return Handle{Name: name + candidate, Path: path, Ext: candidate}, nil
		}
	}
	return Handle{}, faults.New(faults.DocumentNotFound, "missing data file: %s", name)
}

// LoadText reads the document content as plain text. Text files use a
// forgiving decode (invalid byte sequences dropped); PDFs are extracted
// page by page, a failing page contributing an empty string.
func (s *Store) LoadText(h Handle) (string, error) {
	// Re-check containment: handles may outlive the resolution call.
	path, err := s.contain(h.Name)
	if err != nil {
		return "", err
	}

	switch h.Ext {
	case extText:
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return "", faults.New(faults.DocumentNotFound, "missing data file: %s", h.Name)
			}
			return "", fmt.Errorf("failed to read %s: %w", h.Name, err)
		}
		return strings.ToValidUTF8(string(raw), ""), nil
	case extPDF:
		if _, err := os.Stat(path); err != nil {
			return "", faults.New(faults.DocumentNotFound, "missing data file: %s", h.Name)
		}
		return extractPDFText(path)
	default:
		return "", faults.New(faults.UnsupportedFormat, "unsupported document extension %q", h.Ext)
	}
}

// contain resolves name under the root and rejects anything that escapes
// it. Runs before every read.
func (s *Store) contain(name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", faults.New(faults.AccessDenied, "absolute document paths are not allowed: %s", name)
	}
	joined := filepath.Join(s.root, name)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", faults.Wrap(faults.AccessDenied, err, "cannot resolve document path %s", name)
	}
	if !strings.HasPrefix(abs, s.root+string(os.PathSeparator)) {
		return "", faults.New(faults.AccessDenied, "access to path outside the document root is not allowed: %s", name)
	}

	// Follow symlinks on the containing directory so a linked subdirectory
	// cannot smuggle reads outside the root.
	dir := filepath.Dir(abs)
	if realDir, evalErr := filepath.EvalSymlinks(dir); evalErr == nil {
		real := filepath.Join(realDir, filepath.Base(abs))
		if real != s.root && !strings.HasPrefix(real, s.root+string(os.PathSeparator)) {
			return "", faults.New(faults.AccessDenied, "access to path outside the document root is not allowed: %s", name)
		}
		abs = real
	}

	// The document itself may be a symlink; resolve it when it exists.
	if target, evalErr := filepath.EvalSymlinks(abs); evalErr == nil {
		if !strings.HasPrefix(target, s.root+string(os.PathSeparator)) {
			return "", faults.New(faults.AccessDenied, "access to path outside the document root is not allowed: %s", name)
		}
		abs = target
	}
	return abs, nil
}
