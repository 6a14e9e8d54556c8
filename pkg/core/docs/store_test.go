package docs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"randomwalk/pkg/core/faults"
	"randomwalk/pkg/core/period"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	store, err := NewStore(root)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, store.Root()
}

func writeDoc(t *testing.T, root, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDeriveName(t *testing.T) {
	store, _ := newTestStore(t)
	name := store.DeriveName("Amazon", period.Period{Year: 2020, Quarter: 1})
	if name != "Amazon_2020Q1" {
		t.Errorf("DeriveName = %q, want Amazon_2020Q1", name)
	}
}

func TestResolvePrefersTextOverPDF(t *testing.T) {
	store, root := newTestStore(t)
	writeDoc(t, root, "Amazon_2020Q1.txt", "call transcript")
	writeDoc(t, root, "Amazon_2020Q1.pdf", "%PDF-1.4 stub")

	h, err := store.Resolve("Amazon_2020Q1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if h.Ext != ".txt" {
		t.Errorf("resolved extension = %q, want .txt", h.Ext)
	}
	if h.Name != "Amazon_2020Q1.txt" {
		t.Errorf("resolved name = %q", h.Name)
	}
}

func TestResolveRoundTrip(t *testing.T) {
	store, root := newTestStore(t)
	name := store.DeriveName("Amazon", period.Period{Year: 2020, Quarter: 2})
	writeDoc(t, root, name+".txt", "content")

	if _, err := store.Resolve(name); err != nil {
		t.Fatalf("derived document should resolve, got %v", err)
	}
}

func TestResolveMissingDocument(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Resolve("Amazon_2024Q4")
	if faults.KindOf(err) != faults.DocumentNotFound {
		t.Errorf("expected DocumentNotFound, got %v", err)
	}
}

func TestResolveUnsupportedExtension(t *testing.T) {
	store, root := newTestStore(t)
	writeDoc(t, root, "Amazon_2020Q1.docx", "binary blob")

	_, err := store.Resolve("Amazon_2020Q1.docx")
	if faults.KindOf(err) != faults.UnsupportedFormat {
		t.Errorf("expected UnsupportedFormat, got %v", err)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	store, root := newTestStore(t)

	// Place a real file just outside the root so the attack would succeed
	// if containment were existence-gated.
	outside := filepath.Join(filepath.Dir(root), "secret.txt")
	if err := os.WriteFile(outside, []byte("keys"), 0644); err != nil {
		t.Fatalf("write outside file: %v", err)
	}
	defer os.Remove(outside)

	cases := []string{
		"../secret.txt",
		"foo/../../secret.txt",
		"..",
	}
	for _, name := range cases {
		_, err := store.Resolve(name)
		if faults.KindOf(err) != faults.AccessDenied {
			t.Errorf("Resolve(%q): expected AccessDenied, got %v", name, err)
		}
	}
}

func TestResolveRejectsAbsolutePath(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Resolve("/etc/hosts")
	if faults.KindOf(err) != faults.AccessDenied {
		t.Errorf("expected AccessDenied for absolute path, got %v", err)
	}
}

func TestResolveRejectsSymlinkEscape(t *testing.T) {
	store, root := newTestStore(t)

	outside := filepath.Join(filepath.Dir(root), "leak.txt")
	if err := os.WriteFile(outside, []byte("leak"), 0644); err != nil {
		t.Fatalf("write outside file: %v", err)
	}
	defer os.Remove(outside)

	link := filepath.Join(root, "Amazon_2020Q1.txt")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := store.Resolve("Amazon_2020Q1.txt")
	if faults.KindOf(err) != faults.AccessDenied {
		t.Errorf("expected AccessDenied for symlink escape, got %v", err)
	}
}

func TestLoadTextForgivingDecode(t *testing.T) {
	store, root := newTestStore(t)
	// Valid prefix, invalid UTF-8 byte, valid suffix.
	raw := append([]byte("revenue grew "), 0xff)
	raw = append(raw, []byte(" strongly")...)
	if err := os.WriteFile(filepath.Join(root, "Amazon_2020Q1.txt"), raw, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	h, err := store.Resolve("Amazon_2020Q1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	text, err := store.LoadText(h)
	if err != nil {
		t.Fatalf("LoadText: %v", err)
	}
	if !strings.Contains(text, "revenue grew") || !strings.Contains(text, "strongly") {
		t.Errorf("text content lost around invalid bytes: %q", text)
	}
	if strings.ContainsRune(text, 0xfffd) {
		t.Errorf("invalid bytes should be dropped, not replaced: %q", text)
	}
}

func TestLoadTextMissingFile(t *testing.T) {
	store, root := newTestStore(t)
	writeDoc(t, root, "Amazon_2020Q1.txt", "x")

	h, err := store.Resolve("Amazon_2020Q1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	os.Remove(filepath.Join(root, "Amazon_2020Q1.txt"))

	_, err = store.LoadText(h)
	if faults.KindOf(err) != faults.DocumentNotFound {
		t.Errorf("expected DocumentNotFound after removal, got %v", err)
	}
}

func TestPageNumberFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Amazon_2020Q1_Content_page_1.txt", 1},
		{"page_12.txt", 12},
		{"notes.txt", 0},
		{"page_.txt", 0},
	}
	for _, tc := range tests {
		if got := pageNumberFromFilename(tc.name); got != tc.want {
			t.Errorf("pageNumberFromFilename(%q) = %d, want %d", tc.name, got, tc.want)
		}
	}
}
