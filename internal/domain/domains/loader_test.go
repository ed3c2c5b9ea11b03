package domains

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeList(t *testing.T, path string, lines string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.txt")
	writeList(t, path, "TUI-Corp.com\n\n  other.com  \nMyTuiGlobal.NET\n")

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"tui-corp.com", "other.com", "mytuiglobal.net"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load = %v, want %v", got, want)
	}
}

func TestLoadDataDirFallback(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.Mkdir(DataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeList(t, filepath.Join(DataDir, "list.txt"), "example.com\n")

	// The path as given does not exist; the file under data/ does.
	got, err := Load("list.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0] != "example.com" {
		t.Errorf("Load = %v, want [example.com]", got)
	}
}

func TestLoadMissing(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("nope.txt")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("err = %v, want ErrFileNotFound", err)
	}
}

func TestFilterKeyword(t *testing.T) {
	domains := []string{"tui-corp.com", "other.com", "mytuiglobal.net", "intuitively.org"}

	got := FilterKeyword(domains, "TUI")
	// Plain substring: "intuitively" matches too, and input order holds.
	want := []string{"tui-corp.com", "mytuiglobal.net", "intuitively.org"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterKeyword = %v, want %v", got, want)
	}
}

func TestFilterKeywordNoMatch(t *testing.T) {
	if got := FilterKeyword([]string{"a.com", "b.com"}, "zzz"); got != nil {
		t.Errorf("FilterKeyword = %v, want nil", got)
	}
}

// chdir stands in for t.Chdir, which needs a newer Go than this
// toolchain provides.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}
