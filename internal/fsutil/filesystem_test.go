package fsutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_RoundTrip(t *testing.T) {
	osfs := OSFileSystem{}
	dir := filepath.Join(t.TempDir(), "reports", "nightly")

	if err := osfs.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	name := filepath.Join(dir, "baseline.json")
	if err := osfs.WriteFile(name, []byte(`{"a":1}`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	w, err := osfs.Create(filepath.Join(dir, "report.md"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("# report")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := osfs.ReadFile(name)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("got %q", data)
	}

	if _, err := osfs.ReadFile(filepath.Join(dir, "missing.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	testData := []byte("hello, world")
	if err := mfs.WriteFile("test.txt", testData, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := mfs.ReadFile("./test.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string(testData) {
		t.Errorf("expected %q, got %q", testData, data)
	}

	// Returned and stored slices are independent.
	data[0] = 'H'
	testData[1] = 'E'
	again, _ := mfs.ReadFile("test.txt")
	if string(again) != "hello, world" {
		t.Errorf("stored data was mutated: %q", again)
	}
}

func TestMemoryFileSystem_RequiresParentDirectory(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.WriteFile("out/a.json", nil, 0644); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist writing without parent, got %v", err)
	}
	if _, err := mfs.Create("out/b.md"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist creating without parent, got %v", err)
	}

	if err := mfs.MkdirAll("out/nested/deeper", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := mfs.WriteFile("out/a.json", nil, 0644); err != nil {
		t.Errorf("parent created by MkdirAll, got %v", err)
	}
	if err := mfs.WriteFile("out/nested/c.json", nil, 0644); err != nil {
		t.Errorf("intermediate directory created by MkdirAll, got %v", err)
	}
}

func TestMemoryFileSystem_CreateVisibleOnClose(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("created.txt")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("part one, ")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := w.Write([]byte("part two")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := mfs.ReadFile("created.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("file should not exist before Close, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := mfs.ReadFile("created.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "part one, part two" {
		t.Errorf("got %q", data)
	}
}

func TestMemoryFileSystem_Files(t *testing.T) {
	mfs := NewMemoryFileSystem()
	_ = mfs.MkdirAll("run", 0755)
	_ = mfs.WriteFile("run/z.png", []byte{1}, 0644)
	_ = mfs.WriteFile("run/a.md", []byte{2}, 0644)

	got := mfs.Files()
	want := []string{"run/a.md", "run/z.png"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Files() = %v, want %v", got, want)
	}
}
