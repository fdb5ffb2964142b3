// Package fixturex creates the files a harness run uploads and archives, and
// removes them again when the run is over.
package fixturex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/mab1k/tests-upload-zip-files/errorx"
)

const filePerm = 0o644

// File is one generated file.
type File struct {
	Name    string
	Path    string
	Content []byte
}

// Size is the byte size of the generated content.
func (f File) Size() int64 {
	return int64(len(f.Content))
}

// Files owns the generated files; only Remove deletes them.
type Files struct {
	fs      afero.Fs
	files   []File
	removed bool
}

// Content returns the placeholder text written for name.
func Content(name string) []byte {
	return []byte(fmt.Sprintf("This is a test file: %s.", name))
}

// Generate writes one file per name under dir. If any write fails, the files
// already written are removed before the error is returned.
func Generate(fs afero.Fs, dir string, names []string) (*Files, error) {
	fl := &Files{fs: fs, files: make([]File, 0, len(names))}
	for _, name := range names {
		f := File{
			Name:    name,
			Path:    filepath.Join(dir, name),
			Content: Content(name),
		}
		if err := afero.WriteFile(fs, f.Path, f.Content, filePerm); err != nil {
			_ = fl.Remove()
			return nil, errorx.WrapSetup(err, "could not create test file %q", f.Path)
		}
		fl.files = append(fl.files, f)
	}
	return fl, nil
}

// GenerateT is Generate for tests. Removal is registered with t.Cleanup so it
// runs whether the test passes, fails or stops with FailNow.
func GenerateT(t testing.TB, fs afero.Fs, dir string, names []string) *Files {
	t.Helper()
	fl, err := Generate(fs, dir, names)
	if err != nil {
		t.Fatalf("generate test files: %v", err)
	}
	t.Cleanup(func() {
		if err := fl.Remove(); err != nil {
			t.Errorf("remove test files: %v", err)
		}
	})
	return fl
}

// All returns the generated files in the order they were requested.
func (fl *Files) All() []File {
	out := make([]File, len(fl.files))
	copy(out, fl.files)
	return out
}

// Paths returns the path of every generated file.
func (fl *Files) Paths() []string {
	out := make([]string, 0, len(fl.files))
	for _, f := range fl.files {
		out = append(out, f.Path)
	}
	return out
}

// Sizes maps the base name of every file to its size on disk.
func (fl *Files) Sizes() (map[string]int64, error) {
	sizes := make(map[string]int64, len(fl.files))
	for _, f := range fl.files {
		info, err := fl.fs.Stat(f.Path)
		if err != nil {
			return nil, errorx.WrapSetup(err, "could not stat test file %q", f.Path)
		}
		sizes[filepath.Base(f.Path)] = info.Size()
	}
	return sizes, nil
}

// Remove deletes every generated file. Files that are already gone are
// skipped; every other failure is reported. Calling it twice is a no-op.
func (fl *Files) Remove() error {
	if fl.removed {
		return nil
	}
	fl.removed = true

	var failed []*errorx.Error
	for _, f := range fl.files {
		if err := fl.fs.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			failed = append(failed, errorx.SetupErrorf("%s: %v", f.Path, err))
		}
	}
	if len(failed) > 0 {
		return errorx.SetupErrorf("could not remove %d test file(s)", len(failed)).WithDetails(failed...)
	}
	return nil
}
