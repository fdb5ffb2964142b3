package verifyx

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/mab1k/tests-upload-zip-files/archivex"
	"github.com/mab1k/tests-upload-zip-files/errorx"
)

// Extension returns the extension of name, dot included. Leading dots of the
// base name do not start an extension, so ".bashrc" has none.
func Extension(name string) string {
	base := filepath.Base(name)
	trimmed := strings.TrimLeft(base, ".")
	if trimmed == "" {
		return ""
	}
	return filepath.Ext(trimmed)
}

// CheckExtensions requires every name to have the expected extension.
func CheckExtensions(names []string, expected string) error {
	wrong := lo.Filter(names, func(name string, _ int) bool {
		return Extension(name) != expected
	})
	if len(wrong) == 0 {
		return nil
	}

	details := lo.Map(wrong, func(name string, _ int) *errorx.Error {
		return errorx.AssertionErrorf("%s has extension %q", name, Extension(name))
	})
	return errorx.AssertionErrorf("%d file(s) have an unexpected extension, expected %q: %v", len(wrong), expected, wrong).
		WithDetails(details...)
}

// FilterByExtension keeps the paths that end with ext.
func FilterByExtension(paths []string, ext string) []string {
	return lo.Filter(paths, func(p string, _ int) bool {
		return strings.HasSuffix(p, ext)
	})
}

// CheckArchiveOnlyExtension requires every entry name to end with ext.
func CheckArchiveOnlyExtension(entries []archivex.Entry, ext string) error {
	wrong := lo.FilterMap(entries, func(e archivex.Entry, _ int) (string, bool) {
		return e.Name, !strings.HasSuffix(e.Name, ext)
	})
	if len(wrong) == 0 {
		return nil
	}

	details := lo.Map(wrong, func(name string, _ int) *errorx.Error {
		return errorx.AssertionErrorf("%s does not have extension %q", name, ext)
	})
	return errorx.AssertionErrorf("archive has %d entr(ies) without extension %q: %v", len(wrong), ext, wrong).
		WithDetails(details...)
}
