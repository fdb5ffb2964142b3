package verifyx

import (
	"path/filepath"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/mab1k/tests-upload-zip-files/archivex"
	"github.com/mab1k/tests-upload-zip-files/errorx"
)

// CheckArchiveExists requires the archive file to be on disk.
func CheckArchiveExists(fs afero.Fs, path string) error {
	ok, err := archivex.Exists(fs, path)
	if err != nil {
		return err
	}
	if !ok {
		return errorx.AssertionErrorf("archive %s was not created", path)
	}
	return nil
}

// CheckArchiveContents requires the set of entry names to equal the set of
// base names of expected. Order and repeated names do not matter.
func CheckArchiveContents(entries []archivex.Entry, expected []string) error {
	want := lo.Uniq(lo.Map(expected, func(name string, _ int) string {
		return filepath.Base(name)
	}))
	got := lo.Uniq(lo.Map(entries, func(e archivex.Entry, _ int) string {
		return e.Name
	}))

	missing, unexpected := lo.Difference(want, got)
	sort.Strings(missing)
	sort.Strings(unexpected)

	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}

	var details []*errorx.Error
	for _, name := range missing {
		details = append(details, errorx.AssertionErrorf("missing: %s", name))
	}
	for _, name := range unexpected {
		details = append(details, errorx.AssertionErrorf("unexpected: %s", name))
	}

	if len(missing) > 0 {
		return errorx.AssertionErrorf("some files are missing from the archive: %v", missing).WithDetails(details...)
	}
	return errorx.AssertionErrorf("archive entries do not match the expected files").WithDetails(details...)
}

// CheckArchiveSizes requires every entry whose name is a key of originals to
// have exactly the original byte size. Entries without an original are
// skipped; CheckArchiveContents reports those.
func CheckArchiveSizes(entries []archivex.Entry, originals map[string]int64) error {
	var details []*errorx.Error
	for _, e := range entries {
		want, ok := originals[e.Name]
		if !ok || want == e.Size {
			continue
		}
		details = append(details, errorx.AssertionErrorf("file '%s': original size %d bytes, archive size %d bytes", e.Name, want, e.Size))
	}
	if len(details) == 0 {
		return nil
	}
	return errorx.AssertionErrorf("file size mismatch in %d entr(ies)", len(details)).WithDetails(details...)
}
