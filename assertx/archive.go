package assertx

import (
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mab1k/tests-upload-zip-files/archivex"
)

// ArchiveHolds asserts that the archive at path holds exactly the entries in
// want, keyed by name, with matching content.
func ArchiveHolds(t require.TestingT, fs afero.Fs, path string, want map[string]string) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	archive, err := archivex.Read(fs, path)
	require.NoError(t, err)

	got := make(map[string]string, len(archive.Entries))
	for _, e := range archive.Entries {
		content, err := archivex.ReadEntryContent(fs, path, e.Name)
		require.NoError(t, err)
		if !assert.EqualValues(t, len(content), e.Size, "size of %s", e.Name) {
			return false
		}
		got[e.Name] = string(content)
	}
	return Equal(t, want, got)
}
