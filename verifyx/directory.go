package verifyx

import (
	"strings"

	"github.com/spf13/afero"

	"github.com/mab1k/tests-upload-zip-files/archivex"
	"github.com/mab1k/tests-upload-zip-files/errorx"
)

// CheckArchiveDirectory requires every file in dir to be a .zip archive and
// at least one archive to be present. Archives left by earlier runs count.
func CheckArchiveDirectory(fs afero.Fs, dir string) error {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return errorx.WrapSetup(err, "could not list archive directory %q", dir)
	}

	var (
		details  []*errorx.Error
		archives int
	)
	for _, info := range infos {
		if strings.HasSuffix(info.Name(), archivex.Extension) {
			archives++
			continue
		}
		details = append(details, errorx.AssertionErrorf("%s is not a ZIP archive", info.Name()))
	}
	if archives == 0 {
		details = append(details, errorx.AssertionErrorf("no ZIP archives found"))
	}
	if len(details) == 0 {
		return nil
	}
	return errorx.AssertionErrorf("archive directory %s should only contain ZIP archives", dir).WithDetails(details...)
}
