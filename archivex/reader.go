package archivex

import (
	"io"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"

	"github.com/mab1k/tests-upload-zip-files/errorx"
)

// Exists reports whether an archive file is present at path.
func Exists(fs afero.Fs, path string) (bool, error) {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return false, errorx.WrapSetup(err, "could not check archive %q", path)
	}
	return ok, nil
}

// Read opens the archive at path and lists its entries.
func Read(fs afero.Fs, path string) (*Archive, error) {
	zr, f, err := openZip(fs, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	id, createdAt := parseComment(zr.Comment)
	archive := &Archive{
		Path:      path,
		ID:        id,
		CreatedAt: createdAt,
		Entries:   make([]Entry, 0, len(zr.File)),
	}
	for _, zf := range zr.File {
		archive.Entries = append(archive.Entries, Entry{
			Name: zf.Name,
			Size: int64(zf.UncompressedSize64),
		})
	}
	return archive, nil
}

// ReadEntryContent returns the uncompressed bytes of the entry called name.
func ReadEntryContent(fs afero.Fs, path, name string) ([]byte, error) {
	zr, f, err := openZip(fs, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for _, zf := range zr.File {
		if zf.Name != name {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, errorx.WrapSetup(err, "could not open entry %q in %q", name, path)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, errorx.WrapSetup(err, "could not read entry %q in %q", name, path)
		}
		return data, nil
	}
	return nil, errorx.SetupErrorf("archive %q has no entry %q", path, name)
}

func openZip(fs afero.Fs, path string) (*zip.Reader, afero.File, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, nil, errorx.WrapSetup(err, "could not open archive %q", path)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, errorx.WrapSetup(err, "could not stat archive %q", path)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		_ = f.Close()
		return nil, nil, errorx.WrapSetup(err, "could not read archive %q", path)
	}
	return zr, f, nil
}
