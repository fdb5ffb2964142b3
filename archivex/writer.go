package archivex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/segmentio/ksuid"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mab1k/tests-upload-zip-files/errorx"
	"github.com/mab1k/tests-upload-zip-files/loggerx"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	maxNameAttempts = 1000
)

// Archiver creates archives in one directory.
type Archiver struct {
	fs     afero.Fs
	dir    string
	now    func() time.Time
	logger *loggerx.Logger
}

type Option func(*Archiver)

// WithClock replaces time.Now as the source of archive timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Archiver) {
		a.now = now
	}
}

func NewArchiver(fs afero.Fs, dir string, logger *loggerx.Logger, opts ...Option) *Archiver {
	a := &Archiver{
		fs:     fs,
		dir:    dir,
		now:    time.Now,
		logger: logger,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Dir is the directory archives are written to.
func (a *Archiver) Dir() string {
	return a.dir
}

// Create writes every file in paths into a new archive, each under its base
// name. An archive created in the same second as an existing one gets a
// numeric suffix instead of replacing it. A partially written archive is
// removed.
func (a *Archiver) Create(ctx context.Context, paths []string) (*Archive, error) {
	if err := a.fs.MkdirAll(a.dir, dirPerm); err != nil {
		return nil, errorx.WrapSetup(err, "could not create archive directory %q", a.dir)
	}

	createdAt := a.now()
	id, err := ksuid.NewRandomWithTime(createdAt)
	if err != nil {
		return nil, errorx.WrapSetup(err, "could not generate archive id")
	}

	f, path, err := a.createExclusive(createdAt)
	if err != nil {
		return nil, err
	}

	archive := &Archive{
		Path:      path,
		ID:        id,
		CreatedAt: createdAt,
		Entries:   make([]Entry, 0, len(paths)),
	}

	if err := a.write(f, paths, archive); err != nil {
		_ = f.Close()
		_ = a.fs.Remove(path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		_ = a.fs.Remove(path)
		return nil, errorx.WrapSetup(err, "could not close archive %q", path)
	}

	a.logger.Info(ctx, "archive created",
		attribute.String("path", path),
		attribute.String("id", id.String()),
		attribute.StringSlice("entries", archive.Names()),
	)

	return archive, nil
}

func (a *Archiver) write(w io.Writer, paths []string, archive *Archive) error {
	zw := zip.NewWriter(w)
	for _, p := range paths {
		size, err := a.addFile(zw, p)
		if err != nil {
			return err
		}
		archive.Entries = append(archive.Entries, Entry{Name: filepath.Base(p), Size: size})
	}
	if err := zw.SetComment(formatComment(archive.ID, archive.CreatedAt)); err != nil {
		return errorx.WrapSetup(err, "could not set archive comment")
	}
	if err := zw.Close(); err != nil {
		return errorx.WrapSetup(err, "could not finish archive %q", archive.Path)
	}
	return nil
}

func (a *Archiver) addFile(zw *zip.Writer, path string) (int64, error) {
	src, err := a.fs.Open(path)
	if err != nil {
		return 0, errorx.WrapSetup(err, "could not open %q for archiving", path)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return 0, errorx.WrapSetup(err, "could not stat %q", path)
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return 0, errorx.WrapSetup(err, "could not build zip header for %q", path)
	}
	hdr.Name = filepath.Base(path)
	hdr.Method = zip.Deflate

	dst, err := zw.CreateHeader(hdr)
	if err != nil {
		return 0, errorx.WrapSetup(err, "could not add %q to archive", path)
	}
	n, err := io.Copy(dst, src)
	if err != nil {
		return 0, errorx.WrapSetup(err, "could not write %q to archive", path)
	}
	return n, nil
}

// createExclusive opens <dir>/<timestamp>.zip, or the first free
// <timestamp>-N.zip, without ever truncating an existing file.
func (a *Archiver) createExclusive(createdAt time.Time) (afero.File, string, error) {
	base := createdAt.Format(timestampLayout)
	for i := 0; i < maxNameAttempts; i++ {
		name := base + Extension
		if i > 0 {
			name = fmt.Sprintf("%s-%d%s", base, i, Extension)
		}
		path := filepath.Join(a.dir, name)

		f, err := a.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", errorx.WrapSetup(err, "could not create archive %q", path)
		}
	}
	return nil, "", errorx.SetupErrorf("no free archive name for %s after %d attempts", base, maxNameAttempts)
}
