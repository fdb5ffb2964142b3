// Package harness drives one upload-and-archive run and checks its outcome.
package harness

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mab1k/tests-upload-zip-files/archivex"
	"github.com/mab1k/tests-upload-zip-files/errorx"
	"github.com/mab1k/tests-upload-zip-files/httpx"
	"github.com/mab1k/tests-upload-zip-files/loggerx"
	"github.com/mab1k/tests-upload-zip-files/otelx"
	"github.com/mab1k/tests-upload-zip-files/tracex"
	"github.com/mab1k/tests-upload-zip-files/uploadx"
	"github.com/mab1k/tests-upload-zip-files/verifyx"
)

// Driver uploads a set of files and archives them.
type Driver struct {
	fs                afero.Fs
	uploadURL         string
	expectedExtension string
	uploader          *uploadx.Uploader
	archiver          *archivex.Archiver
	logger            *loggerx.Logger
	tracer            trace.Tracer
}

// DriverConfig configures a Driver. A nil Tracer records nothing.
type DriverConfig struct {
	UploadURL         string
	ExpectedExtension string
	ArchiveDirectory  string
	Tracer            trace.Tracer
}

func NewDriver(fs afero.Fs, c DriverConfig, client *httpx.Client, logger *loggerx.Logger, opts ...archivex.Option) *Driver {
	tracer := c.Tracer
	if tracer == nil {
		tracer = otelx.NewNoop(otelx.DefaultTracerName).Tracer()
	}
	return &Driver{
		fs:                fs,
		uploadURL:         c.UploadURL,
		expectedExtension: c.ExpectedExtension,
		uploader:          uploadx.NewUploader(client, c.UploadURL, logger),
		archiver:          archivex.NewArchiver(fs, c.ArchiveDirectory, logger, opts...),
		logger:            logger,
		tracer:            tracer,
	}
}

// Upload sends every file in one request, requires a 200 answer and requires
// every file name on the wire to carry the expected extension. The result is
// returned even when a check fails.
func (d *Driver) Upload(ctx context.Context, paths []string) (res *uploadx.Result, err error) {
	ctx, span := d.tracer.Start(ctx, "harness.Upload", trace.WithAttributes(
		attribute.String("upload.url", d.uploadURL),
		attribute.Int("upload.files", len(paths)),
	))
	defer func() { endSpan(span, err) }()

	files, err := d.open(ctx, paths)
	if err != nil {
		return nil, err
	}
	defer d.closeAll(ctx, files)

	parts := make([]uploadx.Part, 0, len(files))
	for _, f := range files {
		parts = append(parts, uploadx.Part{FileName: filepath.Base(f.Name()), Content: f})
	}

	res, err = d.uploader.Upload(ctx, parts)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", res.StatusCode))
	if err := verifyx.CheckStatus(d.uploadURL, res.StatusCode); err != nil {
		return res, err
	}
	if err := verifyx.CheckExtensions(res.FileNames, d.expectedExtension); err != nil {
		return res, err
	}
	return res, nil
}

// Archive writes paths into a new archive and requires it to exist.
func (d *Driver) Archive(ctx context.Context, paths []string) (archive *archivex.Archive, err error) {
	ctx, span := d.tracer.Start(ctx, "harness.Archive", trace.WithAttributes(
		attribute.String("archive.directory", d.archiver.Dir()),
	))
	defer func() { endSpan(span, err) }()

	archive, err = d.archiver.Create(ctx, paths)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("archive.path", archive.Path),
		attribute.String("archive.id", archive.ID.String()),
	)
	if err := verifyx.CheckArchiveExists(d.fs, archive.Path); err != nil {
		return nil, err
	}
	return archive, nil
}

// UploadAndArchive is Upload followed by Archive. Nothing is archived when
// the upload fails. A panic in either step is returned as an internal error.
func (d *Driver) UploadAndArchive(ctx context.Context, paths []string) (res *uploadx.Result, archive *archivex.Archive, err error) {
	ctx, span := d.tracer.Start(ctx, "harness.UploadAndArchive")
	defer func() { endSpan(span, err) }()
	defer tracex.Recover(ctx, d.logger, &err, "upload and archive panicked")

	res, err = d.Upload(ctx, paths)
	if err != nil {
		return res, nil, err
	}
	archive, err = d.Archive(ctx, paths)
	if err != nil {
		return res, nil, err
	}
	return res, archive, nil
}

func (d *Driver) open(ctx context.Context, paths []string) ([]afero.File, error) {
	files := make([]afero.File, 0, len(paths))
	for _, p := range paths {
		f, err := d.fs.Open(p)
		if err != nil {
			d.closeAll(ctx, files)
			return nil, errorx.WrapSetup(err, "could not open %q for upload", p)
		}
		files = append(files, f)
	}
	return files, nil
}

func (d *Driver) closeAll(ctx context.Context, files []afero.File) {
	for _, f := range files {
		if err := f.Close(); err != nil {
			d.logger.WithError(err).Warn(ctx, "could not close uploaded file", attribute.String("path", f.Name()))
		}
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
