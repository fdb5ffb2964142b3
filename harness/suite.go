package harness

import (
	"context"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mab1k/tests-upload-zip-files/archivex"
	"github.com/mab1k/tests-upload-zip-files/assertx"
	"github.com/mab1k/tests-upload-zip-files/configx"
	"github.com/mab1k/tests-upload-zip-files/fixturex"
	"github.com/mab1k/tests-upload-zip-files/loggerx"
	"github.com/mab1k/tests-upload-zip-files/otelx"
	"github.com/mab1k/tests-upload-zip-files/verifyx"
)

// UploadArchiveSuite runs the upload once in SetupSuite and then checks the
// request, the archive and the archive directory in independent cases. Any
// failure in SetupSuite fails every case.
//
// Zero values select config from UPLOADZIP_CONFIG, the OS filesystem and the
// current directory for generated files.
type UploadArchiveSuite struct {
	suite.Suite

	ConfigPath     string
	ConfigOptions  []configx.OptionModifier
	WorkDir        string
	Fs             afero.Fs
	Logger         *loggerx.Logger
	ArchiveOptions []archivex.Option

	config  configx.Config
	files   *fixturex.Files
	driver  *Driver
	archive *archivex.Archive
}

func (s *UploadArchiveSuite) SetupSuite() {
	if s.ConfigPath == "" {
		s.ConfigPath = configx.PathFromEnv()
	}
	if s.Fs == nil {
		s.Fs = afero.NewOsFs()
	}
	if s.WorkDir == "" {
		s.WorkDir = "."
	}

	config, err := configx.Load(s.ConfigPath, s.ConfigOptions...)
	s.Require().NoError(err)
	s.config = config

	if s.Logger == nil {
		s.Logger = loggerx.New(loggerx.WithLevel(config.LogLevel), loggerx.WithFormat(config.LogFormat))
	}

	ctx := s.caseContext()
	tracer, err := otelx.New(ctx, "", s.Logger, TracerConfig(config, nil))
	s.Require().NoError(err)
	s.T().Cleanup(func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			s.Logger.WithError(err).Warn(ctx, "could not flush spans")
		}
	})

	client := NewClient(config)
	s.T().Cleanup(client.CloseIdleConnections)

	s.files = fixturex.GenerateT(s.T(), s.Fs, s.WorkDir, config.TestFiles())
	s.driver = NewDriver(s.Fs, DriverConfig{
		UploadURL:         config.UploadURL,
		ExpectedExtension: config.ExpectedExtension,
		ArchiveDirectory:  config.ZipFileDirectory,
		Tracer:            tracer.Tracer(),
	}, client, s.Logger, s.ArchiveOptions...)

	_, archive, err := s.driver.UploadAndArchive(ctx, s.files.Paths())
	s.Require().NoError(err)
	s.archive = archive
}

func (s *UploadArchiveSuite) caseContext() context.Context {
	return loggerx.WithContextFields(context.Background(), attribute.String("case", s.T().Name()))
}

// Archive is the archive built in SetupSuite.
func (s *UploadArchiveSuite) Archive() *archivex.Archive {
	return s.archive
}

func (s *UploadArchiveSuite) TestServerRequest() {
	_, err := s.driver.Upload(s.caseContext(), s.files.Paths())
	assertx.Passes(s.T(), err)
}

func (s *UploadArchiveSuite) TestArchiveCreation() {
	paths := verifyx.FilterByExtension(s.files.Paths(), s.config.ExpectedExtension)

	archive, err := s.driver.Archive(s.caseContext(), paths)
	s.Require().NoError(err)
	assertx.Passes(s.T(), verifyx.CheckArchiveOnlyExtension(archive.Entries, s.config.ExpectedExtension))
}

func (s *UploadArchiveSuite) TestArchiveContents() {
	read, err := archivex.Read(s.Fs, s.archive.Path)
	s.Require().NoError(err)
	assertx.Passes(s.T(), verifyx.CheckArchiveContents(read.Entries, s.config.TestFiles()))
}

func (s *UploadArchiveSuite) TestArchiveFileSizes() {
	read, err := archivex.Read(s.Fs, s.archive.Path)
	s.Require().NoError(err)
	sizes, err := s.files.Sizes()
	s.Require().NoError(err)
	assertx.Passes(s.T(), verifyx.CheckArchiveSizes(read.Entries, sizes))
}

func (s *UploadArchiveSuite) TestArchiveDirectoryHygiene() {
	assertx.Passes(s.T(), verifyx.CheckArchiveDirectory(s.Fs, s.config.ZipFileDirectory))
}
