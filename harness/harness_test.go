package harness

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/mab1k/tests-upload-zip-files/archivex"
	"github.com/mab1k/tests-upload-zip-files/assertx"
	"github.com/mab1k/tests-upload-zip-files/configx"
	"github.com/mab1k/tests-upload-zip-files/errorx"
	"github.com/mab1k/tests-upload-zip-files/fixturex"
	"github.com/mab1k/tests-upload-zip-files/httpx"
	loggerxtest "github.com/mab1k/tests-upload-zip-files/loggerx/test"
	"github.com/mab1k/tests-upload-zip-files/testx"
	"github.com/mab1k/tests-upload-zip-files/verifyx"
)

func writeConfig(t *testing.T, dir string, values map[string]interface{}) string {
	t.Helper()
	raw, err := json.Marshal(values)
	require.NoError(t, err)
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

// TestUploadArchiveSuite runs the suite against an in-process upload server.
func TestUploadArchiveSuite(t *testing.T) {
	srv := testx.NewUploadServer(t)
	dir := t.TempDir()
	zipDir := filepath.Join(dir, "archives")
	names := []string{"report.docx", "отчёт.docx"}

	configPath := writeConfig(t, dir, map[string]interface{}{
		configx.KeyTestFiles:         names,
		configx.KeyUploadURL:         srv.UploadURL(),
		configx.KeyExpectedExtension: ".docx",
		configx.KeyZipFileDirectory:  zipDir,
		configx.KeyUploadTimeout:     "5s",
	})

	s := &UploadArchiveSuite{
		ConfigPath:    configPath,
		ConfigOptions: []configx.OptionModifier{configx.DisableEnvLoading()},
		WorkDir:       dir,
		Fs:            afero.NewOsFs(),
		Logger:        loggerxtest.NewTestLogger(t),
	}
	t.Run("suite", func(t *testing.T) {
		suite.Run(t, s)
	})

	received := srv.Received()
	require.Len(t, received, 2)
	for _, form := range received {
		assert.Equal(t, names, form.FileNames())
	}

	require.NotNil(t, s.Archive())
	assertx.ArchiveHolds(t, afero.NewOsFs(), s.Archive().Path, map[string]string{
		"report.docx": string(fixturex.Content("report.docx")),
		"отчёт.docx":  string(fixturex.Content("отчёт.docx")),
	})

	for _, name := range names {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.ErrorIs(t, err, os.ErrNotExist, "%s should be removed after the run", name)
	}
}

// TestLiveUploadArchiveSuite runs the suite against the endpoint named by the
// config file in UPLOADZIP_CONFIG.
func TestLiveUploadArchiveSuite(t *testing.T) {
	if os.Getenv(configx.EnvConfigPath) == "" {
		t.Skipf("%s is not set", configx.EnvConfigPath)
	}
	suite.Run(t, new(UploadArchiveSuite))
}

type DriverTestSuite struct {
	suite.Suite
	server *testx.UploadServer
	client *httpx.Client
	fs     afero.Fs
	now    time.Time
}

func TestDriverTestSuite(t *testing.T) {
	suite.Run(t, new(DriverTestSuite))
}

func (s *DriverTestSuite) SetupSuite() {
	s.server = testx.NewUploadServer(s.T())
	s.client = httpx.NewClientWithOptions(httpx.WithTimeout(5 * time.Second))
	s.T().Cleanup(s.client.CloseIdleConnections)
}

func (s *DriverTestSuite) SetupTest() {
	s.server.SetStatus(http.StatusOK)
	s.fs = afero.NewMemMapFs()
	s.now = time.Date(2025, 3, 24, 12, 15, 32, 0, time.UTC)
}

func (s *DriverTestSuite) driver(extension string) *Driver {
	return NewDriver(s.fs, DriverConfig{
		UploadURL:         s.server.UploadURL(),
		ExpectedExtension: extension,
		ArchiveDirectory:  "archives",
	}, s.client, loggerxtest.NewTestLogger(s.T()), archivex.WithClock(func() time.Time { return s.now }))
}

func (s *DriverTestSuite) generate(names ...string) *fixturex.Files {
	return fixturex.GenerateT(s.T(), s.fs, "work", names)
}

func (s *DriverTestSuite) TestUploadAndArchive_RoundTrip() {
	files := s.generate("a.docx", "b.docx")

	res, archive, err := s.driver(".docx").UploadAndArchive(context.Background(), files.Paths())
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)
	s.Equal([]string{"a.docx", "b.docx"}, res.FileNames)
	s.Equal(filepath.Join("archives", "20250324-121532.zip"), archive.Path)

	read, err := archivex.Read(s.fs, archive.Path)
	s.Require().NoError(err)
	sizes, err := files.Sizes()
	s.Require().NoError(err)

	assertx.Passes(s.T(), verifyx.CheckArchiveContents(read.Entries, []string{"a.docx", "b.docx"}))
	assertx.Passes(s.T(), verifyx.CheckArchiveSizes(read.Entries, sizes))
	assertx.Passes(s.T(), verifyx.CheckArchiveDirectory(s.fs, "archives"))
	assertx.ArchiveHolds(s.T(), s.fs, archive.Path, map[string]string{
		"a.docx": "This is a test file: a.docx.",
		"b.docx": "This is a test file: b.docx.",
	})
}

func (s *DriverTestSuite) TestUpload_NamesOnlyTheWrongExtension() {
	files := s.generate("a.docx", "legacy.doc")

	res, _, err := s.driver(".docx").UploadAndArchive(context.Background(), files.Paths())
	s.Require().Error(err)
	s.Require().NotNil(res)
	assertx.FailsWith(s.T(), err, errorx.ErrorTypeAssertion, "legacy.doc")

	e, ok := errorx.IsError(err)
	s.Require().True(ok)
	s.Len(e.Details, 1)
	s.NotContains(e.Error(), "a.docx")

	exists, err := afero.DirExists(s.fs, "archives")
	s.Require().NoError(err)
	s.False(exists, "nothing should be archived after a failed upload")
}

func (s *DriverTestSuite) TestUpload_Non200IsAssertionFailure() {
	s.server.SetStatus(http.StatusInternalServerError)
	files := s.generate("a.docx")

	res, archive, err := s.driver(".docx").UploadAndArchive(context.Background(), files.Paths())
	s.Require().Error(err)
	s.True(errorx.IsAssertionError(err))
	s.Contains(err.Error(), "500")
	s.Equal(http.StatusInternalServerError, res.StatusCode)
	s.Nil(archive)
}

func (s *DriverTestSuite) TestUpload_MissingFileIsSetupError() {
	before := len(s.server.Received())
	files := s.generate("a.docx")

	_, err := s.driver(".docx").Upload(context.Background(), append(files.Paths(), "work/missing.docx"))
	s.Require().Error(err)
	s.True(errorx.IsSetupError(err))
	s.Len(s.server.Received(), before)
}

func (s *DriverTestSuite) TestArchive_SameSecondRunsKeepBothArchives() {
	files := s.generate("a.docx")
	d := s.driver(".docx")

	first, err := d.Archive(context.Background(), files.Paths())
	s.Require().NoError(err)
	second, err := d.Archive(context.Background(), files.Paths())
	s.Require().NoError(err)

	s.Equal(filepath.Join("archives", "20250324-121532.zip"), first.Path)
	s.Equal(filepath.Join("archives", "20250324-121532-1.zip"), second.Path)
	s.NotEqual(first.ID, second.ID)
	assertx.Passes(s.T(), verifyx.CheckArchiveDirectory(s.fs, "archives"))
}

func (s *DriverTestSuite) TestArchiveDirectory_NamesStrayFile() {
	files := s.generate("a.docx")

	_, err := s.driver(".docx").Archive(context.Background(), files.Paths())
	s.Require().NoError(err)
	s.Require().NoError(afero.WriteFile(s.fs, filepath.Join("archives", "notes.txt"), []byte("stray"), 0o644))

	err = verifyx.CheckArchiveDirectory(s.fs, "archives")
	assertx.FailsWith(s.T(), err, errorx.ErrorTypeAssertion, "notes.txt")
}

type panickingFs struct {
	afero.Fs
}

func (panickingFs) Open(string) (afero.File, error) {
	panic("disk on fire")
}

func (s *DriverTestSuite) TestUploadAndArchive_PanicIsInternalError() {
	d := NewDriver(panickingFs{s.fs}, DriverConfig{
		UploadURL:         s.server.UploadURL(),
		ExpectedExtension: ".docx",
		ArchiveDirectory:  "archives",
	}, s.client, loggerxtest.NewTestLogger(s.T()))

	_, archive, err := d.UploadAndArchive(context.Background(), []string{"work/a.docx"})
	s.Require().Error(err)
	s.True(errorx.IsInternalError(err))
	s.Contains(err.Error(), "disk on fire")
	s.Nil(archive)
}

func (s *DriverTestSuite) TestUploadAndArchive_RecordsSpans() {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	s.T().Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	s.server.SetStatus(http.StatusTeapot)
	files := s.generate("a.docx")
	d := NewDriver(s.fs, DriverConfig{
		UploadURL:         s.server.UploadURL(),
		ExpectedExtension: ".docx",
		ArchiveDirectory:  "archives",
		Tracer:            tp.Tracer("harness"),
	}, s.client, loggerxtest.NewTestLogger(s.T()))

	_, _, err := d.UploadAndArchive(context.Background(), files.Paths())
	s.Require().Error(err)

	ended := recorder.Ended()
	s.Require().Len(ended, 2)
	s.Equal("harness.Upload", ended[0].Name())
	s.Equal(codes.Error, ended[0].Status().Code)
	s.Equal("harness.UploadAndArchive", ended[1].Name())
	s.Equal(ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
}

func (s *DriverTestSuite) TestUploadAndArchive_RepeatedNamePassesContents() {
	names := []string{"a.docx", "a.docx", "b.docx"}
	files := s.generate(names...)

	_, archive, err := s.driver(".docx").UploadAndArchive(context.Background(), files.Paths())
	s.Require().NoError(err)

	read, err := archivex.Read(s.fs, archive.Path)
	s.Require().NoError(err)
	s.Len(read.Entries, 3)
	assertx.Passes(s.T(), verifyx.CheckArchiveContents(read.Entries, names))
}
