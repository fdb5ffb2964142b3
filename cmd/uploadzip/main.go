// Command uploadzip runs one upload-and-archive pass outside go test and
// prints a report of every check.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/inhies/go-bytesize"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mab1k/tests-upload-zip-files/archivex"
	"github.com/mab1k/tests-upload-zip-files/configx"
	"github.com/mab1k/tests-upload-zip-files/fixturex"
	"github.com/mab1k/tests-upload-zip-files/harness"
	"github.com/mab1k/tests-upload-zip-files/loggerx"
	"github.com/mab1k/tests-upload-zip-files/otelx"
	"github.com/mab1k/tests-upload-zip-files/verifyx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, afero.NewOsFs(), os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type check struct {
	name string
	err  error
}

func newFlagSet(output io.Writer) *pflag.FlagSet {
	flags := pflag.NewFlagSet("uploadzip", pflag.ContinueOnError)
	flags.SetOutput(output)
	flags.String("config", configx.PathFromEnv(), "path to the config file (json, yaml or toml)")
	flags.String("workdir", ".", "directory the test files are generated in")
	flags.StringSlice("test-files", nil, "names of the files to generate and upload")
	flags.String("upload-url", "", "upload endpoint")
	flags.String("expected-extension", "", "extension every uploaded file must have, dot included")
	flags.String("zip-file-directory", "", "directory archives are written to")
	flags.Duration("upload-timeout", configx.DefaultUploadTimeout, "timeout of the upload request")
	flags.Bool("insecure-skip-verify", false, "accept any TLS certificate from the upload endpoint")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-format", "", "text or json")
	flags.String("tracer-provider", "", "empty for no tracing, or stdout to print spans to stderr")
	flags.Float64("tracer-sampling-ratio", 0, "fraction of runs to trace, 0 traces every run")
	flags.Bool("tracer-pretty", false, "indent printed spans")
	return flags
}

func run(ctx context.Context, fs afero.Fs, args []string, stdout, stderr io.Writer) int {
	flags := newFlagSet(stderr)
	if err := flags.Parse(args); err != nil {
		return 2
	}
	configPath, _ := flags.GetString("config")
	workDir, _ := flags.GetString("workdir")

	config, err := configx.Load(configPath, configx.WithFlags(flags))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	logger := loggerx.New(
		loggerx.WithLevel(config.LogLevel),
		loggerx.WithFormat(config.LogFormat),
		loggerx.WithOutput(stderr),
	)
	ctx = loggerx.WithContextFields(ctx, attribute.String("config", configPath))

	tracer, err := otelx.New(ctx, "", logger, harness.TracerConfig(config, stderr))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Warn(ctx, "could not flush spans")
		}
	}()

	files, err := fixturex.Generate(fs, workDir, config.TestFiles())
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	defer func() {
		if err := files.Remove(); err != nil {
			logger.WithError(err).Warn(ctx, "could not remove test files")
		}
	}()

	client := harness.NewClient(config)
	defer client.CloseIdleConnections()

	driver := harness.NewDriver(fs, harness.DriverConfig{
		UploadURL:         config.UploadURL,
		ExpectedExtension: config.ExpectedExtension,
		ArchiveDirectory:  config.ZipFileDirectory,
		Tracer:            tracer.Tracer(),
	}, client, logger)

	checks := []check{}
	_, archive, err := driver.UploadAndArchive(ctx, files.Paths())
	checks = append(checks, check{name: "upload and archive", err: err})
	if err == nil {
		checks = append(checks, verifyRun(ctx, fs, driver, config, files, archive)...)
	}

	report(stdout, files, archive, checks)

	for _, c := range checks {
		if c.err != nil {
			return 1
		}
	}
	return 0
}

// verifyRun runs the checks that need a finished upload and archive, in
// report order.
func verifyRun(ctx context.Context, fs afero.Fs, driver *harness.Driver, config configx.Config, files *fixturex.Files, archive *archivex.Archive) []check {
	_, err := driver.Upload(ctx, files.Paths())
	checks := []check{
		{name: "server request", err: err},
		{name: "archive creation", err: checkArchiveCreation(ctx, driver, config, files)},
	}

	read, err := archivex.Read(fs, archive.Path)
	if err != nil {
		return append(checks, check{name: "read archive", err: err})
	}
	sizes, err := files.Sizes()
	if err != nil {
		return append(checks, check{name: "archive file sizes", err: err})
	}
	return append(checks,
		check{name: "archive contents", err: verifyx.CheckArchiveContents(read.Entries, config.TestFiles())},
		check{name: "archive file sizes", err: verifyx.CheckArchiveSizes(read.Entries, sizes)},
		check{name: "archive directory", err: verifyx.CheckArchiveDirectory(fs, config.ZipFileDirectory)},
	)
}

// checkArchiveCreation archives only the files with the expected extension
// and requires nothing else to end up in the archive.
func checkArchiveCreation(ctx context.Context, driver *harness.Driver, config configx.Config, files *fixturex.Files) error {
	paths := verifyx.FilterByExtension(files.Paths(), config.ExpectedExtension)
	archive, err := driver.Archive(ctx, paths)
	if err != nil {
		return err
	}
	return verifyx.CheckArchiveOnlyExtension(archive.Entries, config.ExpectedExtension)
}

func report(w io.Writer, files *fixturex.Files, archive *archivex.Archive, checks []check) {
	fmt.Fprintln(w, "files:")
	for _, f := range files.All() {
		fmt.Fprintf(w, "  %-40s %s\n", f.Name, bytesize.New(float64(f.Size())))
	}
	if archive != nil {
		fmt.Fprintf(w, "archive: %s (id %s)\n", archive.Path, archive.ID)
		for _, e := range archive.Entries {
			fmt.Fprintf(w, "  %-40s %s\n", e.Name, bytesize.New(float64(e.Size)))
		}
	}
	fmt.Fprintln(w, "checks:")
	for _, c := range checks {
		if c.err == nil {
			fmt.Fprintf(w, "  PASS %s\n", c.name)
			continue
		}
		fmt.Fprintf(w, "  FAIL %s: %v\n", c.name, c.err)
	}
}
