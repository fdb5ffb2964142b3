package harness

import (
	"io"

	"github.com/mab1k/tests-upload-zip-files/configx"
	"github.com/mab1k/tests-upload-zip-files/httpx"
	"github.com/mab1k/tests-upload-zip-files/otelx"
)

const serviceName = "uploadzip"

// NewClient builds the HTTP client the upload request is sent with.
func NewClient(c configx.Config) *httpx.Client {
	opts := []httpx.Option{httpx.WithTimeout(c.UploadTimeout)}
	if c.InsecureSkipVerify {
		opts = append(opts, httpx.WithSkipTLSVerification())
	}
	return httpx.NewClientWithOptions(opts...)
}

// TracerConfig maps the tracing keys of c. A nil out prints spans to stdout.
func TracerConfig(c configx.Config, out io.Writer) *otelx.TracerConfig {
	return &otelx.TracerConfig{
		ServiceName:   serviceName,
		Provider:      c.TracerProvider,
		SamplingRatio: c.TracerSamplingRatio,
		Stdout: otelx.StdoutConfig{
			Pretty: c.TracerPretty,
			Output: out,
		},
	}
}
