// Package uploadx sends files to the upload endpoint as one multipart request
// and reports what was actually put on the wire.
package uploadx

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mab1k/tests-upload-zip-files/errorx"
	"github.com/mab1k/tests-upload-zip-files/httpx"
	"github.com/mab1k/tests-upload-zip-files/loggerx"
)

// Result describes one upload. FileNames come from the encoded request
// body, not from anything the server said.
type Result struct {
	StatusCode   int
	FileNames    []string
	RequestBody  []byte
	ResponseBody []byte
	Duration     time.Duration
}

type Uploader struct {
	client *httpx.Client
	url    string
	logger *loggerx.Logger
}

func NewUploader(client *httpx.Client, url string, logger *loggerx.Logger) *Uploader {
	return &Uploader{
		client: client,
		url:    url,
		logger: logger.WithFields(attribute.String("url", url)),
	}
}

// Upload sends every part in a single POST. It is attempted exactly once. A
// non-200 status is not an error here; callers decide what status they need.
func (u *Uploader) Upload(ctx context.Context, parts []Part) (*Result, error) {
	body, contentType, err := EncodeBody(parts)
	if err != nil {
		return nil, err
	}

	u.logger.Debug(ctx, "sending upload request",
		attribute.Int("parts", len(parts)),
		attribute.Int("body_bytes", len(body)),
	)

	res, err := u.client.MakeHTTPRequest(ctx, &httpx.Request{
		Method:  http.MethodPost,
		URL:     u.url,
		Body:    body,
		Headers: http.Header{"Content-Type": {contentType}},
	})
	if err != nil {
		return nil, errorx.WrapSetup(err, "upload request to %s failed", u.url)
	}

	names, err := RecoverFileNames(res.RequestBody)
	if err != nil {
		return nil, err
	}

	u.logger.Info(ctx, "upload request finished",
		attribute.Int("status", res.StatusCode),
		attribute.StringSlice("file_names", names),
		attribute.Int64("duration_ms", res.Duration.Milliseconds()),
	)

	return &Result{
		StatusCode:   res.StatusCode,
		FileNames:    names,
		RequestBody:  res.RequestBody,
		ResponseBody: res.Body,
		Duration:     res.Duration,
	}, nil
}
