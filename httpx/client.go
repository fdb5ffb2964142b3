package httpx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

func (c *Client) MakeHTTPRequest(ctx context.Context, input *Request) (*Response, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var body io.Reader
	if input.Body != nil {
		body = bytes.NewReader(input.Body)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, input.Method, input.URL, body)
	if err != nil {
		return nil, err
	}

	if input.Headers != nil {
		httpRequest.Header = input.Headers.Clone()
	}

	startTime := time.Now()

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return nil, err
	}

	defer httpResponse.Body.Close()

	responseBody, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode:  httpResponse.StatusCode,
		Body:        responseBody,
		Headers:     httpResponse.Header,
		Duration:    time.Since(startTime),
		RequestBody: input.Body,
	}, nil
}
