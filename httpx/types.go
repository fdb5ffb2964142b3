package httpx

import (
	"net/http"
	"time"
)

const httpClientDefaultTimeout = 60 * time.Second

// Request is the input parameters that will need to be sent with an HTTP request
type Request struct {
	Method  string `validate:"required"`
	URL     string `validate:"required,url"`
	Body    []byte
	Headers http.Header
}

// Validate validates if the struct contains the required entities or not
func (r *Request) Validate() error {
	return validate.Struct(r)
}

// Response struct will contain the entities returned with the HTTP response.
// RequestBody holds the exact bytes that were sent.
type Response struct {
	StatusCode  int
	Body        []byte
	Headers     http.Header
	Duration    time.Duration
	RequestBody []byte
}
