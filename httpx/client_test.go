package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type HTTPClientTestSuite struct {
	suite.Suite
	testServer *httptest.Server
	client     *Client
}

func TestHTTPClientTestSuite(t *testing.T) {
	suite.Run(t, new(HTTPClientTestSuite))
}

func (s *HTTPClientTestSuite) SetupSuite() {
	mux := http.NewServeMux()
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		fmt.Fprintf(w, "%s %s", r.Method, body)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	mux.HandleFunc("/teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	s.testServer = httptest.NewServer(mux)

	s.client = NewClientWithOptions()
}

func (s *HTTPClientTestSuite) TearDownSuite() {
	s.client.CloseIdleConnections()
	s.testServer.Close()
}

func (s *HTTPClientTestSuite) TestMakeHTTPRequest_InvalidRequest() {
	ctx := context.Background()

	_, err := s.client.MakeHTTPRequest(ctx, &Request{
		URL: s.testServer.URL,
	})

	s.Assert().Error(err)
}

func (s *HTTPClientTestSuite) TestMakeHTTPRequest_SuccessfulHTTPRequest() {
	ctx := context.Background()

	request := &Request{
		Method: http.MethodGet,
		URL:    s.testServer.URL + "/echo",
	}

	response, err := s.client.MakeHTTPRequest(ctx, request)
	if err != nil {
		s.FailNow("unable to make http request to the test server: ", err)
		return
	}

	s.Assert().Equal(http.StatusOK, response.StatusCode)
	s.Assert().Equal("GET ", string(response.Body))
	s.Assert().Nil(response.RequestBody)
}

func (s *HTTPClientTestSuite) TestMakeHTTPRequest_SendsBodyAndHeaders() {
	ctx := context.Background()

	body := []byte("--boundary--")
	response, err := s.client.MakeHTTPRequest(ctx, &Request{
		Method:  http.MethodPost,
		URL:     s.testServer.URL + "/echo",
		Body:    body,
		Headers: http.Header{"Content-Type": {"multipart/form-data; boundary=boundary"}},
	})
	s.Require().NoError(err)

	s.Assert().Equal("POST --boundary--", string(response.Body))
	s.Assert().Equal("multipart/form-data; boundary=boundary", response.Headers.Get("X-Content-Type"))
	s.Assert().Equal(body, response.RequestBody)
	s.Assert().Positive(response.Duration)
}

func (s *HTTPClientTestSuite) TestMakeHTTPRequest_ReturnsNonOKStatus() {
	response, err := s.client.MakeHTTPRequest(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    s.testServer.URL + "/teapot",
	})
	s.Require().NoError(err)
	s.Assert().Equal(http.StatusTeapot, response.StatusCode)
}

func (s *HTTPClientTestSuite) TestMakeHTTPRequest_Timeout() {
	client := NewClientWithOptions(WithTimeout(50 * time.Millisecond))
	defer client.CloseIdleConnections()

	_, err := client.MakeHTTPRequest(context.Background(), &Request{
		Method: http.MethodGet,
		URL:    s.testServer.URL + "/slow",
	})
	s.Assert().Error(err)
}

func (s *HTTPClientTestSuite) TestMakeHTTPRequest_ContextCanceled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.client.MakeHTTPRequest(ctx, &Request{
		Method: http.MethodGet,
		URL:    s.testServer.URL + "/echo",
	})
	s.Assert().ErrorIs(err, context.Canceled)
}

func (s *HTTPClientTestSuite) TestMakeHTTPRequest_SelfSignedCertificate() {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	request := &Request{Method: http.MethodPost, URL: server.URL}

	strict := NewClientWithOptions(WithTimeout(5 * time.Second))
	defer strict.CloseIdleConnections()
	_, err := strict.MakeHTTPRequest(context.Background(), request)
	s.Assert().Error(err)

	insecure := NewClientWithOptions(WithTimeout(5*time.Second), WithSkipTLSVerification())
	defer insecure.CloseIdleConnections()
	response, err := insecure.MakeHTTPRequest(context.Background(), request)
	s.Require().NoError(err)
	s.Assert().Equal(http.StatusOK, response.StatusCode)
}
