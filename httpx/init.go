package httpx

import (
	"crypto/tls"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Client struct {
	httpClient *http.Client
	transport  *http.Transport
}

// NewClientWithOptions creates a configurable HTTP Client
func NewClientWithOptions(options ...Option) *Client {
	client := &Client{
		transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{},
		},
	}

	client.httpClient = &http.Client{Timeout: httpClientDefaultTimeout}

	for _, opt := range options {
		opt(client)
	}

	client.httpClient.Transport = client.transport

	return client
}

// CloseIdleConnections closes connections kept alive by the transport.
func (c *Client) CloseIdleConnections() {
	c.transport.CloseIdleConnections()
}
