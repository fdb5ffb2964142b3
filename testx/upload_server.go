package testx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mab1k/tests-upload-zip-files/uploadx"
)

// UploadServer is an in-process stand-in for the upload endpoint. It parses
// every multipart request it gets and keeps what it received.
type UploadServer struct {
	*httptest.Server

	m        sync.RWMutex
	status   int
	tls      bool
	received []FormData
}

type UploadServerOption func(*UploadServer)

// WithStatus makes the server answer every upload with code.
func WithStatus(code int) UploadServerOption {
	return func(s *UploadServer) {
		s.status = code
	}
}

// WithTLS serves HTTPS with a self-signed certificate.
func WithTLS() UploadServerOption {
	return func(s *UploadServer) {
		s.tls = true
	}
}

// NewUploadServer starts a server that is closed when t finishes.
func NewUploadServer(t testing.TB, opts ...UploadServerOption) *UploadServer {
	t.Helper()
	s := &UploadServer{status: http.StatusOK}
	for _, o := range opts {
		o(s)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", s.handleUpload)
	if s.tls {
		s.Server = httptest.NewTLSServer(mux)
	} else {
		s.Server = httptest.NewServer(mux)
	}
	t.Cleanup(s.Close)
	return s
}

// UploadURL is the address of the upload endpoint.
func (s *UploadServer) UploadURL() string {
	return s.URL + "/upload"
}

// SetStatus changes the status code of subsequent answers.
func (s *UploadServer) SetStatus(code int) {
	s.m.Lock()
	defer s.m.Unlock()
	s.status = code
}

// Received returns a copy of every request parsed so far.
func (s *UploadServer) Received() []FormData {
	s.m.RLock()
	defer s.m.RUnlock()
	out := make([]FormData, len(s.received))
	copy(out, s.received)
	return out
}

func (s *UploadServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	form := FormData{Fields: map[string]string{}}
	for {
		p, err := mr.NextRawPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		content, err := io.ReadAll(p)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if p.FileName() == "" {
			form.Fields[p.FormName()] = string(content)
			continue
		}
		name, err := uploadx.DecodeFileName(p.FileName())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		form.Files = append(form.Files, FileToUpload{
			FieldName: p.FormName(),
			FileName:  name,
			Content:   content,
		})
	}

	s.m.Lock()
	s.received = append(s.received, form)
	status := s.status
	s.m.Unlock()

	w.WriteHeader(status)
	_, _ = io.WriteString(w, http.StatusText(status))
}
