package uploadx

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"

	"github.com/mab1k/tests-upload-zip-files/errorx"
)

// FieldName is the form field every file is attached under.
const FieldName = "files[]"

// Part is one file attached to the upload.
type Part struct {
	FileName string
	Content  io.Reader
}

// EncodeBody writes every part under FieldName into one multipart body and
// returns it with its Content-Type.
func EncodeBody(parts []Part) ([]byte, string, error) {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	for _, p := range parts {
		name, err := EncodeFileName(p.FileName)
		if err != nil {
			return nil, "", err
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(FieldName), name))
		h.Set("Content-Type", "application/octet-stream")

		pw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", errorx.WrapSetup(err, "could not add part for %q", p.FileName)
		}
		if _, err := io.Copy(pw, p.Content); err != nil {
			return nil, "", errorx.WrapSetup(err, "could not read %q", p.FileName)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", errorx.WrapSetup(err, "could not finish multipart body")
	}

	return body.Bytes(), w.FormDataContentType(), nil
}
