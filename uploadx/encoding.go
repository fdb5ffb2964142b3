package uploadx

import (
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/mab1k/tests-upload-zip-files/errorx"
)

// filenameCharset is the code page the upload server reads part filenames
// in. Filenames are written with it and recovered with it. It must stay
// fixed: decoding with anything else silently garbles non-ASCII names.
var filenameCharset = charmap.Windows1251

var (
	filenamePattern = regexp.MustCompile(`filename="((?:[^"\\]|\\.)*)"`)

	quoteEscaper   = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
	quoteUnescaper = strings.NewReplacer("\\\\", "\\", "\\\"", `"`)
)

// EncodeFileName returns name as Windows-1251 bytes, quoted for a
// Content-Disposition parameter.
func EncodeFileName(name string) (string, error) {
	encoded, err := filenameCharset.NewEncoder().String(name)
	if err != nil {
		return "", errorx.WrapSetup(err, "file name %q cannot be encoded as windows-1251", name)
	}
	return quoteEscaper.Replace(encoded), nil
}

// DecodeFileName turns raw Windows-1251 filename bytes back into a string.
func DecodeFileName(raw string) (string, error) {
	name, err := filenameCharset.NewDecoder().String(raw)
	if err != nil {
		return "", errorx.WrapSetup(err, "file name %q is not windows-1251", raw)
	}
	return name, nil
}

// RecoverFileNames decodes an encoded multipart body as Windows-1251 and
// returns every filename="..." value it carries, in order.
func RecoverFileNames(body []byte) ([]string, error) {
	decoded, err := filenameCharset.NewDecoder().Bytes(body)
	if err != nil {
		return nil, errorx.WrapSetup(err, "could not decode request body as windows-1251")
	}

	matches := filenamePattern.FindAllSubmatch(decoded, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, quoteUnescaper.Replace(string(m[1])))
	}
	return names, nil
}
