package verifyx

import (
	"net/http"

	"github.com/mab1k/tests-upload-zip-files/errorx"
)

// CheckStatus requires exactly 200 OK.
func CheckStatus(url string, statusCode int) error {
	if statusCode != http.StatusOK {
		return errorx.AssertionErrorf("upload request to %s returned status %d, expected %d", url, statusCode, http.StatusOK)
	}
	return nil
}
