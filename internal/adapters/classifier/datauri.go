// internal/adapters/classifier/datauri.go
package classifier

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/ammerola/pantry-be/internal/core/domain"
)

// IsDataURI reports whether src is an RFC 2397 data URI.
func IsDataURI(src string) bool {
	return strings.HasPrefix(strings.ToLower(src), "data:")
}

// EncodeDataURI renders bytes as a base64 data URI.
func EncodeDataURI(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI returns the payload and media type of a data URI. The media
// type defaults to text/plain as RFC 2397 specifies.
func DecodeDataURI(src string) ([]byte, string, error) {
	if !IsDataURI(src) {
		return nil, "", domain.NewValidationError("imageSrc", "not a data URI")
	}

	meta, payload, ok := strings.Cut(src[len("data:"):], ",")
	if !ok {
		return nil, "", domain.NewValidationError("imageSrc", "malformed data URI")
	}

	isBase64 := false
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		isBase64 = true
		meta = meta[:len(meta)-len(";base64")]
	}

	mimeType := meta
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if mimeType == "" {
		mimeType = "text/plain"
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			if data, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
				return nil, "", domain.NewValidationError("imageSrc", "invalid base64 image data")
			}
		}
		return data, mimeType, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", domain.NewValidationError("imageSrc", "invalid data URI encoding")
	}
	return []byte(text), mimeType, nil
}
