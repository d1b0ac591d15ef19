package imports

import (
	"encoding/base64"
	"errors"
	"strings"
)

// EncodeDataURL wraps raw bytes as a base64 data URL.
func EncodeDataURL(mime string, data []byte) string {
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL unwraps a base64 data URL into raw bytes and the declared
// MIME type. A bare base64 payload without the data: prefix is accepted.
func DecodeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", errors.New("no image data")
	}
	mime := ""
	if strings.HasPrefix(s, "data:") {
		head, payload, ok := strings.Cut(s, ",")
		if !ok {
			return nil, "", errors.New("malformed data URL")
		}
		meta := strings.TrimPrefix(head, "data:")
		mime = strings.TrimSuffix(strings.SplitN(meta, ";", 2)[0], ",")
		s = payload
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, "", err
	}
	return decoded, mime, nil
}
