package tickets

import (
	"fmt"
	"net/url"
)

// Encoder resolves a ticket code to a scannable representation. The codes
// themselves are the source of truth; the QR image is derived and never
// stored.
type Encoder interface {
	ImageURL(code string) string
}

type qrEncoder struct {
	baseURL string
	size    int
}

// NewQREncoder returns an Encoder backed by a QR image service. An empty
// baseURL falls back to the public goqr.me endpoint.
func NewQREncoder(baseURL string, size int) Encoder {
	if baseURL == "" {
		baseURL = "https://api.qrserver.com/v1/create-qr-code/"
	}
	if size <= 0 {
		size = 200
	}
	return &qrEncoder{baseURL: baseURL, size: size}
}

func (e *qrEncoder) ImageURL(code string) string {
	return fmt.Sprintf("%s?size=%dx%d&data=%s", e.baseURL, e.size, e.size, url.QueryEscape(code))
}
