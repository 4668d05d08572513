package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/sopheaklaing/pharmacy/internal/storage"

	"github.com/go-resty/resty/v2"
)

var imageClient = resty.New().
	SetTimeout(30*time.Second).
	SetHeader("User-Agent", "pharmacy-dashboard/1.0")

// FetchImage downloads a remote medication image. Payload validation
// (type, size) happens in storage.ValidateImage; this only guards the
// transfer itself.
func FetchImage(url string) ([]byte, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("url must be http or https")
	}

	resp, err := imageClient.R().Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}
	if len(body) > storage.MaxImageSize {
		return nil, storage.ErrFileTooLarge
	}
	return body, nil
}
