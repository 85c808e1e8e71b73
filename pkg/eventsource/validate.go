package eventsource

import (
	"fmt"
	"mime"
	"net/http"
)

// ContentType is the media type an event stream response must carry.
const ContentType = "text/event-stream"

// ValidateResponse is the default open validator: any 2xx status with a
// text/event-stream content type (parameters such as charset are tolerated).
func ValidateResponse(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	ct := resp.Header.Get("Content-Type")
	mediatype, _, _ := mime.ParseMediaType(ct)
	if mediatype != ContentType {
		return fmt.Errorf("invalid content type %q", ct)
	}
	return nil
}
