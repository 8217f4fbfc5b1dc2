package source

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/timeline/pkg/cache"
	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/timeline"
)

// maxBody caps how much of a response is read.
const maxBody = 32 << 20

// URL is an event file served over HTTP(S). Server errors and network
// failures are retried with backoff.
type URL struct {
	URL    string
	Format Format       // empty: from the Content-Type, then the path
	Client *http.Client // nil: a client with a 30s timeout
}

// ID returns the URL.
func (u URL) ID() string { return u.URL }

// Load fetches and decodes the document.
func (u URL) Load(ctx context.Context) ([]timeline.Event, error) {
	if err := errors.ValidateURL(u.URL, "http", "https"); err != nil {
		return nil, err
	}
	client := u.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	var body []byte
	var contentType string
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		body, contentType, err = fetch(ctx, client, u.URL)
		return err
	})
	if err != nil {
		return nil, err
	}

	format := u.Format
	if format == "" {
		if format, err = u.detect(contentType); err != nil {
			return nil, err
		}
	}
	return Decode(bytes.NewReader(body), format)
}

func (u URL) detect(contentType string) (Format, error) {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "application/json":
			return FormatJSON, nil
		case "application/yaml", "application/x-yaml", "text/yaml":
			return FormatYAML, nil
		case "text/csv":
			return FormatCSV, nil
		}
	}
	parsed, err := url.Parse(u.URL)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", u.URL)
	}
	return DetectFormat(parsed.Path)
}

func fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", "application/json, application/yaml, text/csv")

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", rawURL))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", errors.New(errors.ErrCodeNotFound, "GET %s: not found", rawURL)
	case resp.StatusCode >= 500:
		return nil, "", cache.Retryable(errors.New(errors.ErrCodeNetwork, "GET %s: status %d", rawURL, resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, "", errors.New(errors.ErrCodeNetwork, "GET %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, "", cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", rawURL))
	}
	return body, resp.Header.Get("Content-Type"), nil
}
