package webhook

import (
	"agent-lab/errors"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const contentType = "application/x-www-form-urlencoded"

// Poster sends one encoded payload per call. It never retries.
type Poster struct {
	client *http.Client
}

func NewPoster(client *http.Client) Poster {
	if client == nil {
		client = http.DefaultClient
	}
	return Poster{client: client}
}

func (p Poster) Post(ctx context.Context, url, payload string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s answered %d: %w", url, resp.StatusCode, errors.ErrDeliveryRejected)
	}
	return nil
}
