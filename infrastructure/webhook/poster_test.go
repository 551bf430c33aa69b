package webhook

import (
	"agent-lab/errors"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoster_SendsFormEncodedBody(t *testing.T) {
	req := require.New(t)
	var gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	poster := NewPoster(srv.Client())
	err := poster.Post(context.Background(), srv.URL, "type=crossing&old=A&new=B")

	req.NoError(err)
	req.Equal("type=crossing&old=A&new=B", gotBody)
	req.Equal("application/x-www-form-urlencoded", gotType)
}

func TestPoster_RejectedStatus(t *testing.T) {
	req := require.New(t)
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewPoster(srv.Client()).Post(context.Background(), srv.URL, "a=b")

	req.ErrorIs(err, errors.ErrDeliveryRejected)
	req.Equal(1, attempts)
}

func TestPoster_HonoursContextDeadline(t *testing.T) {
	req := require.New(t)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := NewPoster(srv.Client()).Post(ctx, srv.URL, "a=b")

	req.ErrorIs(err, context.DeadlineExceeded)
}

func TestPoster_InvalidURL(t *testing.T) {
	req := require.New(t)
	err := NewPoster(nil).Post(context.Background(), "://nowhere", "a=b")
	req.Error(err)
}
