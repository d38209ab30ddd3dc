package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/hiscore/internal/adapters/http/api"
	"github.com/okian/hiscore/internal/domain/types"
	"github.com/okian/hiscore/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Client talks to a running ranking server.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns a client for baseURL with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Health returns nil when GET /healthz answers 200.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer closeBody(ctx, resp)
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// Upload posts both files to /api/rankings and decodes the ranking. The
// body is streamed, so files of any size are sent without buffering.
func (c *Client) Upload(ctx context.Context, entryPath, scorePath string) ([]types.Entry, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	var g errgroup.Group
	g.Go(func() error {
		err := writeParts(mw, entryPath, scorePath)
		_ = pw.CloseWithError(err)
		return err
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/rankings", pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		_ = g.Wait()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		_ = pr.CloseWithError(err)
		_ = g.Wait()
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer closeBody(ctx, resp)

	if resp.StatusCode != http.StatusOK {
		// The server may answer before reading the whole body.
		_ = pr.Close()
		_ = g.Wait()
		var e struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return nil, fmt.Errorf("%w: %d %s: %s", ErrStatus, resp.StatusCode, e.Code, e.Message)
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	var out struct {
		Rankings []types.Entry `json:"rankings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode rankings: %w", err)
	}
	logger.Get().Debug(ctx, "ranking received",
		logger.String("requestId", resp.Header.Get("X-Request-Id")),
		logger.Int("rows", len(out.Rankings)))
	return out.Rankings, nil
}

func writeParts(mw *multipart.Writer, entryPath, scorePath string) error {
	for _, p := range []struct{ field, path string }{
		{api.FieldEntryFile, entryPath},
		{api.FieldScoreFile, scorePath},
	} {
		if err := writePart(mw, p.field, p.path); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writePart(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	part, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

func closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		logger.Get().Error(ctx, "failed to close response body", logger.Error(err))
	}
}
