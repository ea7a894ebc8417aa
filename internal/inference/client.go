// Package inference is the HTTP client of the remote detection and
// segmentation service. A failed round trip yields an error and an empty
// result; it never stops the pipeline.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vision-scout/internal/frame"
	"vision-scout/internal/logger"
)

// ErrBadStatus means the service answered but reported failure, either at
// the HTTP layer or in the response body's status field.
var ErrBadStatus = errors.New("inference: service returned failure status")

// DefaultTimeout bounds one round trip. Well above the pipeline's target
// latency; a request this slow is already a lost frame.
const DefaultTimeout = 10 * time.Second

// Client submits encoded frames and decodes typed geometry.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// NewClient builds a client for the service at baseURL (no trailing
// slash needed). A zero timeout selects DefaultTimeout; a nil log discards.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Analyze submits one encoded frame to the endpoint selected by opts.Mode
// and returns the decoded result. The returned Result always carries the
// requested mode, even on error.
func (c *Client) Analyze(ctx context.Context, enc frame.EncodedFrame, opts Options) (Result, error) {
	if opts.Mode == "" {
		opts.Mode = ModeDetect
	}
	empty := Result{Mode: opts.Mode}

	body, contentType, err := buildForm(enc, opts)
	if err != nil {
		return empty, fmt.Errorf("inference: build request: %w", err)
	}

	url := fmt.Sprintf("%s/api/%s", c.baseURL, opts.Mode)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return empty, fmt.Errorf("inference: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return empty, fmt.Errorf("inference: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return empty, fmt.Errorf("%w: http %d", ErrBadStatus, resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return empty, fmt.Errorf("inference: decode response: %w", err)
	}
	result.Mode = opts.Mode

	if result.Status != "success" {
		return empty, fmt.Errorf("%w: %q", ErrBadStatus, result.Status)
	}

	c.log.Debug("inference", "round trip complete", map[string]interface{}{
		"mode":              string(opts.Mode),
		"count":             result.Count,
		"inference_time_ms": result.InferenceTimeMS,
	})
	return result, nil
}

// Health probes the service before the stream starts. Any error here is a
// capture-level failure surfaced to the user with a retry action.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("inference: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("inference: health check: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health http %d", ErrBadStatus, resp.StatusCode)
	}
	return nil
}

// buildForm assembles the multipart body: the frame under field "image",
// the confidence threshold, and the optional comma-separated class
// allow-list.
func buildForm(enc frame.EncodedFrame, opts Options) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	part, err := w.CreateFormFile("image", "frame.jpg")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(enc.Data); err != nil {
		return nil, "", err
	}

	conf := strconv.FormatFloat(opts.MinConfidence, 'f', 2, 64)
	if err := w.WriteField("confidence", conf); err != nil {
		return nil, "", err
	}
	if len(opts.Classes) > 0 {
		if err := w.WriteField("classes", strings.Join(opts.Classes, ",")); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}
