package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"

	"github.com/alfredjeanlab/granja/internal/idgen"
)

var (
	// ErrUnreachable wraps transport failures: the backend could not be
	// reached at all.
	ErrUnreachable = errors.New("service unreachable")

	// ErrInvalidCredentials is returned by Login for 401/404 responses.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotImage is returned by UploadImage for non-image payloads.
	ErrNotImage = errors.New("file is not an image")
)

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Blob is a binary response body, e.g. a PDF report.
type Blob struct {
	ContentType string
	Data        []byte
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// Get performs a GET and decodes the raw JSON response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, result)
}

// Create performs a POST.
func (c *Client) Create(ctx context.Context, path string, body, result any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, result)
}

// Update performs a PATCH.
func (c *Client) Update(ctx context.Context, path string, body, result any) error {
	return c.doJSON(ctx, http.MethodPatch, path, body, result)
}

// Put performs a PUT.
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, result)
}

// Delete performs a DELETE and discards the response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// GetData performs a GET and unwraps the {"data": T} envelope.
func GetData[T any](ctx context.Context, c *Client, path string) (T, error) {
	return sendData[T](ctx, c, http.MethodGet, path, nil)
}

func sendData[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var env envelope[T]
	if err := c.doJSON(ctx, method, path, body, &env); err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

// UploadImage sends the image as multipart/form-data to /uploads and
// returns the storage identifier assigned by the drive service.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "reading image")
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", errors.Wrapf(ErrNotImage, "%s is %s", filename, mt.String())
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	h.Set("Content-Type", mt.String())
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", errors.Wrap(err, "creating multipart part")
	}
	if _, err := part.Write(data); err != nil {
		return "", errors.Wrap(err, "writing multipart part")
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(err, "closing multipart body")
	}

	_, respBody, err := c.do(ctx, http.MethodPost, "/uploads", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	var env envelope[string]
	if err := json.Unmarshal(respBody, &env); err != nil {
		return "", errors.Wrap(err, "decoding response")
	}
	return env.Data, nil
}

// Download performs a GET and returns the raw body, for binary endpoints.
func (c *Client) Download(ctx context.Context, path string) (*Blob, error) {
	resp, body, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = mimetype.Detect(body).String()
	}
	return &Blob{ContentType: ct, Data: body}, nil
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var (
		bodyReader  io.Reader
		contentType string
	)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshaling request body")
		}
		bodyReader = bytes.NewReader(data)
		contentType = "application/json"
	}

	_, respBody, err := c.do(ctx, method, path, contentType, bodyReader)
	if err != nil {
		return err
	}
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return errors.Wrap(err, "decoding response")
		}
	}
	return nil
}

// do sends the request and returns the response with its body fully read.
// Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	reqID := idgen.RequestID()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		c.log.Debug().Str("request_id", reqID).Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return nil, nil, fmt.Errorf("%s %s: %w: %w", method, path, ErrUnreachable, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading response")
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &errResp) == nil {
			if errResp.Message != "" {
				return nil, nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
			}
			if errResp.Error != "" {
				return nil, nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
			}
		}
		return nil, nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	return resp, respBody, nil
}
