// Package gateway is the outbound HTTP client for the grievance backend API.
// It is a thin fire-once layer: no retries, no response caching, no client
// timeout — cancellation comes solely from the request context, so a response
// arriving after its initiating request has been torn down is discarded.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
	"github.com/grievance-redressal/student-portal/internal/core/ports"
	"github.com/grievance-redressal/student-portal/internal/metrics"
)

// TokenSource yields the bearer token for a session straight from durable
// storage. The gateway deliberately does not hold an in-memory session copy:
// re-reading per request keeps it immune to stale state.
type TokenSource interface {
	Token(ctx context.Context, sid string) (string, error)
}

// Client implements ports.BackendClient over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	logger     zerolog.Logger
}

// New creates a gateway client for the backend at baseURL.
func New(baseURL string, tokens TokenSource, logger zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("gateway: backend base URL is required")
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		logger:     logger,
	}, nil
}

type loginRequest struct {
	EnrollmentNumber string `json:"enrollmentNumber"`
	Password         string `json:"password"`
}

type loginResponse struct {
	Token   string                 `json:"token"`
	Student *domain.StudentProfile `json:"student"`
}

// Login exchanges the enrollment number and password for a token. It is the
// one call that goes out without a bearer header.
func (c *Client) Login(ctx context.Context, enrollmentNumber, password string) (*ports.LoginResult, error) {
	var resp loginResponse
	err := c.do(ctx, "", http.MethodPost, "/student/login", loginRequest{
		EnrollmentNumber: enrollmentNumber,
		Password:         password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{Token: resp.Token, Student: resp.Student}, nil
}

type createPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (c *Client) CreatePassword(ctx context.Context, sid, newPassword string) error {
	return c.do(ctx, sid, http.MethodPost, "/student/create-password", createPasswordRequest{NewPassword: newPassword}, nil)
}

func (c *Client) GetProfile(ctx context.Context, sid string) (*domain.StudentProfile, error) {
	var profile domain.StudentProfile
	if err := c.do(ctx, sid, http.MethodGet, "/student/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

type createGrievanceRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// CreateGrievance submits the creation form. With an attachment the payload
// is multipart; without one a plain JSON POST carrying exactly the two text
// fields goes out.
func (c *Client) CreateGrievance(ctx context.Context, sid string, input ports.CreateGrievanceInput) error {
	if input.Attachment == nil {
		return c.do(ctx, sid, http.MethodPost, "/student/grievance/create", createGrievanceRequest{
			Subject:     input.Subject,
			Description: input.Description,
		}, nil)
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if err := w.WriteField("subject", input.Subject); err != nil {
		return fmt.Errorf("multipart subject: %w", err)
	}
	if err := w.WriteField("description", input.Description); err != nil {
		return fmt.Errorf("multipart description: %w", err)
	}
	part, err := w.CreateFormFile("attachment", input.Attachment.Filename)
	if err != nil {
		return fmt.Errorf("multipart attachment: %w", err)
	}
	if _, err := io.Copy(part, input.Attachment.Content); err != nil {
		return fmt.Errorf("multipart attachment copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("multipart close: %w", err)
	}

	return c.doRaw(ctx, sid, http.MethodPost, "/student/grievance/create", body, w.FormDataContentType(), nil)
}

func (c *Client) MyGrievances(ctx context.Context, sid string) ([]domain.Grievance, error) {
	var grievances []domain.Grievance
	if err := c.do(ctx, sid, http.MethodGet, "/student/grievance/my", nil, &grievances); err != nil {
		return nil, err
	}
	return grievances, nil
}

func (c *Client) GrievanceDetails(ctx context.Context, sid, id string) (*domain.Grievance, error) {
	var g domain.Grievance
	if err := c.do(ctx, sid, http.MethodGet, "/student/grievance/details/"+id, nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) Withdraw(ctx context.Context, sid, id string) error {
	return c.do(ctx, sid, http.MethodDelete, "/student/grievance/withdraw/"+id, nil, nil)
}

// do issues a JSON request. A nil payload sends an empty body; a nil out
// discards the response body.
func (c *Client) do(ctx context.Context, sid, method, path string, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.doRaw(ctx, sid, method, path, body, contentType, out)
}

func (c *Client) doRaw(ctx context.Context, sid, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	// Token is read from durable storage immediately before dispatch. Absent
	// token means the request goes out unauthenticated and the backend
	// rejects it.
	if sid != "" {
		token, err := c.tokens.Token(ctx, sid)
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(path, "error").Inc()
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("upstream request failed")
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequestsTotal.WithLabelValues(path, "rejected").Inc()
		return c.backendError(resp)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(path, "success").Inc()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// backendError maps a non-2xx response to a domain error, keeping the
// backend's own message when the body carries one.
func (c *Client) backendError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if payload.Message == "" {
			return domain.ErrInvalidCredentials
		}
	case http.StatusNotFound:
		if payload.Message == "" {
			return domain.ErrGrievanceNotFound
		}
	}
	return &domain.BackendError{StatusCode: resp.StatusCode, Message: payload.Message}
}
