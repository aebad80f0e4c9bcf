package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/guru03-coder/MediVerse/internal/models"
)

var (
	// ErrUnexpectedStatus is returned for any non-2xx response. Error bodies are not interpreted.
	ErrUnexpectedStatus = errors.New("unexpected status from remote service")

	// ErrMalformedBody is returned when a 2xx body cannot be decoded
	ErrMalformedBody = errors.New("malformed response body")

	// ErrUnreachable is returned when no response was received
	ErrUnreachable = errors.New("remote service unreachable")
)

const defaultTimeout = 5 * time.Second

// Config contains configuration for the remote triage service client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the hospital triage service over HTTP
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// New creates a client for the service at cfg.BaseURL
func New(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:   http,
		logger: logger.With().Str("component", "remote").Str("base_url", cfg.BaseURL).Logger(),
	}
}

// Stats fetches GET /dashboard/stats
func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var out models.Stats
	err := c.getJSON(ctx, "/dashboard/stats", &out)
	return out, err
}

// Analytics fetches GET /dashboard/analytics
func (c *Client) Analytics(ctx context.Context) (models.Analytics, error) {
	var out models.Analytics
	err := c.getJSON(ctx, "/dashboard/analytics", &out)
	return out, err
}

// Patients fetches GET /patients
func (c *Client) Patients(ctx context.Context) ([]models.Patient, error) {
	var out []models.Patient
	err := c.getJSON(ctx, "/patients", &out)
	return out, err
}

// DischargePatient calls POST /patients/{id}/discharge
func (c *Client) DischargePatient(ctx context.Context, id string) error {
	return c.post(ctx, "/patients/"+url.PathEscape(id)+"/discharge", nil, nil)
}

// AddDoctor calls POST /doctor/add
func (c *Client) AddDoctor(ctx context.Context, req models.AddDoctorRequest) error {
	return c.post(ctx, "/doctor/add", req, nil)
}

// Predict calls POST /predict and validates the returned prediction
func (c *Client) Predict(ctx context.Context, req models.PredictRequest) (models.Prediction, error) {
	var out models.PredictResponse
	if err := c.post(ctx, "/predict", req, &out); err != nil {
		return models.Prediction{}, err
	}
	p, err := out.Prediction()
	if err != nil {
		return models.Prediction{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return p, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	return c.decode(resp, err, "GET", path, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post(path)
	return c.decode(resp, err, "POST", path, out)
}

func (c *Client) decode(resp *resty.Response, err error, method, path string, out any) error {
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("remote call failed")
		return fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	if !resp.IsSuccess() {
		c.logger.Debug().Int("status", resp.StatusCode()).Str("method", method).Str("path", path).Msg("remote call rejected")
		return fmt.Errorf("%w: %s %s: %d", ErrUnexpectedStatus, method, path, resp.StatusCode())
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedBody, method, path, err)
	}
	return nil
}
