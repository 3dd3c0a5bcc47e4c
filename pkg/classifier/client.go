package classifier

import (
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

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/config"
)

// Prediction is the top classification result for one image.
type Prediction struct {
	Label string
	// Confidence is the parsed score. The upstream model reports either a
	// JSON number or a numeric string, so RawConfidence keeps the original
	// form for rejection reasons.
	Confidence    float64
	RawConfidence string
}

// Service classifies a single image payload.
type Service interface {
	Classify(ctx context.Context, filename, contentType string, image io.Reader) (*Prediction, error)
}

// Client calls the external classification endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

type apiResponse struct {
	Results []apiResult `json:"results"`
}

type apiResult struct {
	PredictedLabel string          `json:"predictedLabel"`
	Confidence     json.RawMessage `json:"confidence"`
}

func NewClient(cfg config.ClassifierConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("classifier endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.Endpoint,
	}, nil
}

// Classify posts the image as a multipart form and returns the first result.
func (c *Client) Classify(ctx context.Context, filename, contentType string, image io.Reader) (*Prediction, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("classifier client not initialized")
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("image", filename)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, image); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(b) > 0 {
			return nil, fmt.Errorf("classifier returned %s: %s", resp.Status, strings.TrimSpace(string(b)))
		}
		return nil, fmt.Errorf("classifier returned %s", resp.Status)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding classifier response: %w", err)
	}
	if len(decoded.Results) == 0 {
		return nil, errors.New("classifier returned no results")
	}

	return toPrediction(decoded.Results[0])
}

// Ping checks that the classification endpoint is reachable. Any HTTP
// response counts; only transport failures mark the dependency down.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.httpClient == nil {
		return errors.New("classifier client not initialized")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("classifier ping: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

func toPrediction(result apiResult) (*Prediction, error) {
	raw := strings.TrimSpace(string(result.Confidence))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	confidence, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid confidence %q: %w", raw, err)
	}
	return &Prediction{
		Label:         result.PredictedLabel,
		Confidence:    confidence,
		RawConfidence: raw,
	}, nil
}
