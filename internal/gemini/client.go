package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"subtrans/internal/errs"
)

const defaultAPIURL = "https://generativelanguage.googleapis.com"

// Config holds the configuration for the Gemini client
type Config struct {
	APIKey          string  `json:"api_key"`
	APIURL          string  `json:"api_url"`
	Model           string  `json:"model"`
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"top_p"`
	TopK            int     `json:"top_k"`
	MaxOutputTokens int     `json:"max_output_tokens"`
	Timeout         int     `json:"timeout"` // seconds
}

// Validate validates the configuration. A missing API key is an auth
// failure so callers can prompt for credentials instead of retrying.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errs.New(errs.KindAuth, "API key is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.Timeout < 1 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	return nil
}

// Client talks to the Gemini REST API. It implements Engine.
type Client struct {
	config     Config
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Gemini client with the given configuration.
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL := config.APIURL
	if baseURL == "" {
		baseURL = defaultAPIURL
	}

	return &Client{
		config:  config,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}, nil
}

// Upload pushes a text payload to the remote file service and returns
// a handle for use in generate requests.
func (c *Client) Upload(ctx context.Context, displayName string, payload []byte) (Handle, error) {
	url := fmt.Sprintf("%s/upload/v1beta/files?key=%s", c.baseURL, c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Handle{}, errs.Wrap(err, errs.KindService, "failed to create upload request")
	}
	req.Header.Set("X-Goog-Upload-Protocol", "raw")
	req.Header.Set("X-Goog-File-Name", displayName)
	req.Header.Set("Content-Type", "text/plain")

	body, err := c.do(req)
	if err != nil {
		return Handle{}, err
	}

	var uploaded uploadResponse
	if err := json.Unmarshal(body, &uploaded); err != nil {
		return Handle{}, errs.Wrap(err, errs.KindService, "failed to parse upload response")
	}
	if uploaded.File.Name == "" {
		return Handle{}, errs.New(errs.KindService, "upload response missing file name")
	}

	return Handle{
		Name:     uploaded.File.Name,
		URI:      uploaded.File.URI,
		MimeType: uploaded.File.MimeType,
	}, nil
}

// Generate runs one generation over the prompt and the uploaded payload.
func (c *Client) Generate(ctx context.Context, prompt string, handle Handle) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, c.config.Model, c.config.APIKey)

	mimeType := handle.MimeType
	if mimeType == "" {
		mimeType = "text/plain"
	}

	request := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: prompt},
				{FileData: &fileData{MimeType: mimeType, FileURI: handle.URI}},
			},
		}},
		GenerationConfig: &generateConfig{
			Temperature:      c.config.Temperature,
			TopP:             c.config.TopP,
			TopK:             c.config.TopK,
			MaxOutputTokens:  c.config.MaxOutputTokens,
			ResponseMimeType: "text/plain",
			ThinkingConfig:   &thinkingConfig{ThinkingBudget: 0},
		},
		SafetySettings: blockNoneSafetySettings(),
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", errs.Wrap(err, errs.KindService, "failed to marshal generate request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", errs.Wrap(err, errs.KindService, "failed to create generate request")
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var response generateResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", errs.Wrap(err, errs.KindService, "failed to parse generate response")
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", errs.New(errs.KindService, "no content in generate response")
	}

	var sb strings.Builder
	for _, p := range response.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// Release deletes the remote-held payload.
func (c *Client) Release(ctx context.Context, handle Handle) error {
	if handle.Name == "" {
		return nil
	}

	url := fmt.Sprintf("%s/v1beta/%s?key=%s", c.baseURL, handle.Name, c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return errs.Wrap(err, errs.KindService, "failed to create delete request")
	}

	_, err = c.do(req)
	return err
}

// do executes the request and maps failures to error kinds: credential
// rejections to Auth, everything else to Service.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindService, "request failed").
			WithContext("url", req.URL.Path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindService, "failed to read response body")
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, errs.Newf(errs.KindAuth, "API key rejected with status %d", resp.StatusCode).
			WithContext("body", truncate(string(body), 200))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.Newf(errs.KindService, "API request failed with status %d", resp.StatusCode).
			WithContext("body", truncate(string(body), 200))
	}

	return body, nil
}

func blockNoneSafetySettings() []safetySetting {
	categories := []string{
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_HARASSMENT",
	}

	settings := make([]safetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, safetySetting{
			Category:  category,
			Threshold: "BLOCK_NONE",
		})
	}
	return settings
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
