// Package whisper issues transcription requests to the OpenAI audio API.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is the fixed transcription endpoint.
	DefaultEndpoint = "https://api.openai.com/v1/audio/transcriptions"
	// DefaultModel is the transcription model sent with every request.
	DefaultModel = "whisper-1"

	requestTimeout   = 60 * time.Second
	errorBodyExcerpt = 200
)

var (
	// ErrMissingAPIKey indicates no credential was configured.
	ErrMissingAPIKey = errors.New("transcription API key is not set")
	// ErrBadCredential indicates the API rejected the configured key.
	ErrBadCredential = errors.New("transcription API rejected the credential")
)

// Client performs one-shot transcription uploads. There is no retry or
// backoff: a failed cycle is surfaced to the user and abandoned.
type Client struct {
	Endpoint   string
	Model      string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient builds a client with the fixed endpoint and model defaults.
func NewClient(apiKey string) *Client {
	return &Client{
		Endpoint:   DefaultEndpoint,
		Model:      DefaultModel,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
}

// Request carries one transcription upload.
type Request struct {
	// AudioPath is the recorded WAV file.
	AudioPath string
	// Language is an optional ISO hint; empty lets the model detect.
	Language string
	// Prompt optionally steers output style and script.
	Prompt string
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the audio file and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", ErrMissingAPIKey
	}

	body, contentType, err := buildMultipartBody(req, c.Model)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, body)
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("post transcription request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read transcription response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", fmt.Errorf("%w: %s", ErrBadCredential, excerpt(payload))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", fmt.Errorf("transcription API returned %s: %s", resp.Status, excerpt(payload))
	}

	var decoded transcriptionResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}
	return decoded.Text, nil
}

// buildMultipartBody assembles the file upload plus form fields.
func buildMultipartBody(req Request, model string) (*bytes.Buffer, string, error) {
	file, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(req.AudioPath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("copy audio into request: %w", err)
	}

	fields := map[string]string{
		"model":           model,
		"response_format": "json",
	}
	if req.Language != "" {
		fields["language"] = req.Language
	}
	if req.Prompt != "" {
		fields["prompt"] = req.Prompt
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("write form field %q: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

func excerpt(payload []byte) string {
	text := strings.TrimSpace(string(payload))
	if len(text) > errorBodyExcerpt {
		return text[:errorBodyExcerpt] + "..."
	}
	if text == "" {
		return "(empty body)"
	}
	return text
}
