package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/zenbudget/zenbudget/internal/config"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var ErrMissingApiKey = fmt.Errorf("no Gemini API key configured")

// Client produces advisory text for a formatted prompt. Everything beyond
// "prompt in, text or error out" is outside this system's contract.
type Client interface {
	GenerateAdvice(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiClient(cfg config.Gemini) *GeminiClient {
	return &GeminiClient{
		apiKey:  cfg.ApiKey,
		model:   cfg.Model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

func (c *GeminiClient) GenerateAdvice(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingApiKey
	}

	request := generateRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	request.GenerationConfig.Temperature = 0.7

	body, err := json.Marshal(request)
	if err != nil {
		log.Errorf("Failed to encode Gemini request: %v", err)
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("Gemini API returned non-OK status: %d", resp.StatusCode)
		log.Error(err)
		return "", err
	}

	var response struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return "", err
	}

	if len(response.Candidates) == 0 {
		return "", fmt.Errorf("Gemini API returned no candidates")
	}

	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		text += part.Text
	}
	return text, nil
}
