package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type LLMClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewLLMClient(baseURL string) *LLMClient {
	return &LLMClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type StoryRequest struct {
	Words []string `json:"words"`
	Level int      `json:"level"`
}

type StoryResponse struct {
	Story       string `json:"story"`
	Translation string `json:"translation"`
}

type ExampleRequest struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
	Level   int    `json:"level"`
}

type ExampleResponse struct {
	Example   string `json:"example"`
	ExampleJa string `json:"exampleJa"`
}

// GenerateExample asks the LLM proxy for an example sentence and its
// Japanese translation for a catalog item.
func (c *LLMClient) GenerateExample(ctx context.Context, word, meaning string, level int) (*ExampleResponse, error) {
	reqBody, err := json.Marshal(ExampleRequest{Word: word, Meaning: meaning, Level: level})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/example", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("LLM proxy returned status %d: %s", resp.StatusCode, string(body))
	}

	var result ExampleResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GenerateStory asks the LLM proxy for a short story that uses all of the
// given vocabulary, pitched at the learner's level.
func (c *LLMClient) GenerateStory(ctx context.Context, words []string, level int) (*StoryResponse, error) {
	reqBody, err := json.Marshal(StoryRequest{Words: words, Level: level})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/story", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("LLM proxy returned status %d: %s", resp.StatusCode, string(body))
	}

	var result StoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}
