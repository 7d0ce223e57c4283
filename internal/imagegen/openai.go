package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, baseURL, model string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string, opts Options) ([]byte, error) {
	req := openai.ImageRequest{
		Model:          c.model,
		Prompt:         prompt,
		N:              1,
		Size:           opts.Size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	}

	resp, err := c.client.CreateImage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("image service returned no data")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return raw, nil
}
