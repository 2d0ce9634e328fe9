package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/drcalm/internal/domain/analysis"
)

const (
	maxTokens = 4096

	DefaultTextModel  = "gpt-4o-mini"
	DefaultImageModel = openai.CreateImageModelDallE3
)

// Config for the OpenAI adapter.
type Config struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	ImageSize  string
}

// Client implements analysis.TextGenerator and analysis.ImageGenerator on
// top of the OpenAI API.
type Client struct {
	*openai.Client
	Model      string
	ImageModel string
	ImageSize  string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w: api key is required", analysis.ErrAIUnavailable)
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	c := &Client{
		Client:     openai.NewClientWithConfig(oc),
		Model:      cfg.TextModel,
		ImageModel: cfg.ImageModel,
		ImageSize:  cfg.ImageSize,
	}
	if c.Model == "" {
		c.Model = DefaultTextModel
	}
	if c.ImageModel == "" {
		c.ImageModel = DefaultImageModel
	}
	if c.ImageSize == "" {
		c.ImageSize = openai.CreateImageSize1024x1024
	}
	return c, nil
}

// GenerateStructured runs a chat completion constrained to schema.
func (c *Client) GenerateStructured(ctx context.Context, prompt, systemInstruction string, schema analysis.Field) (string, error) {
	def := toDefinition(schema)
	req := openai.ChatCompletionRequest{
		Model: c.Model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "medical_analysis",
				Schema: &def,
			},
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(c.Model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapErr("failed to create chat completion", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", analysis.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage requests one base64 encoded PNG.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*analysis.Image, error) {
	req := openai.ImageRequest{
		Prompt: prompt,
		Model:  c.ImageModel,
		N:      1,
		Size:   c.ImageSize,
	}
	// gpt-image models always answer in base64 and reject response_format
	if !strings.HasPrefix(c.ImageModel, "gpt-image") {
		req.ResponseFormat = openai.CreateImageResponseFormatB64JSON
	}

	resp, err := c.CreateImage(ctx, req)
	if err != nil {
		return nil, wrapErr("failed to create image", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return &analysis.Image{Data: data, MIMEType: "image/png"}, nil
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

// wrapErr marks rate limit answers with analysis.ErrQuotaExceeded.
func wrapErr(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w: %v", op, analysis.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
