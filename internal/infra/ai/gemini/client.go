package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/bryanwahyu/drcalm/internal/domain/analysis"
)

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "gemini-2.5-flash-image"
)

// contentGenerator is the part of *genai.Models the adapter uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config for the Gemini adapter.
type Config struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
}

// Client implements analysis.TextGenerator and analysis.ImageGenerator on
// top of the Gemini API.
type Client struct {
	models     contentGenerator
	textModel  string
	imageModel string
}

// NewClient creates a Gemini client. The API key is required.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w: api key is required", analysis.ErrAIUnavailable)
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newClient(client.Models, cfg), nil
}

func newClient(models contentGenerator, cfg Config) *Client {
	c := &Client{
		models:     models,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
	}
	if c.textModel == "" {
		c.textModel = DefaultTextModel
	}
	if c.imageModel == "" {
		c.imageModel = DefaultImageModel
	}
	return c
}

// GenerateStructured asks the text model for JSON conforming to schema.
func (c *Client) GenerateStructured(ctx context.Context, prompt, systemInstruction string, schema analysis.Field) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.textModel, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    toSchema(schema),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil {
		return "", analysis.ErrEmptyResponse
	}
	text := resp.Text()
	if text == "" {
		return "", analysis.ErrEmptyResponse
	}
	return text, nil
}

// GenerateImage asks the image model for one illustration. A response
// without inline image data is not an error.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*analysis.Image, error) {
	resp, err := c.models.GenerateContent(ctx, c.imageModel, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini generate image: %w", err)
	}
	return firstInlineImage(resp), nil
}

func firstInlineImage(resp *genai.GenerateContentResponse) *analysis.Image {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return nil
	}
	for _, part := range cand.Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		return &analysis.Image{
			Data:     part.InlineData.Data,
			MIMEType: part.InlineData.MIMEType,
		}
	}
	return nil
}
