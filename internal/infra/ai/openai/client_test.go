package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/drcalm/internal/domain/analysis"
)

func newTestClient(t *testing.T, h http.HandlerFunc, cfg Config) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL + "/v1"
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, analysis.ErrAIUnavailable)
}

func TestGenerateStructured(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"summary\":\"ok\"}"}, "finish_reason": "stop"}]
		}`))
	}, Config{TextModel: "gpt-4o-mini"})

	out, err := c.GenerateStructured(context.Background(), "胃痛", "system prompt", analysis.ResultSchema())
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, out)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.EqualValues(t, maxTokens, body["max_tokens"])

	format, ok := body["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	js, ok := format["json_schema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "medical_analysis", js["name"])
	schema, ok := js["schema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", schema["type"])

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "胃痛", msgs[1].(map[string]any)["content"])
}

func TestGenerateStructured_ReasoningModelUsesCompletionTokens(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "{}"}}]}`))
	}, Config{TextModel: "o3-mini"})

	_, err := c.GenerateStructured(context.Background(), "p", "s", analysis.ResultSchema())
	require.NoError(t, err)
	assert.EqualValues(t, maxTokens, body["max_completion_tokens"])
	assert.NotContains(t, body, "max_tokens")
}

func TestGenerateStructured_Errors(t *testing.T) {
	t.Run("upstream 500", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": {"message": "down", "type": "server_error"}}`))
		}, Config{})
		_, err := c.GenerateStructured(context.Background(), "p", "s", analysis.ResultSchema())
		assert.Error(t, err)
	})

	t.Run("rate limited", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "quota", "type": "insufficient_quota"}}`))
		}, Config{})
		_, err := c.GenerateStructured(context.Background(), "p", "s", analysis.ResultSchema())
		assert.ErrorIs(t, err, analysis.ErrQuotaExceeded)
	})

	t.Run("no choices", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"choices": []}`))
		}, Config{})
		_, err := c.GenerateStructured(context.Background(), "p", "s", analysis.ResultSchema())
		assert.ErrorIs(t, err, analysis.ErrEmptyResponse)
	})
}

func TestGenerateImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"created": 1,
			"data":    []map[string]any{{"b64_json": base64.StdEncoding.EncodeToString(png)}},
		})
	}, Config{})

	img, err := c.GenerateImage(context.Background(), "triptych")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, png, img.Data)
	assert.Equal(t, "image/png", img.MIMEType)

	assert.Equal(t, "triptych", body["prompt"])
	assert.Equal(t, DefaultImageModel, body["model"])
	assert.Equal(t, "b64_json", body["response_format"])
}

func TestGenerateImage_GPTImageOmitsResponseFormat(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"created": 1, "data": []}`))
	}, Config{ImageModel: "gpt-image-1"})

	img, err := c.GenerateImage(context.Background(), "p")
	require.NoError(t, err)
	assert.Nil(t, img)
	assert.NotContains(t, body, "response_format")
}

func TestToDefinition(t *testing.T) {
	in := analysis.Field{
		Type: analysis.TypeObject,
		Properties: map[string]analysis.Field{
			"risk": {Type: analysis.TypeString, Enum: []string{"Low"}},
			"tags": {Type: analysis.TypeArray, Items: &analysis.Field{Type: analysis.TypeString}},
		},
		Required: []string{"risk"},
	}
	want := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"risk": {Type: jsonschema.String, Enum: []string{"Low"}},
			"tags": {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
		},
		Required: []string{"risk"},
	}

	if diff := cmp.Diff(want, toDefinition(in)); diff != "" {
		t.Errorf("toDefinition mismatch (-want +got):\n%s", diff)
	}
}
