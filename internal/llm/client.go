package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Message roles used by the chat pipeline. RoleAI maps to the provider's
// "model" role on the wire.
const (
	RoleSystem = "system"
	RoleUser   = "user"
	RoleAI     = "ai"
)

// Message is one turn of an ordered conversation prompt.
type Message struct {
	Role    string
	Content string
}

// Client is an abstraction over LLM providers. One call is one round trip;
// no streaming, no retries.
type Client interface {
	// GenerateContent generates text from a single string prompt.
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateChat generates text from an ordered message list. A leading
	// system message becomes the system instruction.
	GenerateChat(ctx context.Context, messages []Message, tier ModelTier) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// Embedder maps text to fixed-length vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// GeminiClient implements Client and Embedder for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, config: config}, nil
}

// GenerateContent generates text content using the specified model tier.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// GenerateChat generates text from an ordered message list.
func (c *GeminiClient) GenerateChat(ctx context.Context, messages []Message, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("message list is empty")
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1)

	// Peel off a leading system message into the system instruction.
	turns := messages
	if turns[0].Role == RoleSystem {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(turns[0].Content)},
		}
		turns = turns[1:]
	}
	if len(turns) == 0 {
		return "", fmt.Errorf("message list has no user turns")
	}

	var history []*genai.Content
	for _, m := range turns[:len(turns)-1] {
		history = append(history, &genai.Content{
			Role:  providerRole(m.Role),
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	session := model.StartChat()
	session.History = history

	last := turns[len(turns)-1]
	resp, err := session.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", fmt.Errorf("failed to generate chat response: %w", err)
	}

	return extractTextFromResponse(resp)
}

// Embed maps a single text to an embedding vector.
func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	em := c.client.EmbeddingModel(c.config.EmbeddingModel)
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}
	if resp.Embedding == nil {
		return nil, fmt.Errorf("no embedding in response")
	}
	return resp.Embedding.Values, nil
}

// EmbedBatch maps a list of texts to embedding vectors in one request.
func (c *GeminiClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	em := c.client.EmbeddingModel(c.config.EmbeddingModel)
	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to embed batch: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		vectors[i] = e.Values
	}
	return vectors, nil
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func providerRole(role string) string {
	if role == RoleAI {
		return "model"
	}
	return "user"
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
