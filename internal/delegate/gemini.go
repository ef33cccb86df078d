package delegate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiBackend calls the Gemini API through the generative-ai-go SDK.
// The SDK client is reused until the credential or endpoint changes.
type GeminiBackend struct {
	clients *clientCache[*genai.Client]
}

func NewGeminiBackend() *GeminiBackend {
	return &GeminiBackend{clients: newClientCache(dialGemini, closeGemini)}
}

func dialGemini(ctx context.Context, key clientKey) (*genai.Client, error) {
	opts := []option.ClientOption{option.WithAPIKey(key.apiKey)}
	if key.baseURL != "" {
		opts = append(opts, option.WithEndpoint(key.baseURL))
	}
	return genai.NewClient(ctx, opts...)
}

func closeGemini(cl *genai.Client) { _ = cl.Close() }

func (b *GeminiBackend) Name() string { return "gemini" }

func (b *GeminiBackend) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	cl, release, err := b.clients.get(ctx, clientKey{apiKey: req.APIKey, baseURL: req.BaseURL})
	if err != nil {
		return "", fmt.Errorf("gemini: new client: %w", err)
	}
	defer release()

	m := cl.GenerativeModel(req.Model)
	resp, err := m.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		if se := geminiStatus(err); se != nil {
			return "", se
		}
		return "", fmt.Errorf("gemini: generate: %w", err)
	}
	return geminiFirstText(resp), nil
}

// geminiStatus unwraps the REST transport's *googleapi.Error, if any.
func geminiStatus(err error) *StatusError {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &StatusError{Code: gerr.Code, Message: gerr.Message, Err: err}
	}
	return nil
}

// geminiFirstText returns the text of the first part of the first candidate.
func geminiFirstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c.Content == nil || len(c.Content.Parts) == 0 {
		return ""
	}
	if t, ok := c.Content.Parts[0].(genai.Text); ok {
		return string(t)
	}
	return ""
}
