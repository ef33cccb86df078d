package delegate

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GenAIBackend calls the Gemini API through the unified google.golang.org/genai SDK.
type GenAIBackend struct {
	clients *clientCache[*genai.Client]
}

func NewGenAIBackend() *GenAIBackend {
	// genai.Client holds no resources that need closing.
	return &GenAIBackend{clients: newClientCache(dialGenAI, nil)}
}

func dialGenAI(ctx context.Context, key clientKey) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		APIKey:  key.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if key.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: key.baseURL}
	}
	return genai.NewClient(ctx, cc)
}

func (b *GenAIBackend) Name() string { return "genai" }

func (b *GenAIBackend) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	client, release, err := b.clients.get(ctx, clientKey{apiKey: req.APIKey, baseURL: req.BaseURL})
	if err != nil {
		return "", fmt.Errorf("genai: new client: %w", err)
	}
	defer release()

	resp, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), nil)
	if err != nil {
		if se := genaiStatus(err); se != nil {
			return "", se
		}
		return "", fmt.Errorf("genai: generate: %w", err)
	}
	return genaiFirstText(resp), nil
}

// genaiStatus extracts the upstream status from an SDK error. The SDK has
// returned APIError both by value and by pointer across releases.
func genaiStatus(err error) *StatusError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Code: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &StatusError{Code: apiErrPtr.Code, Message: apiErrPtr.Message, Err: err}
	}
	return nil
}

func genaiFirstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return ""
	}
	return c.Content.Parts[0].Text
}
