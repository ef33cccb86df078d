package delegate

import (
	"fmt"
	"net/http"
	"time"
)

// NewBackend returns the backend named by the ai.backend setting.
func NewBackend(name string) (Backend, error) {
	switch name {
	case "gemini", "":
		return NewGeminiBackend(), nil
	case "genai":
		return NewGenAIBackend(), nil
	case "openai":
		return NewOpenAIBackend(&http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		}), nil
	default:
		return nil, fmt.Errorf("unknown ai backend %q", name)
	}
}
