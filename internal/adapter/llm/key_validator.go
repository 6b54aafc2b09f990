package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// OpenRouterKeyValidator checks a key against the provider's model listing.
type OpenRouterKeyValidator struct {
	baseURL string
	base    *http.Client
}

// NewOpenRouterKeyValidator validates keys against baseURL + "/models".
func NewOpenRouterKeyValidator(baseURL string, timeout time.Duration) *OpenRouterKeyValidator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OpenRouterKeyValidator{
		baseURL: strings.TrimRight(baseURL, "/"),
		base:    &http.Client{Timeout: timeout},
	}
}

// ValidateKey implements domain.APIKeyValidator.
func (v *OpenRouterKeyValidator) ValidateKey(ctx context.Context, apiKey string) (bool, string, error) {
	// oauth2.NewClient picks the base client up from the context.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/models", nil)
	if err != nil {
		return false, "", fmt.Errorf("failed to build validation request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, "", fmt.Errorf("failed to reach provider: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, "", nil
	case http.StatusUnauthorized:
		return false, "Invalid API key", nil
	default:
		return false, fmt.Sprintf("API returned status %d", resp.StatusCode), nil
	}
}
