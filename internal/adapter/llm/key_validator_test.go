package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouterKeyValidator_ValidateKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Header.Get("Authorization") {
		case "Bearer sk-good":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"data":[]}`))
		case "Bearer sk-bad":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	v := NewOpenRouterKeyValidator(srv.URL+"/api/v1/", time.Second)

	tests := []struct {
		name      string
		key       string
		wantValid bool
		wantMsg   string
	}{
		{"valid key", "sk-good", true, ""},
		{"rejected key", "sk-bad", false, "Invalid API key"},
		{"other status", "sk-limited", false, "API returned status 429"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg, err := v.ValidateKey(context.Background(), tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, valid)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestOpenRouterKeyValidator_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	v := NewOpenRouterKeyValidator(url, time.Second)
	valid, _, err := v.ValidateKey(context.Background(), "sk-any")
	assert.Error(t, err)
	assert.False(t, valid)
}
