package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/myimpact/internal/apperrors"
)

func TestOpenAI_Complete(t *testing.T) {
	testCases := []struct {
		name           string
		status         int
		responseBody   string
		expected       string
		expectedErr    error
		expectedStatus int
	}{
		{
			name:         "returns the first choice verbatim",
			status:       http.StatusOK,
			responseBody: `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  I built things.\n"},"finish_reason":"stop"},{"index":1,"message":{"role":"assistant","content":"second"}}]}`,
			expected:     "  I built things.\n",
		},
		{
			name:         "empty choice list",
			status:       http.StatusOK,
			responseBody: `{"id":"c1","object":"chat.completion","choices":[]}`,
			expectedErr:  apperrors.ErrEmptyResponse,
		},
		{
			name:         "malformed body",
			status:       http.StatusOK,
			responseBody: `{"choices": [`,
			expectedErr:  apperrors.ErrParse,
		},
		{
			name:        "empty body",
			status:      http.StatusOK,
			expectedErr: apperrors.ErrParse,
		},
		{
			name:           "non-success status",
			status:         http.StatusUnauthorized,
			responseBody:   `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			expectedErr:    apperrors.ErrService,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "non-success status without an error object",
			status:         http.StatusBadGateway,
			responseBody:   `upstream unavailable`,
			expectedErr:    apperrors.ErrService,
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.responseBody)
			}
			server := httptest.NewServer(http.HandlerFunc(handler))
			defer server.Close()

			client := NewOpenAI("sk-test", "", server.URL+"/v1", log.New(io.Discard, "", 0))
			text, err := client.Complete(context.Background(), "prompt")

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				if tc.expectedStatus != 0 {
					var svcErr *apperrors.ServiceError
					require.True(t, errors.As(err, &svcErr))
					assert.Equal(t, tc.expectedStatus, svcErr.Status)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, text)
		})
	}
}

func TestOpenAI_RequestBody(t *testing.T) {
	var captured map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	}
	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	client := NewOpenAI("sk-test", "", server.URL+"/v1", log.New(io.Discard, "", 0))
	_, err := client.Complete(context.Background(), "summarize this")
	require.NoError(t, err)

	assert.Equal(t, DefaultOpenAIModel, captured["model"])
	assert.Equal(t, float64(2000), captured["max_tokens"])
	assert.InDelta(t, 0.7, captured["temperature"], 0.0001)
	assert.Equal(t, []any{map[string]any{"role": "user", "content": "summarize this"}}, captured["messages"])
}

func TestOpenAI_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewOpenAI("sk-test", "gpt-4o", url+"/v1", log.New(io.Discard, "", 0))
	_, err := client.Complete(context.Background(), "prompt")

	assert.NotErrorIs(t, err, apperrors.ErrParse)
	var svcErr *apperrors.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Zero(t, svcErr.Status)
}
