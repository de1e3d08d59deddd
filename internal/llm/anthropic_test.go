package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropic_Complete(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantText string
		wantMsg  string
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `{"content":[{"type":"text","text":"  ROLE: editor "}]}`,
			wantText: "ROLE: editor",
		},
		{
			name:     "http status",
			status:   http.StatusTooManyRequests,
			body:     "slow down",
			wantKind: KindHTTPStatus,
			wantMsg:  "429: slow down",
		},
		{
			name:     "provider error",
			status:   http.StatusOK,
			body:     `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`,
			wantKind: KindProvider,
			wantMsg:  "Overloaded",
		},
		{
			name:     "no text blocks",
			status:   http.StatusOK,
			body:     `{"content":[]}`,
			wantKind: KindDecode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make(chan [2]string, 1)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen <- [2]string{r.Header.Get("x-api-key"), r.URL.Path}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			res := NewAnthropic(Options{BaseURL: srv.URL}).Complete(context.Background(), "sk-ant", "instruction")
			got := <-seen
			assert.Equal(t, "sk-ant", got[0])
			assert.Equal(t, "/messages", got[1])

			if tt.wantKind == "" {
				require.True(t, res.OK(), res.Display())
				assert.Equal(t, tt.wantText, res.Text)
				return
			}
			require.False(t, res.OK())
			assert.Equal(t, tt.wantKind, res.Err.Kind)
			assert.Contains(t, res.Display(), tt.wantMsg)
		})
	}
}
