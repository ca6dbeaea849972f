package parse_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clausetree/internal/parse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goHomeResponse = `{
  "model": "en_core_web_sm",
  "sentences": [
    {"text": "Stop.", "tokens": [
      {"i": 0, "text": "Stop", "lemma": "stop", "pos": "VERB", "tag": "VB", "dep": "ROOT", "head": 0, "space_after": false},
      {"i": 1, "text": ".", "lemma": ".", "pos": "PUNCT", "tag": ".", "dep": "punct", "head": 0}
    ], "noun_chunks": []},
    {"text": "Go home!", "tokens": [
      {"i": 2, "text": "Go", "lemma": "go", "pos": "VERB", "tag": "VB", "dep": "ROOT", "head": 2},
      {"i": 3, "text": "home", "lemma": "home", "pos": "NOUN", "tag": "NN", "dep": "dobj", "head": 2, "space_after": false},
      {"i": 4, "text": "!", "lemma": "!", "pos": "PUNCT", "tag": ".", "dep": "punct", "head": 2}
    ], "noun_chunks": [{"start": 3, "end": 4, "root": 3}]}
  ]
}`

func newParseServer(t *testing.T, models []string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/models", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][]string{"models": models})
	})
	mux.HandleFunc("/parse", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text  string `json:"text"`
			Model string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Text == "boom" {
			http.Error(w, "internal", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(goHomeResponse))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPService_Parse(t *testing.T) {
	srv := newParseServer(t, []string{"en_core_web_sm"})
	svc := parse.NewHTTPService(srv.URL, 5*time.Second, parse.DefaultBreakerConfig(), nil)
	ctx := context.Background()

	p, err := svc.Open(ctx, "en_core_web_sm")
	require.NoError(t, err)
	assert.Equal(t, "en_core_web_sm", p.Model())

	doc, err := p.Parse(ctx, "Stop. Go home!")
	require.NoError(t, err)
	require.Len(t, doc.Sentences, 2)

	t.Run("Sentence split preserved", func(t *testing.T) {
		assert.Equal(t, "Stop.", doc.Sentences[0].Text)
		assert.Equal(t, "Go home!", doc.Sentences[1].Text)
	})

	t.Run("Document indices rebased per sentence", func(t *testing.T) {
		s := doc.Sentences[1]
		assert.Equal(t, 0, s.Root())
		assert.Equal(t, 0, s.Tokens[1].Head)
		assert.Equal(t, []parse.NounChunk{{Start: 1, End: 2, Root: 1}}, s.Chunks)
		assert.Equal(t, "Go home!", s.SpanText(0, s.Len()))
	})

	t.Run("Server errors propagate", func(t *testing.T) {
		_, err := p.Parse(ctx, "boom")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})
}

func TestHTTPService_OpenMissingModel(t *testing.T) {
	srv := newParseServer(t, []string{"en_core_web_sm"})
	svc := parse.NewHTTPService(srv.URL, 5*time.Second, parse.DefaultBreakerConfig(), nil)

	_, err := svc.Open(context.Background(), "de_core_web_sm")
	assert.True(t, errors.Is(err, parse.ErrParseUnavailable))
}
