package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector("test")

	c.ObserveSentence(10*time.Millisecond, 3)
	c.ObserveSentence(20*time.Millisecond, 1)
	c.ObserveFailure("parse")
	c.ObserveStore("save_run", nil)
	c.ObserveStore("save_run", errors.New("disk full"))
	c.ObserveStore("save_run", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.SentencesAnalyzed))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SentencesFailed.WithLabelValues("parse")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.SentencesFailed.WithLabelValues("analyze")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.StoreOperations.WithLabelValues("save_run", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StoreOperations.WithLabelValues("save_run", "error")))

	t.Run("Handler exposes the registry", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		body, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "test_sentences_analyzed_total 2")
		assert.Contains(t, string(body), "test_clauses_per_sentence_count 2")
	})

	t.Run("Separate registries", func(t *testing.T) {
		other := NewCollector("test")
		assert.Equal(t, 0.0, testutil.ToFloat64(other.SentencesAnalyzed))
	})
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveSentence(time.Second, 1)
		c.ObserveFailure("analyze")
		c.ObserveStore("load_run", nil)
	})
}
