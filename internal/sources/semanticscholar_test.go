package sources

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/transport"
)

func testS2Transport() *transport.Transport {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return transport.New(transport.Config{CacheOff: true}, logger)
}

func TestBatchFetchIssuesExactlyTwoPostsFor600IDs(t *testing.T) {
	var mu sync.Mutex
	var batchSizes []int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/paper/batch", r.URL.Path)

		var body struct {
			IDs []string `json:"ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		mu.Lock()
		batchSizes = append(batchSizes, len(body.IDs))
		mu.Unlock()

		results := make([]s2Paper, len(body.IDs))
		for i, id := range body.IDs {
			results[i] = s2Paper{PaperID: id, Title: "T " + id}
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(results))
	}))
	defer server.Close()

	adapter := &SemanticScholarAdapter{transport: testS2Transport(), baseURL: server.URL}

	ids := make([]string, 600)
	for i := range ids {
		ids[i] = fmt.Sprintf("id%d", i)
	}

	papers, err := adapter.BatchFetch(t.Context(), ids)
	require.NoError(t, err)
	assert.Len(t, papers, 600)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, batchSizes, 2, "600 ids at a 500-id batch cap must issue exactly two POSTs")
	assert.Equal(t, 500, batchSizes[0])
	assert.Equal(t, 100, batchSizes[1])
}

func TestBatchFetchSkipsNullEntriesForUnknownIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"paperId":"known","title":"Known Paper"},null]`))
	}))
	defer server.Close()

	adapter := &SemanticScholarAdapter{transport: testS2Transport(), baseURL: server.URL}

	papers, err := adapter.BatchFetch(t.Context(), []string{"known", "missing"})
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "known", papers[0].SourceID)
}

func TestFetchReferencesResolvesIDsThenBatchFetchesFullRecords(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/paper/root", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "fields=references.paperId")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"references":[{"paperId":"r1"},{"paperId":"r2"}]}`))
	})
	mux.HandleFunc("/paper/batch", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			IDs []string `json:"ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"r1", "r2"}, body.IDs)

		results := make([]s2Paper, len(body.IDs))
		for i, id := range body.IDs {
			results[i] = s2Paper{PaperID: id, Title: "Title " + id}
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(results))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	adapter := &SemanticScholarAdapter{transport: testS2Transport(), baseURL: server.URL}

	papers, err := adapter.FetchReferences(t.Context(), "root", 10)
	require.NoError(t, err)
	require.Len(t, papers, 2)
	assert.Equal(t, "r1", papers[0].SourceID)
	assert.Equal(t, "r2", papers[1].SourceID)
}
