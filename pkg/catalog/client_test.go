package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogBody = `{"packages":[
	{"id":"wikipedia_fr_all","name":"Wikipédia","language":"fr","size":1000},
	{"id":"wiktionary_en_all","name":"Wiktionary","language":"en","size":250},
	{"id":"","size":5}
]}`

func newCatalogServer(t *testing.T, calls *int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/packages", func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogBody))
	})
	mux.HandleFunc("/resources/docs.zip", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Content-Length", "4096")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientPackageIDsNeverCached(t *testing.T) {
	calls := 0
	srv := newCatalogServer(t, &calls)
	client := NewClient(srv.URL+"/", time.Second)

	ids, err := client.PackageIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"wikipedia_fr_all", "wiktionary_en_all"}, ids)

	_, err = client.PackageIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestClientPackageSizes(t *testing.T) {
	calls := 0
	srv := newCatalogServer(t, &calls)
	client := NewClient(srv.URL, time.Second)

	sizes, err := client.PackageSizes(context.Background(), []string{"wikipedia_fr_all", "unknown"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"wikipedia_fr_all": 1000}, sizes)

	empty, err := client.PackageSizes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, 1, calls)
}

func TestClientResourceSize(t *testing.T) {
	calls := 0
	srv := newCatalogServer(t, &calls)
	client := NewClient(srv.URL, time.Second)

	size, err := client.ResourceSize(context.Background(), srv.URL+"/resources/docs.zip")
	require.NoError(t, err)
	assert.EqualValues(t, 4096, size)

	_, err = client.ResourceSize(context.Background(), srv.URL+"/resources/missing.zip")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClientFailuresAreUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).PackageIDs(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer bad.Close()
	_, err = NewClient(bad.URL, time.Second).PackageIDs(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
