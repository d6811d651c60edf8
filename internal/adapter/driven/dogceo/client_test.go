package dogceo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/ericfisherdev/dogdiscoverer/internal/adapter/driven/dogceo"
	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *dogceo.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := dogceo.NewClientWithHTTPClient(server.Client(), server.URL+"/api/")
	require.NoError(t, err)

	return client
}

func TestFetchRandomImage_Success(t *testing.T) {
	var gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"https://images.dog.ceo/breeds/hound-afghan/n02088094_1003.jpg","status":"success"}`))
	})

	client := newTestClient(t, handler)
	img, err := client.FetchRandomImage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/api/breeds/image/random", gotPath)
	assert.True(t, img.OK())
	assert.Equal(t, "https://images.dog.ceo/breeds/hound-afghan/n02088094_1003.jpg", img.ImageURL)
}

func TestFetchRandomImage_ErrorStatusIsData(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error","message":"Breed not found","code":404}`))
	})

	client := newTestClient(t, handler)
	img, err := client.FetchRandomImage(context.Background())

	require.NoError(t, err)
	assert.False(t, img.OK())
	assert.Equal(t, "error", img.Status)
}

func TestFetchRandomImage_MalformedBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	client := newTestClient(t, handler)
	_, err := client.FetchRandomImage(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestFetchRandomImage_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, err := dogceo.NewClientWithHTTPClient(server.Client(), server.URL)
	require.NoError(t, err)
	server.Close()

	_, err = client.FetchRandomImage(context.Background())
	require.Error(t, err)
}

func TestFetchBreeds_ExpandsSubBreeds(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/breeds/list/all", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":{"hound":["afghan","basset"],"labrador":[]},"status":"success"}`))
	})

	client := newTestClient(t, handler)
	breeds, err := client.FetchBreeds(context.Background())
	require.NoError(t, err)

	labels := make([]string, 0, len(breeds))
	for _, b := range breeds {
		labels = append(labels, b.Label)
	}
	sort.Strings(labels)

	assert.Equal(t, []string{"Hound Afghan", "Hound Basset", "Labrador"}, labels)

	for _, b := range breeds {
		if b.Label == "Hound Afghan" {
			assert.Equal(t, "hound-afghan", b.Slug)
			assert.Equal(t, model.BreedFromURL("https://images.dog.ceo/breeds/"+b.Slug+"/x.jpg"), b.Label)
		}
	}
}

func TestFetchBreeds_NonSuccessIsError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":{},"status":"error"}`))
	})

	client := newTestClient(t, handler)
	_, err := client.FetchBreeds(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `status "error"`)
}

func TestNewClient_RejectsBadScheme(t *testing.T) {
	_, err := dogceo.NewClient("ftp://dog.ceo/api", time.Second, nil)
	require.Error(t, err)
}

func TestNewClient_DefaultsBaseURL(t *testing.T) {
	client, err := dogceo.NewClient("", time.Second, nil)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClient_RateLimiterBlocksUntilContextDone(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"message":"https://images.dog.ceo/breeds/pug/a.jpg","status":"success"}`))
	}))
	t.Cleanup(server.Close)

	// One token, refilled once per hour: the second call must wait.
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	client, err := dogceo.NewClient(server.URL, time.Second, limiter)
	require.NoError(t, err)

	_, err = client.FetchRandomImage(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.FetchRandomImage(ctx)

	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}
