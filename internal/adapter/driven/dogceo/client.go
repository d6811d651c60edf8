// Package dogceo implements the DogAPI port against the dog.ceo REST API.
package dogceo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
	"golang.org/x/time/rate"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
	"github.com/ericfisherdev/dogdiscoverer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DogAPI = (*Client)(nil)

// DefaultBaseURL is the public dog.ceo API root.
const DefaultBaseURL = "https://dog.ceo/api"

const (
	randomImagePath = "/breeds/image/random"
	breedListPath   = "/breeds/list/all"

	// maxBodyBytes caps how much of an upstream body is decoded.
	maxBodyBytes = 1 << 20
)

// Client implements the driven.DogAPI port.
type Client struct {
	random    *http.Client
	catalog   *http.Client
	randomURL string
	breedsURL string
	limiter   *rate.Limiter
}

// NewClient creates a dog.ceo client with the following transport stack:
//  1. rate limiter (client-side pacing shared by all upstream calls, nil disables)
//  2. random image requests: plain transport, never cached
//  3. breed catalog requests: httpcache (honors upstream cache headers)
func NewClient(baseURL string, timeout time.Duration, limiter *rate.Limiter) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()

	return newClient(
		&http.Client{Timeout: timeout},
		&http.Client{Timeout: timeout, Transport: cacheTransport},
		baseURL,
		limiter,
	)
}

// NewClientWithHTTPClient creates a Client that uses httpClient for every call
// and applies no rate limit. Intended for testing with an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	return newClient(httpClient, httpClient, baseURL, nil)
}

func newClient(random, catalog *http.Client, baseURL string, limiter *rate.Limiter) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must be http or https", baseURL)
	}
	base := strings.TrimRight(u.String(), "/")

	return &Client{
		random:    random,
		catalog:   catalog,
		randomURL: base + randomImagePath,
		breedsURL: base + breedListPath,
		limiter:   limiter,
	}, nil
}

// randomImageResponse is the body of GET /breeds/image/random. On errors
// dog.ceo returns status "error" and a message describing the failure.
type randomImageResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// breedListResponse is the body of GET /breeds/list/all.
type breedListResponse struct {
	Message map[string][]string `json:"message"`
	Status  string              `json:"status"`
}

// FetchRandomImage requests one random image. The upstream status is returned
// as data regardless of the HTTP status code; only transport and decoding
// faults are errors.
func (c *Client) FetchRandomImage(ctx context.Context) (model.RandomImage, error) {
	var body randomImageResponse
	if err := c.getJSON(ctx, c.random, c.randomURL, &body); err != nil {
		return model.RandomImage{}, err
	}

	return model.RandomImage{
		Status:   body.Status,
		ImageURL: body.Message,
	}, nil
}

// FetchBreeds returns the full breed catalog. Breeds with sub-breeds expand to
// one entry per sub-breed, using the same hyphenated slug that appears in
// image URLs, so labels match those derived by model.BreedFromURL.
func (c *Client) FetchBreeds(ctx context.Context) ([]model.Breed, error) {
	var body breedListResponse
	if err := c.getJSON(ctx, c.catalog, c.breedsURL, &body); err != nil {
		return nil, err
	}

	if body.Status != model.StatusSuccess {
		return nil, fmt.Errorf("breed list returned status %q", body.Status)
	}

	breeds := make([]model.Breed, 0, len(body.Message))
	for breed, subs := range body.Message {
		if len(subs) == 0 {
			breeds = append(breeds, mapBreed(breed))
			continue
		}
		for _, sub := range subs {
			breeds = append(breeds, mapBreed(breed+"-"+sub))
		}
	}

	return breeds, nil
}

func (c *Client) getJSON(ctx context.Context, httpClient *http.Client, target string, v any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "dogdiscoverer/1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("decoding response from %s (HTTP %d): %w", target, resp.StatusCode, err)
	}

	return nil
}

func mapBreed(slug string) model.Breed {
	return model.Breed{
		Slug:  slug,
		Label: model.BreedLabel(slug),
	}
}
