package client

import (
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// NewCachingHTTPClient creates an HTTP client that honours Cache-Control on
// cacheable procedures such as ListReferenceData. An empty cacheDir keeps
// the cache in memory for the life of the process.
func NewCachingHTTPClient(cacheDir string, base http.RoundTripper) *http.Client {
	var cache httpcache.Cache = httpcache.NewMemoryCache()
	if cacheDir != "" {
		cache = diskcache.New(cacheDir)
	}

	transport := httpcache.NewTransport(cache)
	if base != nil {
		transport.Transport = base
	}

	return &http.Client{Transport: transport}
}
