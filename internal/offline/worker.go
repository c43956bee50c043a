// Package offline mirrors the service-worker layer of the Nova frontend:
// generational response caches with per-request strategies and a sync queue
// that replays actions taken while disconnected. The server never mounts it;
// it exists so the caching and replay policies are specified and tested in
// one place.
package offline

import (
	"context"
	"net/http"
	"strings"
	"sync"
)

// CachedResponse is the stored shape of a fetched response.
type CachedResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *CachedResponse) clone() *CachedResponse {
	copied := &CachedResponse{
		StatusCode: r.StatusCode,
		Header:     r.Header.Clone(),
		Body:       append([]byte(nil), r.Body...),
	}
	return copied
}

func (r *CachedResponse) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// CacheStorage is a set of named response caches, keyed by request path.
type CacheStorage struct {
	mu     sync.Mutex
	caches map[string]map[string]*CachedResponse
}

func NewCacheStorage() *CacheStorage {
	return &CacheStorage{caches: make(map[string]map[string]*CachedResponse)}
}

func (s *CacheStorage) Put(cacheName, key string, resp *CachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache, ok := s.caches[cacheName]
	if !ok {
		cache = make(map[string]*CachedResponse)
		s.caches[cacheName] = cache
	}
	cache[key] = resp.clone()
}

func (s *CacheStorage) Match(cacheName, key string) (*CachedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache, ok := s.caches[cacheName]
	if !ok {
		return nil, false
	}
	resp, ok := cache[key]
	if !ok {
		return nil, false
	}
	return resp.clone(), true
}

func (s *CacheStorage) Delete(cacheName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.caches, cacheName)
}

func (s *CacheStorage) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.caches))
	for name := range s.caches {
		names = append(names, name)
	}
	return names
}

// Fetcher is the network boundary the worker falls through to.
type Fetcher interface {
	Fetch(ctx context.Context, req *http.Request) (*CachedResponse, error)
}

// FetchFunc adapts a function to the Fetcher interface.
type FetchFunc func(ctx context.Context, req *http.Request) (*CachedResponse, error)

func (f FetchFunc) Fetch(ctx context.Context, req *http.Request) (*CachedResponse, error) {
	return f(ctx, req)
}

const shellPath = "/"

// DefaultStaticManifest is the app shell: the assets precached for offline
// startup.
var DefaultStaticManifest = []string{
	"/",
	"/index.html",
	"/offline.html",
	"/manifest.json",
	"/css/app.css",
	"/js/app.js",
}

// DefaultStaticPrefixes marks asset subtrees that are cache-first even when
// not in the manifest.
var DefaultStaticPrefixes = []string{
	"/assets/",
	"/avatars/",
	"/icons/",
	"/fonts/",
}

type Worker struct {
	storage        *CacheStorage
	fetcher        Fetcher
	staticCache    string
	dynamicCache   string
	staticManifest map[string]struct{}
	staticPrefixes []string
}

// NewWorker builds a worker for one cache generation. Bumping the generation
// string and re-running Activate drops every previous generation's entries.
func NewWorker(storage *CacheStorage, fetcher Fetcher, generation string) *Worker {
	manifest := make(map[string]struct{}, len(DefaultStaticManifest))
	for _, path := range DefaultStaticManifest {
		manifest[path] = struct{}{}
	}
	return &Worker{
		storage:        storage,
		fetcher:        fetcher,
		staticCache:    "nova-static-" + generation,
		dynamicCache:   "nova-dynamic-" + generation,
		staticManifest: manifest,
		staticPrefixes: append([]string(nil), DefaultStaticPrefixes...),
	}
}

// Activate evicts every cache that belongs to another generation.
func (w *Worker) Activate() {
	for _, name := range w.storage.Names() {
		if name != w.staticCache && name != w.dynamicCache {
			w.storage.Delete(name)
		}
	}
}

// Precache fetches the static manifest into the static cache. Failures on
// individual assets are skipped; startup must not depend on every asset
// being reachable.
func (w *Worker) Precache(ctx context.Context) {
	for path := range w.staticManifest {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
		if err != nil {
			continue
		}
		resp, err := w.fetcher.Fetch(ctx, req)
		if err != nil || !resp.ok() {
			continue
		}
		w.storage.Put(w.staticCache, path, resp)
	}
}

// Handle routes a request through the strategy its classification selects.
func (w *Worker) Handle(ctx context.Context, req *http.Request) (*CachedResponse, error) {
	switch {
	case w.isStaticAsset(req):
		return w.cacheFirst(ctx, req)
	case wantsHTML(req):
		return w.networkFirstWithShellFallback(ctx, req)
	default:
		return w.networkFirst(ctx, req)
	}
}

func (w *Worker) isStaticAsset(req *http.Request) bool {
	path := req.URL.Path
	if _, ok := w.staticManifest[path]; ok {
		return true
	}
	for _, prefix := range w.staticPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func wantsHTML(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "text/html")
}

func (w *Worker) cacheFirst(ctx context.Context, req *http.Request) (*CachedResponse, error) {
	if resp, ok := w.storage.Match(w.staticCache, req.URL.Path); ok {
		return resp, nil
	}

	resp, err := w.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.ok() {
		w.storage.Put(w.staticCache, req.URL.Path, resp)
	}
	return resp, nil
}

func (w *Worker) networkFirstWithShellFallback(ctx context.Context, req *http.Request) (*CachedResponse, error) {
	resp, fetchErr := w.fetcher.Fetch(ctx, req)
	if fetchErr == nil {
		if resp.ok() {
			w.storage.Put(w.dynamicCache, req.URL.Path, resp)
		}
		return resp, nil
	}

	if cached, ok := w.storage.Match(w.dynamicCache, req.URL.Path); ok {
		return cached, nil
	}
	if shell, ok := w.storage.Match(w.dynamicCache, shellPath); ok {
		return shell, nil
	}
	if shell, ok := w.storage.Match(w.staticCache, shellPath); ok {
		return shell, nil
	}
	return nil, fetchErr
}

func (w *Worker) networkFirst(ctx context.Context, req *http.Request) (*CachedResponse, error) {
	resp, fetchErr := w.fetcher.Fetch(ctx, req)
	if fetchErr == nil {
		if resp.ok() {
			w.storage.Put(w.dynamicCache, req.URL.Path, resp)
		}
		return resp, nil
	}

	if cached, ok := w.storage.Match(w.dynamicCache, req.URL.Path); ok {
		return cached, nil
	}
	return nil, fetchErr
}
