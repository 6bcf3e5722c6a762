// Package resource serves in-memory byte sources to the browser by URL.
//
// A StreamResource is the server half of an <img src>: the view registers a
// reader factory and renders the resource's URL; the browser fetches it
// later through Handler. Each Open call returns a fresh reader, so the same
// resource can be served any number of times.
package resource

import (
	"bytes"
	"container/list"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PathPrefix is where Handler is mounted.
const PathPrefix = "/_recipes/resource"

// DefaultMaxResources bounds a registry when no limit is configured.
const DefaultMaxResources = 64

// ErrNotFound is returned for unknown or evicted resources.
var ErrNotFound = errors.New("resource: not found")

// StreamResource is a lazily re-readable byte source keyed by file name.
type StreamResource struct {
	ID          string
	FileName    string
	ContentType string
	Created     time.Time

	open func() io.ReadSeeker
}

// Open returns a new reader over the resource's content.
func (s *StreamResource) Open() io.ReadSeeker {
	return s.open()
}

// URL returns the path the resource is served from.
func (s *StreamResource) URL() string {
	return PathPrefix + "/" + s.ID + "/" + url.PathEscape(s.FileName)
}

// FromBytes returns a reader factory over a fixed byte slice.
// The slice must not be modified afterwards.
func FromBytes(data []byte) func() io.ReadSeeker {
	return func() io.ReadSeeker { return bytes.NewReader(data) }
}

// Registry holds the resources of one owner, usually a session.
// The oldest resource is evicted once MaxResources is reached.
type Registry struct {
	mu        sync.Mutex
	max       int
	order     *list.List
	resources map[string]*list.Element
}

// NewRegistry creates a Registry holding at most max resources.
// A non-positive max selects DefaultMaxResources.
func NewRegistry(max int) *Registry {
	if max <= 0 {
		max = DefaultMaxResources
	}
	return &Registry{
		max:       max,
		order:     list.New(),
		resources: make(map[string]*list.Element),
	}
}

// Register adds a resource and returns it.
func (r *Registry) Register(fileName, contentType string, open func() io.ReadSeeker) *StreamResource {
	res := &StreamResource{
		ID:          uuid.NewString(),
		FileName:    fileName,
		ContentType: contentType,
		Created:     time.Now(),
		open:        open,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.resources[res.ID] = r.order.PushBack(res)
	for r.order.Len() > r.max {
		oldest := r.order.Front()
		r.order.Remove(oldest)
		delete(r.resources, oldest.Value.(*StreamResource).ID)
	}
	return res
}

// Get returns the resource with the given ID.
func (r *Registry) Get(id string) (*StreamResource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	el, ok := r.resources[id]
	if !ok {
		return nil, ErrNotFound
	}
	return el.Value.(*StreamResource), nil
}

// Len returns the number of resources held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Len()
}

// Clear removes every resource.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order.Init()
	clear(r.resources)
}

// Lookup resolves the registry for a request, typically through its session.
type Lookup func(req *http.Request) (*Registry, error)

// Handler serves resources under PathPrefix/{id}/{name}. Mount it with
// chi so the URL parameters are available:
//
//	r.Get(resource.PathPrefix+"/{id}/{name}", resource.Handler(lookup).ServeHTTP)
func Handler(lookup Lookup) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		reg, err := lookup(req)
		if err != nil || reg == nil {
			http.NotFound(w, req)
			return
		}

		res, err := reg.Get(chi.URLParam(req, "id"))
		if err != nil {
			http.NotFound(w, req)
			return
		}

		contentType := res.ContentType
		if contentType == "" || strings.ContainsAny(contentType, "\r\n") {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "private, max-age=3600")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		http.ServeContent(w, req, res.FileName, res.Created, res.Open())
	})
}
