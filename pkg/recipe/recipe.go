// Package recipe describes self-contained demo pages and renders the index
// that links to them.
package recipe

import (
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/vango-go/recipes/pkg/vdom"
)

// Metadata is what the index shows for a recipe.
type Metadata struct {
	// HowDoI completes the sentence "How do I ...".
	HowDoI string

	// Description is a one-line summary.
	Description string

	Tags []string
}

// Recipe is one demo page.
type Recipe interface {
	// Route is the mount path, e.g. "/camera".
	Route() string

	Metadata() Metadata

	// Routes registers the recipe's handlers relative to Route.
	Routes(r chi.Router)
}

// Registry keeps recipes in registration order.
type Registry struct {
	mu      sync.RWMutex
	recipes []Recipe
	byRoute map[string]Recipe
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byRoute: make(map[string]Recipe)}
}

// Add registers a recipe. It reports false if the route is taken.
func (r *Registry) Add(rec Recipe) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byRoute[rec.Route()]; exists {
		return false
	}
	r.byRoute[rec.Route()] = rec
	r.recipes = append(r.recipes, rec)
	return true
}

// Get returns the recipe mounted at route.
func (r *Registry) Get(route string) (Recipe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byRoute[route]
	return rec, ok
}

// All returns the recipes sorted by HowDoI.
func (r *Registry) All() []Recipe {
	r.mu.RLock()
	all := append([]Recipe(nil), r.recipes...)
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return strings.ToLower(all[i].Metadata().HowDoI) < strings.ToLower(all[j].Metadata().HowDoI)
	})
	return all
}

// Index renders the recipe list.
func Index(recipes []Recipe) *vdom.VNode {
	items := vdom.Range(recipes, func(rec Recipe, _ int) *vdom.VNode {
		meta := rec.Metadata()
		item := vdom.Li(
			vdom.Class("recipe"),
			vdom.A(vdom.Href(rec.Route()), vdom.Text(meta.HowDoI)),
			vdom.If(meta.Description != "", vdom.P(vdom.Class("description"), vdom.Text(meta.Description))),
		)
		if len(meta.Tags) > 0 {
			tags := vdom.Ul(vdom.Class("tags"))
			for _, tag := range meta.Tags {
				tags.Append(vdom.Li(vdom.Text(tag)))
			}
			item.Append(tags)
		}
		return item
	})

	return vdom.Main(
		vdom.H1(vdom.Text("How do I...")),
		vdom.If(len(items) == 0, vdom.P(vdom.Text("No recipes yet."))),
		vdom.If(len(items) > 0, vdom.Ul(vdom.Class("recipes"), items)),
	)
}
