package resource

import (
	"net/http"

	"github.com/vango-go/recipes/pkg/session"
)

// sessionKey is where a session's registry is stored.
const sessionKey = "resource.registry"

// ForSession returns the session's registry, creating one bounded by max
// on first use.
func ForSession(sess *session.Session, max int) *Registry {
	return sess.GetOrCreate(sessionKey, func() any {
		return NewRegistry(max)
	}).(*Registry)
}

// SessionLookup resolves registries through the session cookie without
// creating sessions or registries for unknown browsers.
func SessionLookup(mgr *session.Manager) Lookup {
	return func(req *http.Request) (*Registry, error) {
		sess, err := mgr.FromRequest(req)
		if err != nil {
			return nil, err
		}
		reg, ok := sess.Get(sessionKey).(*Registry)
		if !ok {
			return nil, ErrNotFound
		}
		return reg, nil
	}
}
