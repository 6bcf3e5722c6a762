package resource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vango-go/recipes/pkg/session"
)

func TestSessionLookup(t *testing.T) {
	mgr := session.NewManager(session.ManagerConfig{CleanupInterval: time.Hour}, nil)
	defer mgr.Shutdown(context.Background())

	rec := httptest.NewRecorder()
	sess, err := mgr.Resolve(rec, httptest.NewRequest(http.MethodGet, "/camera", nil))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	cookie := &http.Cookie{Name: session.CookieName, Value: sess.ID}
	lookup := SessionLookup(mgr)

	withCookie := httptest.NewRequest(http.MethodGet, PathPrefix+"/x/y", nil)
	withCookie.AddCookie(cookie)

	// The session exists but has not registered anything yet.
	if _, err := lookup(withCookie); !errors.Is(err, ErrNotFound) {
		t.Errorf("lookup before ForSession: err = %v, want ErrNotFound", err)
	}

	reg := ForSession(sess, 2)
	if ForSession(sess, 2) != reg {
		t.Fatal("ForSession returned a different registry on second call")
	}

	got, err := lookup(withCookie)
	if err != nil || got != reg {
		t.Errorf("lookup = %v, %v; want the session registry", got, err)
	}

	anonymous := httptest.NewRequest(http.MethodGet, PathPrefix+"/x/y", nil)
	if _, err := lookup(anonymous); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("lookup without cookie: err = %v, want session.ErrNotFound", err)
	}
	if mgr.Len() != 1 {
		t.Errorf("lookup created sessions: Len = %d", mgr.Len())
	}
}
