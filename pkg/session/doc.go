// Package session tracks per-browser UI sessions.
//
// A session is identified by the recipes_session cookie and owns the view
// instances created for that browser. Event dispatch for a session is
// serialised with Session.Do, so a view never sees two uploads or renders
// at once, while different sessions run in parallel.
//
//	mgr := session.NewManager(session.DefaultManagerConfig(), logger)
//	defer mgr.Shutdown(ctx)
//
//	r.Use(mgr.Middleware)
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//	    sess := session.FromContext(r.Context())
//	    view := sess.GetOrCreate("camera", func() any { return newView() })
//	    ...
//	})
//
// # Memory Protection
//
// Sessions idle longer than IdleTimeout are removed by a background loop.
// When MaxSessions is reached, the least recently active session is
// evicted. OnDestroy hooks run for both, and for every session still alive
// at Shutdown.
package session
