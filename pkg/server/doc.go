// Package server hosts recipes behind one chi router.
//
// A Server owns the process-wide pieces every recipe shares: the session
// manager, the live push hub, the HTML renderer and the route table.
// Recipes are mounted at their own route; the server adds the index page,
// the thin client script, stream resources, health and metrics.
//
//	srv := server.New(server.DefaultConfig(), logger)
//	if err := srv.Mount(camera.New(camera.Config{
//	    Sessions: srv.Sessions(),
//	    Hub:      srv.Hub(),
//	    Renderer: srv.Renderer(),
//	})); err != nil {
//	    return err
//	}
//	return srv.Run(ctx)
//
// Run blocks until ctx is cancelled, then drains in-flight requests
// within ShutdownTimeout. Live connections and sessions are closed after
// the listener stops accepting.
package server
