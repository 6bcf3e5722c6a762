package camera

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vango-go/recipes/pkg/live"
	"github.com/vango-go/recipes/pkg/middleware"
	"github.com/vango-go/recipes/pkg/recipe"
	"github.com/vango-go/recipes/pkg/render"
	"github.com/vango-go/recipes/pkg/resource"
	"github.com/vango-go/recipes/pkg/session"
	"github.com/vango-go/recipes/pkg/upload"
	"github.com/vango-go/recipes/pkg/vdom"
)

// Route is where the recipe is mounted.
const Route = "/camera"

// viewKey is where a session's View is stored.
const viewKey = "camera.view"

// ClientScript is the URL of the thin client the page loads.
const ClientScript = "/_recipes/client.js"

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem;max-width:48rem}
.output img{display:block;max-width:100%;margin-bottom:1rem}
.output .summary{font-family:monospace;margin-bottom:1rem}
form[data-error]::after{content:attr(data-error);color:#b00;display:block}`

// Config holds the recipe's dependencies.
type Config struct {
	Sessions *session.Manager
	Hub      *live.Hub

	// Renderer renders pages and pushed blocks. Default: compact renderer.
	Renderer *render.Renderer

	// Upload configures the upload endpoint. MaxFileSize and AllowedTypes
	// come from the host configuration.
	Upload upload.Config

	// MaxResources bounds the images kept per session.
	MaxResources int

	// Logger. Default: slog.Default().
	Logger *slog.Logger
}

// Recipe serves the camera page.
type Recipe struct {
	config Config
	logger *slog.Logger
}

var _ recipe.Recipe = (*Recipe)(nil)

// New creates the camera recipe.
func New(config Config) *Recipe {
	if config.Renderer == nil {
		config.Renderer = render.NewRenderer(render.RendererConfig{})
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.MaxResources <= 0 {
		config.MaxResources = resource.DefaultMaxResources
	}
	return &Recipe{
		config: config,
		logger: config.Logger.With("component", "camera"),
	}
}

// Route implements recipe.Recipe.
func (c *Recipe) Route() string { return Route }

// Metadata implements recipe.Recipe.
func (c *Recipe) Metadata() recipe.Metadata {
	return recipe.Metadata{
		HowDoI:      "Take a photo from my phone",
		Description: "You can use your phone camera with an HTML5 attribute",
		Tags:        []string{"upload", "mobile", "image"},
	}
}

// Routes implements recipe.Recipe.
func (c *Recipe) Routes(r chi.Router) {
	uploadConfig := c.config.Upload
	uploadConfig.Redirect = Route
	if uploadConfig.Logger == nil {
		uploadConfig.Logger = c.config.Logger
	}
	uploadConfig.OnResult = recordUpload

	r.Use(c.config.Sessions.Middleware)
	r.With(dispatch).Get("/", c.page)
	r.With(dispatch).Method(http.MethodPost, "/upload", upload.Handler(c.lookupUpload, &uploadConfig))
	r.Get("/live", c.live)
}

// ViewFor returns the session's view, creating it on first use.
func (c *Recipe) ViewFor(sess *session.Session) *View {
	// Resolved first: GetOrCreate holds the session's value lock.
	resources := resource.ForSession(sess, c.config.MaxResources)
	return sess.GetOrCreate(viewKey, func() any {
		id := sess.ID
		return NewView(ViewConfig{
			Endpoint:  Route + "/upload",
			Resources: resources,
			Logger:    c.config.Logger,
			OnBlock: func(ctx context.Context, b Block) {
				c.push(id, b)
			},
		})
	}).(*View)
}

func (c *Recipe) lookupUpload(r *http.Request) (*upload.Upload, error) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		return nil, session.ErrNotFound
	}
	return c.ViewFor(sess).Upload(), nil
}

// push sends a new block to the session's open pages.
func (c *Recipe) push(sessionID string, b Block) {
	if c.config.Hub == nil {
		return
	}
	html, err := c.config.Renderer.RenderToString(b.Node())
	if err != nil {
		c.logger.Error("render block", "session_id", sessionID, "error", err)
		return
	}
	c.config.Hub.Append(sessionID, OutputID, html)
}

func (c *Recipe) page(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	view := c.ViewFor(sess)
	meta := c.Metadata()

	body := vdom.Main(
		vdom.Data("live", Route+"/live"),
		vdom.Nav(vdom.A(vdom.Href("/"), vdom.Text("All recipes"))),
		vdom.Header(
			vdom.H1(vdom.Text(meta.HowDoI)),
			vdom.P(vdom.Text(meta.Description)),
		),
		view,
	)

	var buf bytes.Buffer
	err := c.config.Renderer.RenderPage(&buf, render.PageData{
		Title:   meta.HowDoI,
		Body:    body,
		Meta:    []render.MetaTag{{Name: "description", Content: meta.Description}},
		Styles:  []string{pageStyle},
		Scripts: []render.ScriptTag{{Src: ClientScript, Defer: true}},
	})
	if err != nil {
		c.logger.Error("render page", "session_id", sess.ID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (c *Recipe) live(w http.ResponseWriter, r *http.Request) {
	if c.config.Hub == nil {
		http.NotFound(w, r)
		return
	}
	sess := session.FromContext(r.Context())
	if err := c.config.Hub.Serve(w, r, sess.ID); err != nil {
		c.logger.Debug("live connection rejected", "session_id", sess.ID, "error", err)
	}
}

// dispatch runs the request on the session's dispatch lock so page renders
// and uploads for one browser never overlap.
func dispatch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}
		sess.Do(func() { next.ServeHTTP(w, r) })
	})
}

func recordUpload(mimeType string, err error) {
	switch {
	case err != nil:
		middleware.RecordUpload(middleware.UploadFailed)
	case strings.HasPrefix(mimeType, "image"):
		middleware.RecordUpload(middleware.UploadImage)
	default:
		middleware.RecordUpload(middleware.UploadText)
	}
}
