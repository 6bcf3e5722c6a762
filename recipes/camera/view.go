// Package camera is the "take a photo from my phone" recipe: an upload
// control with the HTML capture hint, and an output area that grows by one
// labelled block per upload.
package camera

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/vango-go/recipes/pkg/imageinfo"
	"github.com/vango-go/recipes/pkg/resource"
	"github.com/vango-go/recipes/pkg/upload"
	"github.com/vango-go/recipes/pkg/vdom"
)

// OutputID is the id of the output container.
const OutputID = "output"

// Block is the output of one upload: a file-name label followed by the
// preview.
type Block struct {
	Label   *vdom.VNode
	Content *vdom.VNode
}

// Node returns the block as a fragment, label first.
func (b Block) Node() *vdom.VNode {
	return vdom.Fragment(b.Label, b.Content)
}

// ViewConfig configures a View.
type ViewConfig struct {
	// Endpoint is where the upload form posts.
	Endpoint string

	// Resources receives the image sources. Default: a new registry.
	Resources *resource.Registry

	// OnBlock runs after each block is appended.
	OnBlock func(ctx context.Context, b Block)

	// Logger. Default: slog.Default().
	Logger *slog.Logger
}

// View is one browser's camera page.
type View struct {
	buffer    *upload.MemoryBuffer
	upload    *upload.Upload
	resources *resource.Registry
	onBlock   func(ctx context.Context, b Block)
	logger    *slog.Logger

	mu     sync.RWMutex
	blocks []Block
}

// NewView creates a View with an image-only, rear-camera upload.
func NewView(config ViewConfig) *View {
	if config.Resources == nil {
		config.Resources = resource.NewRegistry(resource.DefaultMaxResources)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	v := &View{
		buffer:    upload.NewMemoryBuffer(),
		resources: config.Resources,
		onBlock:   config.OnBlock,
		logger:    config.Logger.With("component", "camera_view"),
	}

	v.upload = upload.New(v.buffer, config.Endpoint)
	v.upload.SetAcceptedFileTypes("image/*")
	// https://caniuse.com/html-media-capture
	v.upload.SetCapture("environment")
	v.upload.AddSucceededListener(func(ctx context.Context, ev upload.SucceededEvent) {
		content := v.createContent(ev.MIMEType, ev.FileName, ev.Open())
		v.showOutput(ctx, ev.FileName, content)
	})

	return v
}

// Upload returns the view's upload widget.
func (v *View) Upload() *upload.Upload {
	return v.upload
}

// Blocks returns the output blocks, oldest first.
func (v *View) Blocks() []Block {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Block(nil), v.blocks...)
}

// Output renders the output container with every block so far.
func (v *View) Output() *vdom.VNode {
	out := vdom.Div(vdom.ID(OutputID), vdom.Class("output"), vdom.AriaLive("polite"))
	for _, b := range v.Blocks() {
		out.Append(b.Label, b.Content)
	}
	return out
}

// Render implements vdom.Component.
func (v *View) Render() *vdom.VNode {
	return vdom.Div(
		vdom.Class("camera"),
		v.upload,
		v.Output(),
	)
}

func (v *View) createContent(mimeType, fileName string, r io.Reader) *vdom.VNode {
	if strings.HasPrefix(mimeType, "image") {
		return v.createImage(mimeType, fileName, r)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		v.logger.Error("read upload", "file", fileName, "mime", mimeType, "error", err)
	}
	sum := sha256.Sum256(data)
	text := fmt.Sprintf("Mime type: '%s'\nSHA-256 hash: '%s'", mimeType, formatSignedBytes(sum[:]))
	return vdom.Div(vdom.Class("summary"), vdom.StyleAttr("white-space: pre-line"), vdom.Text(text))
}

// createImage serves the bytes as a stream resource and sizes the image to
// its intrinsic dimensions when a decoder recognises the header.
func (v *View) createImage(mimeType, fileName string, r io.Reader) *vdom.VNode {
	data, err := io.ReadAll(r)
	if err != nil {
		v.logger.Error("read upload", "file", fileName, "mime", mimeType, "error", err)
		return vdom.Img()
	}

	res := v.resources.Register(fileName, mimeType, resource.FromBytes(data))
	attrs := []vdom.Attr{vdom.Src(res.URL())}

	dims, err := imageinfo.Probe(bytes.NewReader(data))
	switch {
	case errors.Is(err, imageinfo.ErrNoDecoder):
		// Unknown format: leave the image unsized.
	case err != nil:
		v.logger.Error("read image dimensions", "file", fileName, "mime", mimeType, "error", err)
	default:
		attrs = append(attrs, vdom.StyleAttr("width: "+dims.CSSWidth()+"; height: "+dims.CSSHeight()))
	}
	return vdom.Img(attrs)
}

func (v *View) showOutput(ctx context.Context, text string, content *vdom.VNode) {
	b := Block{
		Label:   vdom.P(vdom.Text(text)),
		Content: content,
	}

	v.mu.Lock()
	v.blocks = append(v.blocks, b)
	v.mu.Unlock()

	if v.onBlock != nil {
		v.onBlock(ctx, b)
	}
}

// formatSignedBytes renders b as a list of signed bytes, e.g. "[-29, 72, 5]".
func formatSignedBytes(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, c := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(int8(c))))
	}
	sb.WriteByte(']')
	return sb.String()
}
