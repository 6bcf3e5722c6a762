package render

import (
	"io"

	"github.com/vango-go/recipes/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Meta contains additional meta tags.
	Meta []MetaTag

	// Styles contains inline CSS blocks.
	Styles []string

	// Scripts are written at the end of the body, in order.
	Scripts []ScriptTag

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name    string
	Content string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Defer  bool   // defer attribute
	Module bool   // type="module"
	Inline string // inline script content
}

// RenderPage renders a complete HTML document to the given writer.
// The document shell is built as a vdom tree so head and body share
// the renderer's escaping and attribute ordering.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	doc := vdom.Html(
		vdom.Lang(lang),
		pageHead(page),
		vdom.Body(
			page.Body,
			vdom.Range(page.Scripts, func(s ScriptTag, _ int) *vdom.VNode { return scriptNode(s) }),
		),
	)
	if err := r.RenderToWriter(w, doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// pageHead builds the document head.
func pageHead(page PageData) *vdom.VNode {
	return vdom.Head(
		vdom.Meta(vdom.Attribute("charset", "utf-8")),
		vdom.Meta(vdom.Name("viewport"), vdom.Attribute("content", "width=device-width, initial-scale=1")),
		vdom.If(page.Title != "", vdom.Title(vdom.Text(page.Title))),
		vdom.Range(page.Meta, func(m MetaTag, _ int) *vdom.VNode {
			return vdom.Meta(vdom.Name(m.Name), vdom.Attribute("content", m.Content))
		}),
		vdom.Range(page.Styles, func(css string, _ int) *vdom.VNode {
			return vdom.Style(vdom.Text(css))
		}),
	)
}

// scriptNode builds a script element. Inline content is written unescaped.
func scriptNode(s ScriptTag) *vdom.VNode {
	var attrs []vdom.Attr
	if s.Src != "" {
		attrs = append(attrs, vdom.Src(s.Src))
	}
	if s.Module {
		attrs = append(attrs, vdom.Type("module"))
	}
	return vdom.Script(attrs, vdom.Defer(s.Defer), vdom.If(s.Inline != "", vdom.Text(s.Inline)))
}
