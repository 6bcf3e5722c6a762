// Package render provides server-side rendering for recipe views.
//
// The render package converts VNode trees into HTML, handling:
//
//   - HTML5 compliant element rendering
//   - Text and attribute escaping (XSS prevention)
//   - Void element handling (input, img, etc.)
//   - Boolean attribute handling (multiple, disabled, etc.)
//   - Full page rendering with DOCTYPE, head, body
//
// # Basic Usage
//
// To render a VNode tree to a string:
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
//	page := render.PageData{
//	    Body:  bodyNode,
//	    Title: "Camera",
//	}
//	err := renderer.RenderPage(w, page)
//
// # Security
//
// All text content is escaped. The contents of script and style elements
// are written verbatim, as are KindRaw nodes; both must only carry trusted
// content.
package render
