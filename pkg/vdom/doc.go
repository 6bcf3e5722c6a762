// Package vdom provides the virtual node tree that recipe views are built from.
//
// A view never writes HTML directly. It composes VNodes with variadic
// factory functions and hands the tree to the render package:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	)
//
// # Containers
//
// Any element can act as a container. Append adds children at the end and
// never touches existing children, so a view can keep a long-lived output
// element and grow it one block at a time.
//
// # Queries
//
// Find and FindAll walk the tree depth-first. They exist mainly so tests can
// assert on a view's structure without parsing rendered HTML.
package vdom
