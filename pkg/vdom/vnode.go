package vdom

import "fmt"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <img>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindRaw                   // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is a virtual DOM node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes
	Children []*VNode // Child nodes
	Text     string   // For KindText and KindRaw
}

// Props holds element attributes.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *VNode
}

// Render implements Component.
func (f *FuncComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &FuncComponent{render: render}
}

// Append adds children to the end of an element or fragment.
// Existing children are left untouched. Arguments follow the same rules as
// element factories: *VNode, []*VNode, Component, string, or nil.
func (v *VNode) Append(children ...any) *VNode {
	if v == nil {
		return nil
	}
	for _, child := range children {
		v.Children = appendChild(v.Children, child)
	}
	return v
}

// Attr returns the string form of an attribute and whether it is set.
func (v *VNode) Attr(key string) (string, bool) {
	if v == nil || v.Props == nil {
		return "", false
	}
	value, ok := v.Props[key]
	if !ok {
		return "", false
	}
	switch val := value.(type) {
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	default:
		return fmt.Sprintf("%v", val), true
	}
}

// HasAttr reports whether the attribute is set.
func (v *VNode) HasAttr(key string) bool {
	_, ok := v.Attr(key)
	return ok
}

// TextContent concatenates every text node below v, in document order.
func (v *VNode) TextContent() string {
	if v == nil {
		return ""
	}
	if v.Kind == KindText {
		return v.Text
	}
	var out string
	for _, child := range v.Children {
		out += child.TextContent()
	}
	return out
}

// appendChild normalises one factory argument into child nodes.
func appendChild(children []*VNode, arg any) []*VNode {
	switch c := arg.(type) {
	case nil:
		return children
	case *VNode:
		if c != nil {
			children = append(children, c)
		}
	case []*VNode:
		for _, n := range c {
			if n != nil {
				children = append(children, n)
			}
		}
	case Component:
		if n := c.Render(); n != nil {
			children = append(children, n)
		}
	case string:
		children = append(children, Text(c))
	}
	return children
}
