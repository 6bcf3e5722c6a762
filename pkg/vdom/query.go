package vdom

// Find returns the first node, in depth-first pre-order, for which match
// returns true. The root itself is considered.
func (v *VNode) Find(match func(*VNode) bool) *VNode {
	if v == nil {
		return nil
	}
	if match(v) {
		return v
	}
	for _, child := range v.Children {
		if found := child.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node for which match returns true, in document order.
func (v *VNode) FindAll(match func(*VNode) bool) []*VNode {
	var out []*VNode
	v.walk(func(n *VNode) {
		if match(n) {
			out = append(out, n)
		}
	})
	return out
}

func (v *VNode) walk(fn func(*VNode)) {
	if v == nil {
		return
	}
	fn(v)
	for _, child := range v.Children {
		child.walk(fn)
	}
}

// ByTag matches elements with the given tag name.
func ByTag(tag string) func(*VNode) bool {
	return func(n *VNode) bool {
		return n.Kind == KindElement && n.Tag == tag
	}
}

// ByID matches the element with the given id attribute.
func ByID(id string) func(*VNode) bool {
	return func(n *VNode) bool {
		got, ok := n.Attr("id")
		return n.Kind == KindElement && ok && got == id
	}
}
