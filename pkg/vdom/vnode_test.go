package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindRaw, "Raw"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppendKeepsExistingChildren(t *testing.T) {
	output := Div(ID("output"))
	first := P(Text("a.png"))
	output.Append(first, Img(Src("/a")))

	output.Append(P(Text("b.txt")), Div(Text("summary")))

	if len(output.Children) != 4 {
		t.Fatalf("children = %d, want 4", len(output.Children))
	}
	if output.Children[0] != first {
		t.Error("first child was replaced")
	}
	if got := output.Children[2].TextContent(); got != "b.txt" {
		t.Errorf("third child text = %q, want %q", got, "b.txt")
	}
}

func TestAppendIgnoresNil(t *testing.T) {
	n := Div()
	var missing *VNode
	n.Append(nil, missing, "text")

	if len(n.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(n.Children))
	}
	if n.Children[0].Kind != KindText {
		t.Errorf("kind = %v, want Text", n.Children[0].Kind)
	}
}

func TestAppendOnNilNode(t *testing.T) {
	var n *VNode
	if got := n.Append(Text("x")); got != nil {
		t.Errorf("Append on nil = %v, want nil", got)
	}
}

func TestAttrAccessor(t *testing.T) {
	n := Img(Src("/img"), Width("64px"), Disabled(true))

	if got, ok := n.Attr("src"); !ok || got != "/img" {
		t.Errorf("src = %q, %v", got, ok)
	}
	if got, ok := n.Attr("width"); !ok || got != "64px" {
		t.Errorf("width = %q, %v", got, ok)
	}
	if got, _ := n.Attr("disabled"); got != "true" {
		t.Errorf("disabled = %q, want true", got)
	}
	if n.HasAttr("height") {
		t.Error("height should not be set")
	}
}

func TestComponentChild(t *testing.T) {
	comp := Func(func() *VNode { return Span(Text("inner")) })
	n := Div(comp)

	if len(n.Children) != 1 || n.Children[0].Tag != "span" {
		t.Fatalf("component child not rendered: %+v", n.Children)
	}
}

func TestFind(t *testing.T) {
	tree := Main(
		Form(Input(Type("file"), ID("file"))),
		Div(ID("output"), P(Text("cat.png")), Img(Src("/r/1"))),
	)

	if got := tree.Find(ByID("output")); got == nil || got.Tag != "div" {
		t.Fatalf("Find(ByID) = %+v", got)
	}
	if got := tree.Find(ByTag("img")); got == nil {
		t.Fatal("img not found")
	}
	if got := tree.Find(ByTag("video")); got != nil {
		t.Errorf("unexpected match %+v", got)
	}
	if got := len(tree.FindAll(ByTag("p"))); got != 1 {
		t.Errorf("FindAll(p) = %d, want 1", got)
	}
}

func TestTextContent(t *testing.T) {
	n := Div(P(Text("a"), Span(Text("b"))), Text("c"))
	if got := n.TextContent(); got != "abc" {
		t.Errorf("TextContent = %q, want %q", got, "abc")
	}
}
