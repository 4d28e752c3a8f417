package memory

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// setInnerHTML replaces the children of n with the parsed markup. Markup that
// fails to parse is kept as a single text node.
func setInnerHTML(n *Node, markup string) {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	if markup == "" {
		return
	}
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		n.insertAt(&Node{Type: TextNode, Data: markup}, -1)
		return
	}
	for _, p := range parsed {
		if c := fromHTML(p); c != nil {
			n.insertAt(c, -1)
		}
	}
}

func fromHTML(h *html.Node) *Node {
	switch h.Type {
	case html.TextNode:
		return &Node{Type: TextNode, Data: h.Data}
	case html.CommentNode:
		return &Node{Type: CommentNode, Data: h.Data}
	case html.ElementNode:
		n := &Node{Type: ElementNode, Tag: h.Data, Namespace: h.Namespace, attrs: map[string]any{}}
		for _, a := range h.Attr {
			n.attrs[a.Key] = a.Val
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				n.insertAt(child, -1)
			}
		}
		return n
	default:
		return nil
	}
}

// OuterHTML serializes n and its subtree. Attributes are written in sorted
// order; map-valued style attributes are flattened to "key:value;" pairs.
func OuterHTML(n *Node) string {
	var b strings.Builder
	writeHTML(&b, n)
	return b.String()
}

// InnerHTML serializes the children of n.
func InnerHTML(n *Node) string {
	var b strings.Builder
	for _, c := range n.children {
		writeHTML(&b, c)
	}
	return b.String()
}

func writeHTML(b *strings.Builder, n *Node) {
	switch n.Type {
	case TextNode:
		b.WriteString(html.EscapeString(n.Data))
	case CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case ElementNode:
		b.WriteString("<")
		b.WriteString(n.Tag)
		keys := make([]string, 0, len(n.attrs))
		for k := range n.attrs {
			if k == InnerHTMLProp {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(" ")
			b.WriteString(attrName(k))
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(attrValue(n.attrs[k])))
			b.WriteString(`"`)
		}
		b.WriteString(">")
		for _, c := range n.children {
			writeHTML(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteString(">")
	}
}

func attrName(key string) string {
	switch key {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	default:
		return key
	}
}

func attrValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return ""
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&b, "%s:%v;", k, val[k])
		}
		return b.String()
	default:
		return fmt.Sprint(val)
	}
}
