package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// GetText concatenates every text node under node without any layout, used
// for short inline content like the label of an <option>.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var hiddenElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Select:   true,
}

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Blockquote: true, atom.Center: true,
	atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Hr: true,
	atom.Li: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Table: true, atom.Tr: true, atom.Ul: true, atom.Caption: true,
}

var (
	collapsibleSpace = regexp.MustCompile(`[ \t\r\n\f]+`)
	trailingSpace    = regexp.MustCompile(`(?m)[ \t]+$`)
	extraNewlines    = regexp.MustCompile(`\n{3,}`)
)

type textWriter struct {
	buffer bytes.Buffer
}

func (w *textWriter) newline() {
	if w.buffer.Len() == 0 {
		return
	}
	w.buffer.WriteByte('\n')
}

func (w *textWriter) walk(node *html.Node, preformatted bool) {
	switch node.Type {
	case html.TextNode:
		if preformatted {
			w.buffer.WriteString(node.Data)
			return
		}
		w.buffer.WriteString(collapsibleSpace.ReplaceAllString(node.Data, " "))
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if hiddenElements[node.DataAtom] {
			return
		}
		switch node.DataAtom {
		case atom.Br:
			w.buffer.WriteByte('\n')
			return
		case atom.Td, atom.Th:
			if node.PrevSibling != nil {
				w.buffer.WriteByte('\t')
			}
		}
	}

	block := node.Type == html.ElementNode && blockElements[node.DataAtom]
	if block {
		w.newline()
	}
	pre := preformatted || node.DataAtom == atom.Pre
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		w.walk(child, pre)
	}
	if block {
		w.newline()
	}
}

// VisibleText renders the text of a document roughly the way a browser
// renders innerText: hidden elements are skipped, block elements and <br>
// start new lines and whitespace is only kept inside <pre>.
func VisibleText(node *html.Node) string {
	w := &textWriter{}
	w.walk(node, false)

	text := w.buffer.String()
	text = trailingSpace.ReplaceAllString(text, "")
	text = extraNewlines.ReplaceAllString(text, "\n\n")
	return strings.Trim(text, "\n")
}

// DocumentText returns the visible text of the document's body, or of the
// whole document when there is no body.
func DocumentText(doc *goquery.Document) string {
	body := doc.Find("body")
	if body.Length() == 0 {
		return VisibleText(doc.Selection.Nodes[0])
	}
	return VisibleText(body.Nodes[0])
}

// ResolveLink resolves href against the url of the page it appeared on.
func ResolveLink(base *url.URL, href string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(ref), nil
}
