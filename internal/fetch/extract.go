package fetch

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor converts fetched HTML into markdown text and a link set.
//
// Design decision: We use golang.org/x/net/html rather than regex or a
// heavier DOM library because:
//  1. It correctly handles the malformed HTML common on the web
//  2. A single parse pass yields text, links, and metadata together
//  3. It is a maintained standard-library extension with no further deps
type HTMLExtractor struct{}

// NewHTMLExtractor creates the default content extractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract parses the result body and produces a Document.
//
// Non-HTML text responses pass through as plain content with no links.
// Binary responses yield an empty document rather than an error; the page
// still counts as fetched, it just contributes nothing to extraction.
func (e *HTMLExtractor) Extract(res *Result) (*Document, error) {
	switch {
	case isHTMLType(res.ContentType):
		return e.extractHTML(res)
	case strings.HasPrefix(res.ContentType, "text/"),
		res.ContentType == "application/json",
		res.ContentType == "application/xml":
		return &Document{
			Markdown: string(res.Body),
			Metadata: map[string]string{"content_type": res.ContentType},
		}, nil
	default:
		return &Document{
			Metadata: map[string]string{"content_type": res.ContentType},
		}, nil
	}
}

// isHTMLType reports whether a MIME type is HTML.
func isHTMLType(contentType string) bool {
	return contentType == "text/html" ||
		contentType == "application/xhtml+xml" ||
		strings.HasPrefix(contentType, "text/html;")
}

// extractHTML walks the DOM once, collecting title, meta tags, links, and
// a markdown rendering of the visible text.
func (e *HTMLExtractor) extractHTML(res *Result) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(res.Body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	base, err := url.Parse(res.URL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	doc := &Document{
		Links:    make([]string, 0),
		Metadata: make(map[string]string),
	}
	seen := make(map[string]bool)

	var md strings.Builder
	e.walk(root, base, doc, seen, &md)

	doc.Markdown = strings.TrimSpace(md.String())
	return doc, nil
}

// walk recursively renders block-level elements into markdown while
// harvesting links and metadata.
func (e *HTMLExtractor) walk(n *html.Node, base *url.URL, doc *Document, seen map[string]bool, md *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template", "iframe":
			return

		case "title":
			if doc.Title == "" {
				doc.Title = strings.TrimSpace(textContent(n))
			}
			return

		case "meta":
			if name := attr(n, "name"); name != "" {
				if content := attr(n, "content"); content != "" {
					doc.Metadata[name] = content
				}
			}
			return

		case "link":
			if attr(n, "rel") == "canonical" {
				if href := attr(n, "href"); href != "" {
					doc.Metadata["canonical"] = href
				}
			}
			return

		case "h1", "h2", "h3", "h4", "h5", "h6":
			level := int(n.Data[1] - '0')
			if text := strings.TrimSpace(e.inline(n, base, doc, seen)); text != "" {
				md.WriteString(strings.Repeat("#", level) + " " + text + "\n\n")
			}
			return

		case "p", "blockquote":
			if text := strings.TrimSpace(e.inline(n, base, doc, seen)); text != "" {
				if n.Data == "blockquote" {
					md.WriteString("> " + text + "\n\n")
				} else {
					md.WriteString(text + "\n\n")
				}
			}
			return

		case "li":
			if text := strings.TrimSpace(e.inline(n, base, doc, seen)); text != "" {
				md.WriteString("- " + text + "\n")
			}
			return

		case "ul", "ol":
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				e.walk(c, base, doc, seen, md)
			}
			md.WriteString("\n")
			return

		case "pre":
			if text := strings.Trim(textContent(n), "\n"); text != "" {
				md.WriteString("```\n" + text + "\n```\n\n")
			}
			return

		case "a":
			// Anchor outside a recognized block: harvest the link and
			// render it as a bare line.
			if text := strings.TrimSpace(e.inline(n, base, doc, seen)); text != "" {
				md.WriteString(text + "\n\n")
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c, base, doc, seen, md)
	}
}

// inline renders the text content of a block element, turning nested
// anchors into markdown links and collecting their targets.
func (e *HTMLExtractor) inline(n *html.Node, base *url.URL, doc *Document, seen map[string]bool) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			b.WriteString(node.Data)
			return
		case html.ElementNode:
			switch node.Data {
			case "script", "style", "noscript":
				return
			case "a":
				text := strings.TrimSpace(textContent(node))
				if link := e.collectLink(node, base, doc, seen); link != "" {
					if text == "" {
						text = link
					}
					b.WriteString("[" + text + "](" + link + ")")
				} else {
					b.WriteString(text)
				}
				return
			case "br":
				b.WriteString("\n")
				return
			case "strong", "b":
				if text := strings.TrimSpace(textContent(node)); text != "" {
					b.WriteString("**" + text + "**")
				}
				return
			case "em", "i":
				if text := strings.TrimSpace(textContent(node)); text != "" {
					b.WriteString("*" + text + "*")
				}
				return
			case "code":
				if text := textContent(node); text != "" {
					b.WriteString("`" + text + "`")
				}
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return collapseSpace(b.String())
}

// collectLink resolves an anchor's href against the base URL and records
// it in the document's link set. Returns the absolute URL, or empty when
// the href is absent, non-web, or already collected.
func (e *HTMLExtractor) collectLink(n *html.Node, base *url.URL, doc *Document, seen map[string]bool) string {
	href := attr(n, "href")
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	abs.Fragment = ""
	link := abs.String()
	if !seen[link] {
		seen[link] = true
		doc.Links = append(doc.Links, link)
	}
	return link
}

// textContent returns the concatenated text of a node's subtree.
func textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

// attr returns the value of the named attribute, or empty.
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// collapseSpace squeezes runs of whitespace into single spaces while
// preserving intentional newlines from <br>.
func collapseSpace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
