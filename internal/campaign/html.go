package campaign

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLToText converts a platform email body into editable plain text.
// <br> becomes a newline, every <div> ends with a newline, and a <div>
// holding only a <br> collapses to a single newline.
func HTMLToText(content string) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	writeText(doc, &sb)
	return sb.String(), nil
}

func writeText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "br":
			sb.WriteString("\n")
			return
		case "script", "style":
			return
		case "div":
			if onlyLineBreak(n) {
				sb.WriteString("\n")
				return
			}
			writeChildren(n, sb)
			sb.WriteString("\n")
			return
		}
	}

	writeChildren(n, sb)
}

func writeChildren(n *html.Node, sb *strings.Builder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(c, sb)
	}
}

// onlyLineBreak reports whether a div's only meaningful child is a <br>
func onlyLineBreak(n *html.Node) bool {
	var meaningful []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			meaningful = append(meaningful, c)
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				meaningful = append(meaningful, c)
			}
		}
	}
	return len(meaningful) == 1 && meaningful[0].Type == html.ElementNode && meaningful[0].Data == "br"
}

// TextToHTML converts edited plain text back into the platform's markup:
// blank lines become <br>, every other line is wrapped in a <div>.
func TextToHTML(text string) string {
	var sb strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			sb.WriteString("<br>")
			continue
		}
		sb.WriteString("<div>")
		sb.WriteString(line)
		sb.WriteString("</div>")
	}
	return sb.String()
}

// HasChanged reports whether edited differs from original, ignoring
// leading and trailing whitespace
func HasChanged(original, edited string) bool {
	return strings.TrimSpace(original) != strings.TrimSpace(edited)
}
