package fsf

import (
	"strings"

	"golang.org/x/net/html"
)

// nodeText folds the text content of n and all its descendants.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

// cleanName turns an anchor node into a display name: markup stripped,
// whitespace runs collapsed to single spaces. The page's entry titles are
// free-form prose and sometimes wrap across lines or carry inline markup.
func cleanName(n *html.Node) string {
	return strings.Join(strings.Fields(nodeText(n)), " ")
}
