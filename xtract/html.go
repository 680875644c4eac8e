package xtract

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Tags whose subtrees carry no readable content.
var skippedHTMLTags = map[string]bool{
	"script":   true,
	"style":    true,
	"title":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
	"canvas":   true,
	"iframe":   true,
	"link":     true,
	"meta":     true,
	"form":     true,
	"nav":      true,
	"header":   true,
	"footer":   true,
	"aside":    true,
}

// Tags that end a line of running text.
var blockHTMLTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"table": true, "ul": true, "ol": true, "blockquote": true, "pre": true,
	"section": true, "article": true,
}

// extractHTML renders a page as visible text: chrome and scripting subtrees
// dropped, block boundaries preserved as line breaks. The input bytes go
// through charset detection first, since legacy pages ship as cp1251.
func (p *Pipeline) extractHTML(data []byte) (string, []string) {
	doc, err := html.Parse(strings.NewReader(decodeText(data)))
	if err != nil {
		p.logger.Warn("html parse failed", "error", err)
		return "", []string{fmt.Sprintf("html parse failed: %v", err)}
	}

	var sb strings.Builder
	collectHTMLText(doc, &sb)
	return strings.TrimSpace(sb.String()), nil
}

func collectHTMLText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.ElementNode:
		if skippedHTMLTags[n.Data] {
			return
		}
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteByte(' ')
			}
			sb.WriteString(t)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectHTMLText(c, sb)
	}
	if n.Type == html.ElementNode && blockHTMLTags[n.Data] && sb.Len() > 0 {
		sb.WriteByte('\n')
	}
}
