package markup

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML is the bundled front end: it drives a Builder from an HTML-subset
// token stream. <style> contents and <link rel="stylesheet"> hrefs are
// and <script> contents are collected onto the document instead of entering
// the content tree. Any other markup-specific front end can replace
// this one by emitting the same Builder events.
func ParseHTML(r io.Reader, doc *Document, b *Builder) error {
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				b.Finish()
				return nil
			}
			return fmt.Errorf("tokenizing markup: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			nameBytes, hasAttr := z.TagName()
			name := string(nameBytes)
			attrs := map[string]string{}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs[strings.ToLower(string(k))] = string(v)
			}
			switch name {
			case "style":
				doc.Styles = append(doc.Styles, rawTextContent(z, "style"))
				continue
			case "script":
				doc.Scripts = append(doc.Scripts, rawTextContent(z, "script"))
				continue
			case "link":
				if strings.EqualFold(attrs["rel"], "stylesheet") && attrs["href"] != "" {
					doc.StyleLinks = append(doc.StyleLinks, attrs["href"])
				}
				continue
			}
			b.BeginElement(name, attrs)
			if tt == html.SelfClosingTagToken || voidElement(name) {
				b.EndElement(name)
			}

		case html.EndTagToken:
			nameBytes, _ := z.TagName()
			name := string(nameBytes)
			if name == "style" || name == "script" || name == "link" {
				continue
			}
			b.EndElement(name)

		case html.TextToken:
			b.Text(string(z.Text()))

		case html.CommentToken, html.DoctypeToken:
			// dropped
		}
	}
}

// rawTextContent consumes tokens up to the matching end tag and returns the
// accumulated text.
func rawTextContent(z *html.Tokenizer, tag string) string {
	var sb strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == tag {
				return sb.String()
			}
		}
	}
}

func voidElement(tag string) bool {
	switch tag {
	case "br", "hr", "img", "input", "meta", "link", "area", "base",
		"col", "embed", "param", "source", "track", "wbr":
		return true
	}
	return false
}
