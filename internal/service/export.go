package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/set-night/pediabot/internal/domain"
)

// formattingTag matches an escaped, attribute-free tag a completion uses for
// layout. Anything else that looks like a tag is text and must survive.
var formattingTag = regexp.MustCompile(`(?i)&lt;(/?)(br|p|div|li|ul|ol|h[1-6]|b|i|em|strong|u|code)\s*(/?)&gt;`)

// PlainText strips the markup a completion may carry so the content can be
// pasted into an email. Line breaks and block ends become newlines. Text
// that only resembles markup, like "<your pediatrician>", is kept.
func PlainText(content string) (string, error) {
	escaped := formattingTag.ReplaceAllString(html.EscapeString(content), "<$1$2$3>")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(escaped))
	if err != nil {
		return "", fmt.Errorf("parse content: %w", err)
	}

	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: "\n"})
	})
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(&html.Node{Type: html.TextNode, Data: "\n"})
	})

	return strings.TrimSpace(doc.Text()), nil
}

// ExportTranscript renders the whole conversation as plain text.
func ExportTranscript(session *domain.Session) (string, error) {
	var sb strings.Builder
	for i, m := range session.Transcript.All() {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		text, err := PlainText(m.Content)
		if err != nil {
			return "", err
		}
		switch m.Role {
		case domain.RoleUser:
			sb.WriteString("Parent:\n")
		default:
			sb.WriteString("Chatbot:\n")
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
