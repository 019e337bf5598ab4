package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-etf-news-bot/internal/entity"

	"github.com/PuerkitoBio/goquery"
)

var markdownV2Replacer = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMarkdownV2 escapes Telegram MarkdownV2 reserved characters.
func EscapeMarkdownV2(text string) string {
	return markdownV2Replacer.Replace(text)
}

// StripHTMLTags removes HTML markup from a string, returning its text content.
func StripHTMLTags(text string) string {
	if text == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	return doc.Text()
}

// EscapeURL escapes characters that break MarkdownV2 inline links.
func EscapeURL(url string) string {
	return strings.ReplaceAll(url, ")", "%29")
}

// FormatDigestHeader formats the header message that opens a digest run.
func FormatDigestHeader(t time.Time) string {
	return fmt.Sprintf("*TODAY'S NEWS: %s*", EscapeMarkdownV2(t.Format("02-01-2006")))
}

// FormatArticle formats a single article notification for a tracked ticker.
func FormatArticle(ticker string, article entity.Article) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("*%s*\n\n", EscapeMarkdownV2(ticker)))
	builder.WriteString(fmt.Sprintf("• *%s*\n", EscapeMarkdownV2(article.Title)))

	if desc := strings.TrimSpace(StripHTMLTags(article.Description)); desc != "" {
		builder.WriteString(fmt.Sprintf("  %s\n", EscapeMarkdownV2(desc)))
	}

	builder.WriteString(fmt.Sprintf("  [Read more](%s)\n", EscapeURL(article.URL)))

	return builder.String()
}

// FormatWelcomeMessage formats the /start reply.
func FormatWelcomeMessage() string {
	return "To interact with this bot use command: */getNews*"
}

// SplitMessage splits text into chunks of at most maxLen characters,
// preferring newline boundaries so Markdown entities stay intact.
func SplitMessage(text string, maxLen int) []string {
	if maxLen <= 0 || len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	for len(text) > maxLen {
		splitAt := strings.LastIndex(text[:maxLen], "\n")
		if splitAt <= 0 {
			splitAt = maxLen
		}
		parts = append(parts, text[:splitAt])
		text = text[splitAt:]
	}
	if strings.TrimSpace(text) != "" {
		parts = append(parts, text)
	}
	return parts
}
