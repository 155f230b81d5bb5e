package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"

	"podcaster/internal/logging"
	"podcaster/internal/services"
)

// LoadURL fetches rawURL and extracts text according to its content type.
func (l *Loader) LoadURL(ctx context.Context, rawURL string) (Document, error) {
	body, contentType, err := l.fetch(ctx, rawURL)
	if err != nil {
		return Document{}, err
	}
	switch {
	case isFeedType(contentType) || looksLikeFeed(body):
		feed, err := l.feeds.Parse(bytes.NewReader(body))
		if err != nil {
			return Document{}, services.Wrap(services.ErrValidation, "source", "parse feed", rawURL, err)
		}
		return l.fromFeed(ctx, rawURL, feed)
	case contentType == "application/pdf":
		text, err := pdfBytesText(body)
		if err != nil {
			return Document{}, services.Wrap(services.ErrValidation, "source", "extract pdf", rawURL, err)
		}
		return Document{Title: rawURL, Text: text, Origin: rawURL, Kind: KindPDF}, nil
	case strings.HasPrefix(contentType, "text/plain"):
		return Document{Title: rawURL, Text: strings.TrimSpace(string(body)), Origin: rawURL, Kind: KindText}, nil
	case strings.HasPrefix(contentType, "text/markdown"):
		return Document{Title: rawURL, Text: MarkdownText(body), Origin: rawURL, Kind: KindMarkdown}, nil
	default:
		return articleFromHTML(rawURL, string(body))
	}
}

// LoadFeed parses the feed at feedURL and returns its newest entry.
func (l *Loader) LoadFeed(ctx context.Context, feedURL string) (Document, error) {
	feed, err := l.feeds.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return Document{}, services.Wrap(services.ErrExternalTool, "source", "parse feed", feedURL, err)
	}
	return l.fromFeed(ctx, feedURL, feed)
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", services.Wrap(services.ErrValidation, "source", "fetch", fmt.Sprintf("invalid url %q", rawURL), err)
	}
	req.Header.Set("User-Agent", "podcaster/1.0")
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, "", services.Wrap(services.ErrExternalTool, "source", "fetch", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", services.Wrap(services.ErrExternalTool, "source", "fetch", fmt.Sprintf("%s returned http %d", rawURL, resp.StatusCode), nil)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes))
	if err != nil {
		return nil, "", services.Wrap(services.ErrExternalTool, "source", "fetch", "read body", err)
	}
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return body, strings.ToLower(mediaType), nil
}

func isFeedType(contentType string) bool {
	switch contentType {
	case "application/rss+xml", "application/atom+xml", "application/feed+json":
		return true
	}
	return false
}

func looksLikeFeed(body []byte) bool {
	head := bytes.ToLower(body[:min(len(body), 512)])
	return bytes.Contains(head, []byte("<rss")) || bytes.Contains(head, []byte("<feed"))
}

// fromFeed picks the newest item and loads its linked article, falling back
// to the item's own content when the link cannot be extracted.
func (l *Loader) fromFeed(ctx context.Context, feedURL string, feed *gofeed.Feed) (Document, error) {
	item := latestItem(feed)
	if item == nil {
		return Document{}, services.Wrap(services.ErrValidation, "source", "feed", fmt.Sprintf("feed %s contains no items", feedURL), nil)
	}
	if item.Link != "" {
		body, contentType, err := l.fetch(ctx, item.Link)
		if err == nil && !isFeedType(contentType) {
			doc, err := articleFromHTML(item.Link, string(body))
			if err == nil && strings.TrimSpace(doc.Text) != "" {
				if strings.TrimSpace(item.Title) != "" {
					doc.Title = strings.TrimSpace(item.Title)
				}
				doc.Kind = KindFeed
				return doc, nil
			}
		}
		if err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, l.logger), "feed entry link unavailable; using entry content", "feed_link_fallback",
				logging.String("link", item.Link),
				logging.Error(err),
				logging.String(logging.FieldImpact, "podcast built from the feed summary"),
			)
		}
	}
	content := item.Content
	if strings.TrimSpace(content) == "" {
		content = item.Description
	}
	return Document{
		Title:  strings.TrimSpace(item.Title),
		Text:   htmlText(content),
		Origin: firstNonEmpty(item.Link, feedURL),
		Kind:   KindFeed,
	}, nil
}

func latestItem(feed *gofeed.Feed) *gofeed.Item {
	if feed == nil || len(feed.Items) == 0 {
		return nil
	}
	best := feed.Items[0]
	for _, item := range feed.Items[1:] {
		if item.PublishedParsed != nil && (best.PublishedParsed == nil || item.PublishedParsed.After(*best.PublishedParsed)) {
			best = item
		}
	}
	return best
}

func articleFromHTML(origin, html string) (Document, error) {
	article, err := readability.FromReader(strings.NewReader(html), nil)
	if err != nil {
		return Document{}, services.Wrap(services.ErrValidation, "source", "extract article", origin, err)
	}
	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = htmlTitle(html)
	}
	return Document{
		Title:  title,
		Text:   strings.TrimSpace(article.TextContent),
		Origin: origin,
		Kind:   KindHTML,
	}, nil
}

// htmlTitle falls back through <title>, <h1> and og:title.
func htmlTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "" {
		return title
	}
	if title, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		return strings.TrimSpace(title)
	}
	return ""
}

// htmlText strips markup from an HTML fragment.
func htmlText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
