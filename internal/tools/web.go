package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/secagent/secagent/internal/schema"
)

const (
	webUserAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 secagent"
	maxRedirects  = 5
	maxFetchBytes = 2 << 20
)

// validateURL checks that rawURL is http(s) with a host.
func validateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("only http/https allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing domain in URL")
	}
	return u, nil
}

// NewFetchHTTPClient returns the client fetch_url uses by default.
func NewFetchHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// WebFetchTool fetches a URL (an advisory, a vendor bulletin) and returns
// its readable text.
type WebFetchTool struct {
	httpClient *http.Client
}

// NewWebFetchTool creates a WebFetchTool. A nil client selects
// NewFetchHTTPClient.
func NewWebFetchTool(client *http.Client) *WebFetchTool {
	if client == nil {
		client = NewFetchHTTPClient()
	}
	return &WebFetchTool{httpClient: client}
}

func (t *WebFetchTool) Name() string { return string(ToolFetchURL) }
func (t *WebFetchTool) Schema() schema.ToolSchema {
	return schema.ToolSchema{
		Name:        t.Name(),
		Description: "Fetch a web page (e.g. a security advisory) and return its readable text",
		Parameters: []schema.ToolParameter{
			schema.Required("url", schema.KindString, "http(s) URL to fetch"),
			schema.Optional("max_chars", schema.Int(maxToolOutput), "Maximum characters of text to return"),
		},
	}
}

func (t *WebFetchTool) Execute(ctx context.Context, args Args) (string, error) {
	rawURL, err := args.String("url")
	if err != nil {
		return "", err
	}
	maxChars, err := args.Int("max_chars")
	if err != nil {
		return "", err
	}
	if maxChars <= 0 {
		maxChars = maxToolOutput
	}

	u, err := validateURL(rawURL)
	if err != nil {
		return fmt.Sprintf("Error: URL validation failed: %v", err), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Sprintf("Error fetching URL: %v", err), nil
	}
	req.Header.Set("User-Agent", webUserAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("Error fetching URL: %v", err), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return fmt.Sprintf("Error fetching URL: %v", err), nil
	}

	text, extractor := extractText(resp.Header.Get("Content-Type"), body, resp.Request.URL)

	truncated := len(text) > maxChars
	if truncated {
		text = text[:maxChars]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Fetched %s (status %d, extractor %s)\n\n", resp.Request.URL, resp.StatusCode, extractor)
	sb.WriteString(text)
	if truncated {
		sb.WriteString("\n\n[... truncated ...]")
	}
	return sb.String(), nil
}

func extractText(ctype string, body []byte, pageURL *url.URL) (text, extractor string) {
	switch {
	case strings.Contains(ctype, "application/json"):
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err == nil {
			return buf.String(), "json"
		}
		return string(body), "json"

	case strings.Contains(ctype, "text/html") || isHTMLPrefix(body):
		article, err := readability.FromReader(bytes.NewReader(body), pageURL)
		if err != nil {
			return stripHTMLTags(string(body)), "strip"
		}
		text = normalizeWhitespace(article.TextContent)
		if article.Title != "" {
			text = "# " + article.Title + "\n\n" + text
		}
		return text, "readability"

	default:
		return string(body), "raw"
	}
}

// isHTMLPrefix reports whether the body starts with an HTML declaration.
func isHTMLPrefix(b []byte) bool {
	prefix := strings.ToLower(strings.TrimSpace(string(b[:min(256, len(b))])))
	return strings.HasPrefix(prefix, "<!doctype") || strings.HasPrefix(prefix, "<html")
}

var (
	reScript   = regexp.MustCompile(`(?is)<script[\s\S]*?</script>`)
	reStyle    = regexp.MustCompile(`(?is)<style[\s\S]*?</style>`)
	reTags     = regexp.MustCompile(`<[^>]+>`)
	reSpaces   = regexp.MustCompile(`[ \t]+`)
	reNewlines = regexp.MustCompile(`\n{3,}`)
)

func stripHTMLTags(text string) string {
	text = reScript.ReplaceAllString(text, "")
	text = reStyle.ReplaceAllString(text, "")
	text = reTags.ReplaceAllString(text, "")
	return normalizeWhitespace(text)
}

func normalizeWhitespace(text string) string {
	text = reSpaces.ReplaceAllString(text, " ")
	text = reNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
