package session

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Response decorates an HTTP response with content queries. The body is read
// eagerly and the connection released, so a Response stays usable after the
// client moves on. The HTML parse tree is built once, on the first query that
// needs it.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header

	// URL is the final URL after redirects.
	URL *url.URL

	body []byte

	parseOnce sync.Once
	root      *html.Node
	doc       *goquery.Document
	parseErr  error
}

func newResponse(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		URL:        resp.Request.URL,
		body:       body,
	}, nil
}

// Bytes returns the raw response body.
func (r *Response) Bytes() []byte {
	return r.body
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	return string(r.body)
}

func (r *Response) parse() error {
	r.parseOnce.Do(func() {
		root, err := html.Parse(strings.NewReader(string(r.body)))
		if err != nil {
			r.parseErr = fmt.Errorf("failed to parse response HTML: %w", err)
			return
		}
		r.root = root
		r.doc = goquery.NewDocumentFromNode(root)
	})
	return r.parseErr
}

// XPath evaluates an XPath expression against the body and returns the text
// content of every match. A valid expression with no matches returns an
// empty slice.
func (r *Response) XPath(expr string) ([]string, error) {
	if err := r.parse(); err != nil {
		return nil, err
	}

	nodes, err := htmlquery.QueryAll(r.root, expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}

	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, htmlquery.InnerText(n))
	}
	return out, nil
}

// CSS runs a CSS selector against the body and returns a goquery selection
// for further chaining.
func (r *Response) CSS(selector string) (*goquery.Selection, error) {
	if err := r.parse(); err != nil {
		return nil, err
	}
	return r.doc.Find(selector), nil
}

// Re returns every regexp match in the body. When the pattern has capture
// groups the groups are returned, flattened in match order; otherwise the
// whole-match text is returned.
func (r *Response) Re(pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var out []string
	for _, m := range re.FindAllStringSubmatch(r.Text(), -1) {
		if len(m) > 1 {
			out = append(out, m[1:]...)
		} else {
			out = append(out, m[0])
		}
	}
	return out, nil
}

// ReFirst returns the first regexp match, or the empty string when nothing
// matches.
func (r *Response) ReFirst(pattern string) (string, error) {
	matches, err := r.Re(pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	return matches[0], nil
}
