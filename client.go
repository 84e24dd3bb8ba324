package ptimg

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// DefaultUserAgent mirrors a current desktop browser; the image host
// rejects unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// ErrNotFound is returned when the host has no asset with the requested
// name. The first missing page marks the end of a book.
var ErrNotFound = errors.New("not found")

var viewerRegexp = regexp.MustCompile(`^https://kirapo\.jp/.*/viewer$`)

// ParseViewerURL validates a viewer page URL and returns the base URL
// that page assets are served under along with the numeric book id.
func ParseViewerURL(rawurl string) (string, int, error) {
	if !viewerRegexp.MatchString(rawurl) {
		return "", 0, fmt.Errorf("invalid viewer url: %s", rawurl)
	}

	base := strings.TrimSuffix(rawurl, "/viewer")

	id, err := strconv.Atoi(base[strings.LastIndex(base, "/")+1:])
	if err != nil {
		return "", 0, fmt.Errorf("no book id in url: %s", rawurl)
	}

	return base + "/data/", id, nil
}

// Client fetches page images and their descriptors from a single book's
// data directory.
type Client struct {
	client    *http.Client
	base      string
	userAgent string
}

// NewClient returns a client rooted at the given base URL. An empty
// userAgent selects DefaultUserAgent.
func NewClient(base, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return &Client{
		client:    &http.Client{},
		base:      base,
		userAgent: userAgent,
	}
}

func (c *Client) get(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+name, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("%s: unexpected status %s", name, resp.Status)
	}

	return ioutil.ReadAll(resp.Body)
}

// Page fetches the scrambled image for the given page number.
func (c *Client) Page(ctx context.Context, page int) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf("%04d.jpg", page))
}

// Manifest fetches the ptimg descriptor for the given page number.
func (c *Client) Manifest(ctx context.Context, page int) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf("%04d.ptimg.json", page))
}
