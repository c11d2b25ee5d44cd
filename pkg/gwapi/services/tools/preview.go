package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/hasdev/api-gateway/pkg/gwlog"
	"golang.org/x/net/html"
)

const (
	defaultPreviewTimeout = 10 * time.Second
	defaultMaxBodyBytes   = 1 << 20
	previewUserAgent      = "Mozilla/5.0 (compatible; LinkPreview/1.0)"
)

var errBlockedAddress = errors.New("destination address is not allowed")

// PreviewError carries the HTTP status and the message shown to the caller.
type PreviewError struct {
	Status  int
	Message string
	err     error
}

func (e *PreviewError) Error() string {
	if e.err != nil {
		return e.Message + ": " + e.err.Error()
	}
	return e.Message
}

func (e *PreviewError) Unwrap() error { return e.err }

func badRequest(msg string) *PreviewError {
	return &PreviewError{Status: http.StatusBadRequest, Message: msg}
}

type LinkMeta struct {
	Title       string
	Description string
	ImageURL    string
	URL         string
}

type PreviewConfig struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	// AllowPrivate permits loopback and private destinations.
	AllowPrivate bool
}

// Previewer fetches a page and extracts its Open Graph / Twitter card
// metadata.
type Previewer struct {
	client   *http.Client
	maxBytes int64
	logger   *gwlog.Logger
}

func NewPreviewer(cfg PreviewConfig, logger *gwlog.Logger) *Previewer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultPreviewTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if logger == nil {
		logger = gwlog.Discard()
	}

	dialer := &net.Dialer{Timeout: 5 * time.Second}
	if !cfg.AllowPrivate {
		dialer.Control = func(_, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			if ip := net.ParseIP(host); ip == nil || isBlockedIP(ip) {
				return errBlockedAddress
			}
			return nil
		}
	}

	transport := &http.Transport{
		Proxy:                 nil,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
	}

	return &Previewer{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return errors.New("too many redirects")
				}
				if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
					return fmt.Errorf("unsupported redirect scheme %q", req.URL.Scheme)
				}
				return nil
			},
		},
		maxBytes: cfg.MaxBodyBytes,
		logger:   logger,
	}
}

var cgnat = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

func isBlockedIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		cgnat.Contains(ip)
}

// Preview returns the metadata of the page at rawURL. Failures are
// *PreviewError values.
func (p *Previewer) Preview(ctx context.Context, rawURL string) (*LinkMeta, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, badRequest("No URL provided")
	}
	target, err := url.Parse(rawURL)
	if err != nil || target.Host == "" || (target.Scheme != "http" && target.Scheme != "https") {
		return nil, badRequest("Invalid URL format")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, badRequest("Invalid URL format")
	}
	req.Header.Set("User-Agent", previewUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("link preview fetch failed", "url", rawURL, "error", err)
		return nil, &PreviewError{Status: http.StatusInternalServerError, Message: "Error processing request", err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, badRequest(fmt.Sprintf("Failed to fetch URL (HTTP %d)", resp.StatusCode))
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return nil, badRequest("URL does not return HTML content")
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, p.maxBytes))
	if err != nil {
		return nil, &PreviewError{Status: http.StatusInternalServerError, Message: "Error processing request", err: err}
	}

	return extractMeta(doc, rawURL), nil
}

func extractMeta(doc *html.Node, rawURL string) *LinkMeta {
	var (
		byProperty = map[string]string{}
		byName     = map[string]string{}
		title      string
		inTitle    bool
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				content := attr(n, "content")
				if prop := strings.ToLower(attr(n, "property")); prop != "" {
					if _, seen := byProperty[prop]; !seen {
						byProperty[prop] = content
					}
				}
				if name := strings.ToLower(attr(n, "name")); name != "" {
					if _, seen := byName[name]; !seen {
						byName[name] = content
					}
				}
			case "title":
				if title == "" {
					inTitle = true
					defer func() { inTitle = false }()
				}
			case "svg":
				// <title> inside inline SVG is not the document title
				return
			}
		}
		if n.Type == html.TextNode && inTitle {
			title += n.Data
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	lookup := func(keys ...string) string {
		for _, k := range keys {
			if v := byProperty[k]; v != "" {
				return v
			}
			if v := byName[k]; v != "" {
				return v
			}
		}
		return ""
	}

	meta := &LinkMeta{
		Title:       lookup("og:title", "twitter:title"),
		Description: strings.TrimSpace(lookup("og:description", "twitter:description", "description")),
		ImageURL:    strings.TrimSpace(lookup("og:image", "twitter:image:src", "twitter:image")),
		URL:         rawURL,
	}
	if meta.Title == "" {
		meta.Title = title
	}
	meta.Title = strings.TrimSpace(meta.Title)
	if meta.Title == "" {
		meta.Title = rawURL
	}
	return meta
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
