// Package links checks that the website the model reported for a professor
// actually answers, replacing dead links with models.LinkNotWorking.
package links

import (
    "context"
    "io"
    "net/http"
    "net/url"
    "strings"
    "time"

    "go.uber.org/zap"
    "golang.org/x/net/html"

    "github.com/example/outreach-finder/internal/logger"
    "github.com/example/outreach-finder/internal/models"
)

const defaultMaxBytes = 512 << 10

type Result struct {
    OK     bool   `json:"ok"`
    Status int    `json:"status,omitempty"`
    Title  string `json:"title,omitempty"`
}

type Checker struct {
    HTTP     *http.Client
    MaxBytes int64
    Log      *zap.Logger
}

func NewChecker(timeout time.Duration, log *zap.Logger) *Checker {
    return &Checker{
        HTTP: &http.Client{Timeout: timeout},
        MaxBytes: defaultMaxBytes,
        Log: logger.OrNop(log),
    }
}

// Check fetches rawURL and reports whether it answered with a 2xx status.
// For HTML pages the <title> is returned as well.
func (c *Checker) Check(ctx context.Context, rawURL string) Result {
    u, err := url.Parse(strings.TrimSpace(rawURL))
    if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
        return Result{}
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
    if err != nil { return Result{} }
    req.Header.Set("User-Agent", "outreach-finder/1.0 (+link check)")
    resp, err := c.HTTP.Do(req)
    if err != nil {
        logger.OrNop(c.Log).Debug("link check failed", zap.String("url", u.String()), zap.Error(err))
        return Result{}
    }
    defer resp.Body.Close()
    res := Result{Status: resp.StatusCode, OK: resp.StatusCode >= 200 && resp.StatusCode < 300}
    if !res.OK || !strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "html") {
        return res
    }
    max := c.MaxBytes
    if max <= 0 { max = defaultMaxBytes }
    res.Title = pageTitle(io.LimitReader(resp.Body, max))
    return res
}

// Apply returns p with its website replaced by the sentinel when the link does not
// answer. Empty websites and the sentinel itself are left alone.
func (c *Checker) Apply(ctx context.Context, p models.Professor) models.Professor {
    if p.Website == "" || p.Website == models.LinkNotWorking { return p }
    if !c.Check(ctx, p.Website).OK {
        logger.OrNop(c.Log).Info("replacing unreachable website", zap.String("professor", p.Name), zap.String("url", p.Website))
        p.Website = models.LinkNotWorking
    }
    return p
}

func pageTitle(r io.Reader) string {
    node, err := html.Parse(r)
    if err != nil { return "" }
    var find func(n *html.Node) string
    find = func(n *html.Node) string {
        if n.Type == html.ElementNode && strings.EqualFold(n.Data, "title") {
            var b strings.Builder
            for c := n.FirstChild; c != nil; c = c.NextSibling {
                if c.Type == html.TextNode { b.WriteString(c.Data) }
            }
            return strings.Join(strings.Fields(b.String()), " ")
        }
        for c := n.FirstChild; c != nil; c = c.NextSibling {
            if t := find(c); t != "" { return t }
        }
        return ""
    }
    return find(node)
}
