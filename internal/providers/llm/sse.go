package llm

import (
    "bufio"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"
)

const maxSSELine = 1024 * 1024

func newHTTPClient(timeout time.Duration) *http.Client {
    return &http.Client{Timeout: timeout}
}

// streamSSE sends req and hands every non-empty `data:` payload to onData until
// the body ends or a `[DONE]` marker arrives.
func streamSSE(hc *http.Client, req *http.Request, provider string, onData func(data string) error) error {
    res, err := hc.Do(req)
    if err != nil { return fmt.Errorf("%s request: %w", provider, err) }
    defer res.Body.Close()
    if res.StatusCode < 200 || res.StatusCode >= 300 {
        b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
        return fmt.Errorf("%s status %d: %s", provider, res.StatusCode, strings.TrimSpace(string(b)))
    }
    sc := newLineReader(res.Body)
    for sc.Scan() {
        line := sc.Text()
        if !strings.HasPrefix(line, "data:") { continue }
        data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
        if data == "" { continue }
        if data == "[DONE]" { return nil }
        if err := onData(data); err != nil { return err }
    }
    if err := sc.Err(); err != nil { return fmt.Errorf("%s stream: %w", provider, err) }
    return nil
}

// newLineReader returns a scanner for SSE lines.
func newLineReader(r io.Reader) *bufio.Scanner {
    sc := bufio.NewScanner(r)
    buf := make([]byte, 0, 64*1024)
    sc.Buffer(buf, maxSSELine)
    return sc
}
