package extractor

import "strings"

// lineBuffer holds the unterminated tail of a chunked text stream.
type lineBuffer struct {
    tail string
}

// Feed appends chunk and returns every line it completed. The segment after the
// last newline, possibly empty, stays buffered.
func (b *lineBuffer) Feed(chunk string) []string {
    lines := strings.Split(b.tail+chunk, "\n")
    b.tail = lines[len(lines)-1]
    return lines[:len(lines)-1]
}

// Flush returns the buffered tail and resets the buffer.
func (b *lineBuffer) Flush() string {
    t := b.tail
    b.tail = ""
    return t
}
