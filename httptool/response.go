package httptool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Response is the unified view of one HTTP exchange, independent of the
// backend that performed it. Body accessors may be combined freely on a
// buffered response; a streamed response's body is single-pass, shared
// between Text, Content, and IterContent. The caller owns the response
// and must Close it on every path.
type Response interface {
	// Status is the numeric status code.
	Status() int

	// Headers returns the response headers collapsed to one value per
	// name, following the backend's convention (net/http: first value).
	Headers() map[string]string

	// Reason is the status line's reason phrase. Non-UTF-8 reason bytes
	// are decoded byte-for-byte (latin-1), so Reason never fails and
	// never loses information.
	Reason() string

	// Text decodes the body as UTF-8, dropping invalid sequences.
	Text() (string, error)

	// JSON parses the body. A body that is not valid JSON yields an empty
	// map and no error.
	JSON() (any, error)

	// Content returns the whole body.
	Content() ([]byte, error)

	// IterContent yields the body in chunks of at most chunkSize bytes.
	// The concatenation of all chunks equals the body exactly. Only a
	// streamed response iterates with bounded memory; a buffered one
	// re-chunks the bytes it already holds.
	IterContent(chunkSize int) *ChunkIterator

	// StatusError returns an *HTTPError when the status code is >= 400,
	// nil otherwise. It never inspects the body.
	StatusError() error

	// URL is the final request URL.
	URL() string

	// Close releases the underlying connection. Safe to call twice.
	Close() error
}

const defaultChunkSize = 8192

// ChunkIterator walks a body chunk by chunk:
//
//	it := resp.IterContent(1024)
//	for it.Next() {
//	    use(it.Chunk())
//	}
//	if err := it.Err(); err != nil { ... }
//
// An exhausted iterator yields nothing on further Next calls.
type ChunkIterator struct {
	reader io.Reader
	size   int
	chunk  []byte
	err    error
	done   bool
}

func newChunkIterator(reader io.Reader, chunkSize int) *ChunkIterator {
	if chunkSize < 1 {
		chunkSize = defaultChunkSize
	}
	return &ChunkIterator{reader: reader, size: chunkSize}
}

// Next advances to the next chunk.
func (it *ChunkIterator) Next() bool {
	if it == nil || it.done {
		return false
	}

	buf := make([]byte, it.size)
	n, err := io.ReadFull(it.reader, buf)
	it.chunk = buf[:n]
	switch err {
	case nil:
		return true
	case io.ErrUnexpectedEOF:
		// Short final chunk.
		it.done = true
		return true
	case io.EOF:
		it.done = true
		it.chunk = nil
		return false
	default:
		it.done = true
		it.chunk = nil
		it.err = err
		return false
	}
}

// Chunk returns the current chunk. Valid until the next call to Next.
func (it *ChunkIterator) Chunk() []byte { return it.chunk }

// Err reports the first read error, if any. io.EOF is not an error.
func (it *ChunkIterator) Err() error { return it.err }

// HTTPError reports a status code >= 400. It is produced only on demand
// through Response.StatusError; receiving an error status is a normal
// protocol outcome, not a transport failure.
type HTTPError struct {
	Status int
	Reason string
	URL    string
}

func (e *HTTPError) Error() string {
	class := "Client Error"
	if e.Status >= 500 {
		class = "Server Error"
	}
	return fmt.Sprintf("%d %s: %s for url: %s", e.Status, class, e.Reason, e.URL)
}

// clientResponse adapts an *http.Response to the Response contract. It
// serves both backends: they differ only in the transport that produced
// the *http.Response.
type clientResponse struct {
	status  int
	headers map[string]string
	reason  string
	url     string

	// body is live only for streamed responses. Buffered responses read
	// everything at construction and release the connection immediately.
	body     io.ReadCloser
	buffered []byte
	isBuf    bool
	closed   bool
}

// newClientResponse wraps resp. When stream is false the body is read in
// full and the connection released before returning; resp.Body is closed
// in every case where this function retains no reference to it.
func newClientResponse(resp *http.Response, requestURL string, stream bool) (Response, error) {
	cr := &clientResponse{
		status:  resp.StatusCode,
		headers: collapseHeaders(resp.Header),
		reason:  decodeReason(resp.Status, resp.StatusCode),
		url:     requestURL,
	}

	if stream {
		cr.body = resp.Body
		return cr, nil
	}

	defer resp.Body.Close()
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httptool: read response body: %w", err)
	}
	cr.buffered = buf
	cr.isBuf = true
	return cr, nil
}

func collapseHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name := range h {
		out[name] = h.Get(name)
	}
	return out
}

// decodeReason extracts the reason phrase from a status line like
// "200 OK". Reason bytes outside valid UTF-8 are mapped byte-to-rune so
// the result is always printable and preserves the original bytes.
func decodeReason(statusLine string, code int) string {
	reason := statusLine
	if _, after, ok := strings.Cut(statusLine, " "); ok {
		reason = after
	}
	if reason == "" || reason == statusLine {
		if text := http.StatusText(code); text != "" {
			reason = text
		}
	}
	if utf8.ValidString(reason) {
		return reason
	}
	runes := make([]rune, 0, len(reason))
	for i := 0; i < len(reason); i++ {
		runes = append(runes, rune(reason[i]))
	}
	return string(runes)
}

func (r *clientResponse) Status() int { return r.status }

func (r *clientResponse) Headers() map[string]string { return r.headers }

func (r *clientResponse) Reason() string { return r.reason }

func (r *clientResponse) URL() string { return r.url }

func (r *clientResponse) Text() (string, error) {
	content, err := r.Content()
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(content), ""), nil
}

func (r *clientResponse) JSON() (any, error) {
	content, err := r.Content()
	if err != nil {
		return nil, err
	}
	var value any
	if err := json.Unmarshal(content, &value); err != nil {
		return map[string]any{}, nil
	}
	return value, nil
}

// Content returns the body. On a streamed response the first call drains
// and buffers the remainder, after which the connection is released.
func (r *clientResponse) Content() ([]byte, error) {
	if r.isBuf {
		return r.buffered, nil
	}
	if r.body == nil {
		return nil, nil
	}
	buf, err := io.ReadAll(r.body)
	closeErr := r.body.Close()
	r.body = nil
	r.closed = true
	if err != nil {
		return nil, fmt.Errorf("httptool: read response body: %w", err)
	}
	r.buffered = buf
	r.isBuf = true
	if closeErr != nil {
		return buf, fmt.Errorf("httptool: close response body: %w", closeErr)
	}
	return buf, nil
}

func (r *clientResponse) IterContent(chunkSize int) *ChunkIterator {
	if r.isBuf {
		return newChunkIterator(bytes.NewReader(r.buffered), chunkSize)
	}
	if r.body == nil {
		return newChunkIterator(bytes.NewReader(nil), chunkSize)
	}
	return newChunkIterator(r.body, chunkSize)
}

func (r *clientResponse) StatusError() error {
	if r.status < 400 {
		return nil
	}
	return &HTTPError{Status: r.status, Reason: r.reason, URL: r.url}
}

func (r *clientResponse) Close() error {
	if r.closed || r.body == nil {
		r.closed = true
		return nil
	}
	r.closed = true
	err := r.body.Close()
	r.body = nil
	return err
}
