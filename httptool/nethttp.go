package httptool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// clientPool hands out one shared http.Client per distinct timeout, so
// connection pools are reused across requests instead of being rebuilt
// per call. wrap, when set, decorates the transport (instrumentation).
type clientPool struct {
	mu      sync.Mutex
	clients map[time.Duration]*http.Client
	wrap    func(http.RoundTripper) http.RoundTripper
}

func newClientPool(wrap func(http.RoundTripper) http.RoundTripper) *clientPool {
	return &clientPool{
		clients: map[time.Duration]*http.Client{},
		wrap:    wrap,
	}
}

func (p *clientPool) client(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.clients[timeout]; ok {
		return existing
	}

	var transport http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          200,
		MaxIdleConnsPerHost:   50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if p.wrap != nil {
		transport = p.wrap(transport)
	}

	client := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
	p.clients[timeout] = client
	return client
}

var netHTTPPool = newClientPool(nil)

// netHTTPExtension is the default backend, built directly on net/http.
func netHTTPExtension(ctx context.Context, req Request) (Response, error) {
	return executeRequest(ctx, req, netHTTPPool)
}

func executeRequest(ctx context.Context, req Request, pool *clientPool) (Response, error) {
	httpReq, err := buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := pool.client(req.Timeout).Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("httptool: request failed: %w", err)
	}
	return newClientResponse(resp, httpReq.URL.String(), req.Stream)
}

func buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("httptool: request URL is empty")
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("httptool: build request: %w", err)
	}

	if len(req.Params) > 0 {
		query := httpReq.URL.Query()
		for key, value := range req.Params {
			query.Set(key, value)
		}
		httpReq.URL.RawQuery = query.Encode()
	}

	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for name, value := range req.Cookies {
		httpReq.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	return httpReq, nil
}

// encodeBody builds the request body from Files, JSON, or Data. Do has
// already rejected requests that set both Data and JSON.
func encodeBody(req Request) (io.Reader, string, error) {
	if len(req.Files) > 0 {
		return encodeMultipart(req)
	}

	if req.JSON != nil {
		raw, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("httptool: encode json body: %w", err)
		}
		return bytes.NewReader(raw), "application/json", nil
	}

	switch data := req.Data.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return bytes.NewReader(data), "", nil
	case string:
		return strings.NewReader(data), "", nil
	default:
		form, err := formValues(req.Data)
		if err != nil {
			return nil, "", err
		}
		return strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", nil
	}
}

func formValues(data any) (url.Values, error) {
	form := url.Values{}
	switch typed := data.(type) {
	case map[string]string:
		for key, value := range typed {
			form.Set(key, value)
		}
	case map[string]any:
		for key, value := range typed {
			form.Set(key, fmt.Sprintf("%v", value))
		}
	default:
		return nil, fmt.Errorf("httptool: unsupported data type %T", data)
	}
	return form, nil
}

func encodeMultipart(req Request) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	if req.Data != nil {
		form, err := formValues(req.Data)
		if err != nil {
			return nil, "", err
		}
		for key := range form {
			if err := writer.WriteField(key, form.Get(key)); err != nil {
				return nil, "", fmt.Errorf("httptool: write form field %q: %w", key, err)
			}
		}
	}

	// Deterministic part order keeps request bytes reproducible.
	fields := make([]string, 0, len(req.Files))
	for field := range req.Files {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		upload := req.Files[field]
		if upload.Name == "" || len(upload.Content) == 0 {
			return nil, "", fmt.Errorf("httptool: file %q needs a filename and content", field)
		}

		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, upload.Name))
		if upload.ContentType != "" {
			header.Set("Content-Type", upload.ContentType)
		}
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("httptool: create multipart part %q: %w", field, err)
		}
		if _, err := part.Write(upload.Content); err != nil {
			return nil, "", fmt.Errorf("httptool: write multipart part %q: %w", field, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("httptool: finish multipart body: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}
