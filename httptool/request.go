package httptool

import "time"

// Request describes one HTTP call. Exactly one of Data and JSON may be
// set; the tool rejects requests carrying both before any backend is
// resolved.
type Request struct {
	// URL is the absolute request URL. Required.
	URL string

	// Method defaults to GET when empty.
	Method string

	// Headers, Params, and Cookies are merged into the outgoing request.
	// Params are appended to the URL query string.
	Headers map[string]string
	Params  map[string]string
	Cookies map[string]string

	// Data is a raw body: []byte or string sent verbatim, or a string map
	// sent form-encoded. Mutually exclusive with JSON.
	Data any

	// JSON is marshaled and sent with an application/json content type.
	JSON any

	// Files, when present, switches the body to multipart/form-data. A
	// string-map Data contributes ordinary form fields alongside the files.
	Files map[string]FileUpload

	// Stream keeps the response body live for incremental reads instead of
	// buffering it eagerly. The caller must Close the Response either way.
	Stream bool

	// Timeout bounds the whole exchange. Zero selects the default.
	Timeout time.Duration

	// Extension names the backend to use; empty selects the registry
	// default.
	Extension string
}

// FileUpload is one multipart file part.
type FileUpload struct {
	// Name is the filename sent in the part header. Required.
	Name string
	// Content is the file body. Required.
	Content []byte
	// ContentType overrides the part's content type when non-empty.
	ContentType string
}
