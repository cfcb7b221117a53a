// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pbdb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/paleobiodb/table"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the service. It may be overwritten in tests
// before creating a new client.
var URL = "https://paleobiodb.org/data1.1"

// maxMessageLen limits the size of the service's message copied into Error.
const maxMessageLen = 1000

// Format of the response body, selected by the endpoint path suffix.
type Format string

// Values of Format.
const (
	CSV = Format("csv")
	TSV = Format("tsv")
)

// delimiter of the fields in the format.
func (f Format) delimiter() rune {
	if f == TSV {
		return '\t'
	}
	return ','
}

// Client for querying the service. It only holds configuration and is safe
// for concurrent use.
type Client struct {
	baseURL    string       // the base URL of the service, including the version
	format     Format       // the response format to request
	httpClient *http.Client // transport
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the default service URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithHTTPClient sets a custom HTTP client, e.g. with a timeout or a test
// transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithFormat selects the response format, CSV by default.
func WithFormat(f Format) Option {
	return func(c *Client) { c.format = f }
}

// NewClient creates a new client with the default URL, CSV format and
// http.DefaultClient, modified by the options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(URL, "/"),
		format:     CSV,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL of the service used by the client.
func (c *Client) BaseURL() string { return c.baseURL }

// Format of the responses requested by the client.
func (c *Client) Format() Format { return c.format }

// UseClient injects the client into the context.
func UseClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientContextKey, c)
}

// GetClient extracts the Client from the context. If there is none, it returns
// a new default client.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok || c == nil {
		return NewClient()
	}
	return c
}

// BuildURI constructs the request URI for the endpoint: the base URL, the
// endpoint path with the format suffix and, for a non-empty query, the
// URL-encoded serialized query. Parameters are sorted by name.
func BuildURI(baseURL, endpoint string, format Format, q Query) (string, error) {
	endpoint = strings.Trim(endpoint, "/")
	if endpoint == "" {
		return "", invalidArgument("empty endpoint")
	}
	values, err := q.Serialize()
	if err != nil {
		return "", err
	}
	uri := strings.TrimSuffix(baseURL, "/") + "/" + endpoint
	if format != "" {
		uri += "." + string(format)
	}
	if len(values) > 0 {
		uri += "?" + values.Encode()
	}
	return uri, nil
}

// URI builds the request URI for the endpoint and query with the client's
// settings.
func (c *Client) URI(endpoint string, q Query) (string, error) {
	return BuildURI(c.baseURL, endpoint, c.format, q)
}

// Request serializes the parameters, requests the endpoint and decodes the
// response. Errors are returned as *Error and are never retried.
func (c *Client) Request(ctx context.Context, endpoint string, q Query) (*table.Table, error) {
	uri, err := c.URI(endpoint, q)
	if err != nil {
		return nil, err
	}
	return c.Fetch(ctx, uri)
}

// Fetch issues a single GET request to uri and decodes the response body as a
// table.
func (c *Client) Fetch(ctx context.Context, uri string) (*table.Table, error) {
	logging.Debugf(ctx, "PBDB: GET %s", uri)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &Error{Kind: InvalidArgument, URI: uri, Cause: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: TransportError, URI: uri, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Kind:   TransportError,
			URI:    uri,
			Status: resp.StatusCode,
			Cause:  errors.Annotate(err, "failed to read response body"),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Kind:    RemoteError,
			URI:     uri,
			Status:  resp.StatusCode,
			Message: remoteMessage(body),
		}
	}
	tbl, err := decode(resp.Header.Get("Content-Type"), body, c.format.delimiter())
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.URI = uri
			e.Status = resp.StatusCode
			return nil, e
		}
		return nil, &Error{Kind: DecodeError, URI: uri, Cause: err}
	}
	logging.Debugf(ctx, "PBDB: decoded %d rows, %d columns", len(tbl.Rows), len(tbl.Header))
	return tbl, nil
}

// Request the endpoint using the client from the context.
func Request(ctx context.Context, endpoint string, q Query) (*table.Table, error) {
	return GetClient(ctx).Request(ctx, endpoint, q)
}

// Fetch requests the URI using the client from the context.
func Fetch(ctx context.Context, uri string) (*table.Table, error) {
	return GetClient(ctx).Fetch(ctx, uri)
}

var byteOrderMark = []byte("\uFEFF")

// decode the body of a successful response. An empty body is an empty table
// whatever its content type. A JSON body is never a table: it is either an
// error reported by the service, or an unexpected format.
func decode(contentType string, body []byte, delim rune) (*table.Table, error) {
	body = bytes.TrimPrefix(body, byteOrderMark)
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return table.NewTable(), nil
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if msg, ok := jsonErrorMessage(trimmed); ok {
			return nil, &Error{Kind: RemoteError, Message: msg}
		}
		return nil, &Error{
			Kind:  DecodeError,
			Cause: errors.Reason("unexpected JSON response"),
		}
	}
	if isHTML(contentType, trimmed) {
		return nil, &Error{
			Kind:  DecodeError,
			Cause: errors.Reason("unexpected HTML response"),
		}
	}
	tbl, err := table.ReadDelimited(bytes.NewReader(body), delim)
	if err != nil {
		return nil, &Error{
			Kind:  DecodeError,
			Cause: errors.Annotate(err, "failed to parse delimited text"),
		}
	}
	return tbl, nil
}

func isHTML(contentType string, body []byte) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt == "text/html" {
		return true
	}
	prefix := strings.ToLower(string(body[:min(len(body), 16)]))
	return strings.HasPrefix(prefix, "<!doctype html") || strings.HasPrefix(prefix, "<html")
}

// jsonErrorMessage extracts the message from an error object of the form
// {"errors": ["..."]} or {"error": "..."}. The second value is false if the
// body is not such an object.
func jsonErrorMessage(body []byte) (string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", false
	}
	for _, key := range []string{"errors", "error"} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			return strings.Join(list, "; "), true
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, true
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &nested); err == nil && nested.Message != "" {
			return nested.Message, true
		}
		return string(raw), true
	}
	return "", false
}

// remoteMessage extracts the service's message from an error response body.
func remoteMessage(body []byte) string {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(body, byteOrderMark))
	if msg, ok := jsonErrorMessage(trimmed); ok {
		return msg
	}
	if len(trimmed) > maxMessageLen {
		trimmed = trimmed[:maxMessageLen]
	}
	return string(trimmed)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
