// Package sharepoint is a small fluent client for the SharePoint REST API.
//
// Calls are built the same way as the generated Google API clients:
//
//	items, err := svc.Items.List("VATaskList").Select("Id", "Title").Context(ctx).Do()
//
// Every Do performs exactly one HTTP round trip. Non-2xx responses are
// returned as *googleapi.Error.
package sharepoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
)

const (
	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "vatask/0.1.0"

	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "client-request-id"

	mediaJSON = "application/json;odata=nometadata"
)

// Service is the entry point for SharePoint REST calls against one site.
type Service struct {
	client   *http.Client
	BasePath string // site URL with "/_api/" appended

	Web    *WebService
	Lists  *ListsService
	Fields *FieldsService
	Items  *ItemsService
}

type settings struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	realm        string
	tokenURL     string
	limit        rate.Limit
	burst        int
	userAgent    string
}

// Option configures a Service.
type Option func(*settings)

// WithHTTPClient sets the base HTTP client. Its transport is wrapped, not replaced.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithClientCredentials enables app-only authentication.
func WithClientCredentials(clientID, clientSecret string) Option {
	return func(s *settings) {
		s.clientID = clientID
		s.clientSecret = clientSecret
	}
}

// WithRealm sets the tenant realm and skips realm discovery.
func WithRealm(realm string) Option {
	return func(s *settings) { s.realm = realm }
}

// WithTokenURL overrides the ACS token endpoint.
func WithTokenURL(u string) Option {
	return func(s *settings) { s.tokenURL = u }
}

// WithRateLimit caps outgoing requests per second. Requests wait, they are never dropped.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(s *settings) {
		s.limit = limit
		s.burst = burst
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.userAgent = ua }
}

// NewService creates a Service for the site at siteURL.
// When client credentials are configured, requests carry an app-only bearer token.
func NewService(ctx context.Context, siteURL string, opts ...Option) (*Service, error) {
	u, err := url.Parse(strings.TrimRight(siteURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid site url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid site url: %q", siteURL)
	}

	st := settings{
		limit:     rate.Inf,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(&st)
	}

	base := http.DefaultTransport
	if st.httpClient != nil && st.httpClient.Transport != nil {
		base = st.httpClient.Transport
	}
	plain := &http.Client{Transport: newTransport(base, st.limit, st.burst, st.userAgent)}
	if st.httpClient != nil {
		plain.Timeout = st.httpClient.Timeout
	}

	client := plain
	if st.clientID != "" {
		realm := st.realm
		if realm == "" {
			realm, err = DiscoverRealm(ctx, plain, u.String())
			if err != nil {
				return nil, err
			}
		}

		cc := tokenConfig(u, realm, st.clientID, st.clientSecret)
		if st.tokenURL != "" {
			cc.TokenURL = st.tokenURL
		}
		tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, plain)
		client = oauth2.NewClient(tokenCtx, cc.TokenSource(tokenCtx))
	}

	s := &Service{
		client:   client,
		BasePath: u.String() + "/_api/",
	}
	s.Web = &WebService{s: s}
	s.Lists = &ListsService{s: s}
	s.Fields = &FieldsService{s: s}
	s.Items = &ItemsService{s: s}
	return s, nil
}

// call holds the parts shared by every request builder.
type call struct {
	s      *Service
	method string
	path   string
	params url.Values
	header http.Header
	body   any
	ctx    context.Context
}

func newCall(s *Service, method, path string) call {
	return call{
		s:      s,
		method: method,
		path:   path,
		params: url.Values{},
		header: http.Header{},
	}
}

func (c *call) doRequest() (*http.Response, error) {
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	var body io.Reader
	if c.body != nil {
		buf, err := json.Marshal(c.body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}

	urls := c.s.BasePath + c.path
	if len(c.params) > 0 {
		urls += "?" + c.params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, c.method, urls, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", mediaJSON)
	if body != nil {
		req.Header.Set("Content-Type", mediaJSON)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	return c.s.client.Do(req)
}

// do sends the request and decodes a 2xx body into out when out is non-nil.
func (c *call) do(out any) error {
	res, err := c.doRequest()
	if err != nil {
		return err
	}
	defer googleapi.CloseBody(res)
	if err := checkResponse(res); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// listPath addresses a list by title. Single quotes are doubled per OData string rules.
func listPath(title string) string {
	return "web/lists/getbytitle('" + url.PathEscape(strings.ReplaceAll(title, "'", "''")) + "')"
}

func itemPath(listTitle string, id int) string {
	return listPath(listTitle) + "/items(" + strconv.Itoa(id) + ")"
}
