package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FakeRealm and FakeToken are what FakeSite hands out when auth is required.
const (
	FakeRealm = "11111111-2222-3333-4444-555555555555"
	FakeToken = "fake-access-token"
)

var (
	listRe = regexp.MustCompile(`^web/lists/getbytitle\('(.*)'\)(/.*)?$`)
	itemRe = regexp.MustCompile(`^/items\((\d+)\)$`)
)

// RecordedRequest is one request seen by FakeSite.
type RecordedRequest struct {
	Method     string
	Path       string // path below /_api/
	HTTPMethod string // X-HTTP-Method override
	RequestID  string
	UserAgent  string
	Body       map[string]any
}

// FakeField is a column of a fake list.
type FakeField struct {
	Title string
	Kind  int
}

type fakeList struct {
	id          string
	title       string
	description string
	template    int
	fields      []FakeField
	items       map[int]map[string]any
	nextID      int
}

// FakeSite is an in-memory SharePoint site served over httptest.
// It understands the subset of the REST API the sharepoint package uses.
type FakeSite struct {
	mu       sync.Mutex
	title    string
	lists    map[string]*fakeList // lower-cased title -> list
	nextList int
	requests []RecordedRequest

	failStatus   int
	requireToken bool
	tokenGrants  int

	server *httptest.Server
}

// NewFakeSite starts a fake site that is closed when the test ends.
func NewFakeSite(t testing.TB) *FakeSite {
	t.Helper()
	s := &FakeSite{
		title: "Team Site",
		lists: make(map[string]*fakeList),
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.server.Close)
	return s
}

// URL returns the site URL.
func (s *FakeSite) URL() string { return s.server.URL + "/sites/team" }

// Client returns an HTTP client for the site.
func (s *FakeSite) Client() *http.Client { return s.server.Client() }

// Close shuts the server down; later requests fail at the transport.
func (s *FakeSite) Close() { s.server.Close() }

// SetTitle sets the web title.
func (s *FakeSite) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
}

// FailWith makes every API request answer status. Zero restores normal behavior.
func (s *FakeSite) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// RequireToken makes API requests require the bearer token from TokenURL.
func (s *FakeSite) RequireToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireToken = true
}

// TokenURL returns the fake token endpoint.
func (s *FakeSite) TokenURL() string { return s.server.URL + "/token" }

// TokenGrants returns how many tokens were issued.
func (s *FakeSite) TokenGrants() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenGrants
}

// AddList creates a list with the default Title field.
func (s *FakeSite) AddList(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addListLocked(title, "", 100)
}

func (s *FakeSite) addListLocked(title, description string, template int) *fakeList {
	s.nextList++
	l := &fakeList{
		id:          fmt.Sprintf("00000000-0000-0000-0000-%012d", s.nextList),
		title:       title,
		description: description,
		template:    template,
		fields:      []FakeField{{Title: "Title", Kind: 2}},
		items:       make(map[int]map[string]any),
		nextID:      1,
	}
	s.lists[strings.ToLower(title)] = l
	return l
}

// HasList reports whether the list exists.
func (s *FakeSite) HasList(title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lists[strings.ToLower(title)]
	return ok
}

// ListID returns the id of a list, or "" when it does not exist.
func (s *FakeSite) ListID(title string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.lists[strings.ToLower(title)]; ok {
		return l.id
	}
	return ""
}

// ListDescription returns the description of a list.
func (s *FakeSite) ListDescription(title string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.lists[strings.ToLower(title)]; ok {
		return l.description
	}
	return ""
}

// Fields returns the columns of a list in creation order.
func (s *FakeSite) Fields(title string) []FakeField {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[strings.ToLower(title)]
	if !ok {
		return nil
	}
	return append([]FakeField(nil), l.fields...)
}

// AddItem stores an item and returns its id.
func (s *FakeSite) AddItem(title string, fields map[string]any) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.lists[strings.ToLower(title)]
	return l.add(fields)
}

// Item returns a copy of the stored item.
func (s *FakeSite) Item(title string, id int) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[strings.ToLower(title)]
	if !ok {
		return nil, false
	}
	item, ok := l.items[id]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out, true
}

// ItemCount returns the number of items in a list.
func (s *FakeSite) ItemCount(title string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.lists[strings.ToLower(title)]; ok {
		return len(l.items)
	}
	return 0
}

// Requests returns the API requests seen so far.
func (s *FakeSite) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

func (l *fakeList) add(fields map[string]any) int {
	id := l.nextID
	l.nextID++
	item := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		item[k] = v
	}
	item["Id"] = id
	l.items[id] = item
	return id
}

func (l *fakeList) sortedIDs() []int {
	ids := make([]int, 0, len(l.items))
	for id := range l.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *FakeSite) serve(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/token":
		s.serveToken(w, r)
		return
	case strings.HasSuffix(r.URL.Path, "/_vti_bin/client.svc"):
		w.Header().Set("WWW-Authenticate", `Bearer realm="`+FakeRealm+`",client_id="00000003-0000-0ff1-ce00-000000000000",trusted_issuers="00000001-0000-0000-c000-000000000000@*"`)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	_, path, ok := strings.Cut(r.URL.Path, "/_api/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	var body map[string]any
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, RecordedRequest{
		Method:     r.Method,
		Path:       path,
		HTTPMethod: r.Header.Get("X-HTTP-Method"),
		RequestID:  r.Header.Get("client-request-id"),
		UserAgent:  r.UserAgent(),
		Body:       body,
	})

	if s.requireToken && r.Header.Get("Authorization") != "Bearer "+FakeToken {
		writeODataError(w, http.StatusUnauthorized, "Access denied.")
		return
	}
	if s.failStatus != 0 {
		writeODataError(w, s.failStatus, "Simulated failure.")
		return
	}

	switch {
	case path == "web" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"Title": s.title, "Url": s.URL()})
	case path == "web/lists" && r.Method == http.MethodPost:
		s.createList(w, body)
	default:
		m := listRe.FindStringSubmatch(path)
		if m == nil {
			writeODataError(w, http.StatusNotFound, "Unknown endpoint.")
			return
		}
		title := strings.ReplaceAll(m[1], "''", "'")
		l, ok := s.lists[strings.ToLower(title)]
		if !ok {
			writeODataError(w, http.StatusNotFound, fmt.Sprintf("List '%s' does not exist at site with URL '%s'.", title, s.URL()))
			return
		}
		s.serveList(w, r, l, m[2], body)
	}
}

func (s *FakeSite) serveToken(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	if r.PostForm.Get("grant_type") != "client_credentials" || r.PostForm.Get("client_secret") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_client"})
		return
	}
	s.mu.Lock()
	s.tokenGrants++
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": FakeToken,
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func (s *FakeSite) createList(w http.ResponseWriter, body map[string]any) {
	title, _ := body["Title"].(string)
	if title == "" {
		writeODataError(w, http.StatusBadRequest, "Title is required.")
		return
	}
	if _, exists := s.lists[strings.ToLower(title)]; exists {
		writeODataError(w, http.StatusInternalServerError, fmt.Sprintf("A list, survey, discussion board, or document library with the specified title '%s' already exists in this Web site.", title))
		return
	}
	desc, _ := body["Description"].(string)
	tmpl, _ := body["BaseTemplate"].(float64)
	l := s.addListLocked(title, desc, int(tmpl))
	writeJSON(w, http.StatusCreated, map[string]any{
		"Id":           l.id,
		"Title":        l.title,
		"Description":  l.description,
		"BaseTemplate": l.template,
	})
}

func (s *FakeSite) serveList(w http.ResponseWriter, r *http.Request, l *fakeList, rest string, body map[string]any) {
	switch {
	case rest == "" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"Id":           l.id,
			"Title":        l.title,
			"Description":  l.description,
			"BaseTemplate": l.template,
			"ItemCount":    len(l.items),
		})
	case rest == "/fields" && r.Method == http.MethodPost:
		title, _ := body["Title"].(string)
		kind, _ := body["FieldTypeKind"].(float64)
		for _, f := range l.fields {
			if strings.EqualFold(f.Title, title) {
				writeODataError(w, http.StatusInternalServerError, fmt.Sprintf("A duplicate field name \"%s\" was found.", title))
				return
			}
		}
		l.fields = append(l.fields, FakeField{Title: title, Kind: int(kind)})
		writeJSON(w, http.StatusCreated, map[string]any{"Title": title, "FieldTypeKind": int(kind)})
	case rest == "/items" && r.Method == http.MethodGet:
		sel := selection(r)
		value := make([]map[string]any, 0, len(l.items))
		for _, id := range l.sortedIDs() {
			value = append(value, project(l.items[id], sel))
		}
		writeJSON(w, http.StatusOK, map[string]any{"value": value})
	case rest == "/items" && r.Method == http.MethodPost:
		id := l.add(body)
		writeJSON(w, http.StatusCreated, l.items[id])
	default:
		m := itemRe.FindStringSubmatch(rest)
		if m == nil {
			writeODataError(w, http.StatusNotFound, "Unknown endpoint.")
			return
		}
		id, _ := strconv.Atoi(m[1])
		item, ok := l.items[id]
		if !ok {
			writeODataError(w, http.StatusNotFound, "Item does not exist. It may have been deleted by another user.")
			return
		}
		switch {
		case r.Method == http.MethodGet:
			writeJSON(w, http.StatusOK, project(item, selection(r)))
		case r.Method == http.MethodPost && r.Header.Get("X-HTTP-Method") == "MERGE":
			for k, v := range body {
				if k != "Id" {
					item[k] = v
				}
			}
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPost && r.Header.Get("X-HTTP-Method") == "DELETE":
			delete(l.items, id)
			w.WriteHeader(http.StatusOK)
		default:
			writeODataError(w, http.StatusMethodNotAllowed, "Unsupported method.")
		}
	}
}

func selection(r *http.Request) []string {
	sel := r.URL.Query().Get("$select")
	if sel == "" {
		return nil
	}
	return strings.Split(sel, ",")
}

func project(item map[string]any, sel []string) map[string]any {
	if sel == nil {
		return item
	}
	out := make(map[string]any, len(sel))
	for _, f := range sel {
		out[f] = item[f]
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json;odata=nometadata")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeODataError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"odata.error": map[string]any{
			"code":    "-2130575338, Microsoft.SharePoint.SPException",
			"message": map[string]any{"lang": "en-US", "value": msg},
		},
	})
}
