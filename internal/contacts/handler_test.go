package contacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rolodex/internal/query"
	"rolodex/internal/store"
	rolodex "rolodex/lib"
	"rolodex/lib/cache"
)

type testServer struct {
	handler http.Handler
	cache   cache.Cache
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	l := rolodex.NewNopLogger()
	st := store.NewMemoryStore()
	c := cache.NewMemoryCache(l, time.Minute)
	t.Cleanup(func() { c.Close() })

	engine := rolodex.NewEngine(l, rolodex.DefaultConfig(), st)
	engine.Mount(NewHandler(l, NewService(l, st, c, query.Limits{})))

	return &testServer{handler: engine.Handler(), cache: c}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

type contactJSON struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Company   string    `json:"company"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type pageJSON struct {
	Contacts    []contactJSON `json:"contacts"`
	TotalCount  int64         `json:"totalCount"`
	CurrentPage int           `json:"currentPage"`
}

func payload(first, email, company string, tags ...string) map[string]any {
	return map[string]any{
		"firstName": first,
		"lastName":  "Doe",
		"email":     email,
		"phone":     "555-0100",
		"address":   "1 Main St",
		"company":   company,
		"title":     "Engineer",
		"tags":      tags,
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) create(t *testing.T, body map[string]any) contactJSON {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/contacts", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[contactJSON](t, w)
}

func TestCreateThenGet(t *testing.T) {
	s := newTestServer(t)

	created := s.create(t, payload("Jane", "jane@example.com", "Acme", "vip"))
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	w := s.do(t, http.MethodGet, "/api/contacts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[contactJSON](t, w)

	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, "Doe", got.LastName)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "555-0100", got.Phone)
	assert.Equal(t, "1 Main St", got.Address)
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, "Engineer", got.Title)
	assert.Equal(t, []string{"vip"}, got.Tags)
}

func TestCreateDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	s.create(t, payload("Jane", "jane@example.com", "Acme"))

	w := s.do(t, http.MethodPost, "/api/contacts", payload("Other", "JANE@Example.com", "Acme"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[rolodex.ErrorResponse](t, w)
	assert.Equal(t, "A contact with this email already exists", body.Message)
	assert.Contains(t, body.Details, `"email":"jane@example.com"`)
}

func TestCreateValidation(t *testing.T) {
	s := newTestServer(t)

	body := payload("  ", "jane@example.com", "Acme")
	delete(body, "phone")
	w := s.do(t, http.MethodPost, "/api/contacts", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[rolodex.ErrorResponse](t, w)
	assert.Equal(t, "Validation Error", resp.Message)
	assert.ElementsMatch(t, []string{"firstName is required", "phone is required"}, resp.Errors)
}

func TestCreateMalformedBody(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/contacts", `{"firstName":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decode[rolodex.ErrorResponse](t, w).Message)
}

func TestListSearch(t *testing.T) {
	s := newTestServer(t)
	s.create(t, payload("Ann", "ann@example.com", "Apple Inc"))
	s.create(t, payload("Bob", "bob@example.com", "Globex", "apple-fan"))
	s.create(t, payload("Cid", "cid@example.com", "Initech"))

	w := s.do(t, http.MethodGet, "/api/contacts?search=Apple", nil)
	require.Equal(t, http.StatusOK, w.Code)

	page := decode[pageJSON](t, w)
	assert.Equal(t, int64(2), page.TotalCount)
	names := []string{}
	for _, c := range page.Contacts {
		names = append(names, c.FirstName)
	}
	assert.ElementsMatch(t, []string{"Ann", "Bob"}, names)
}

func TestListPaging(t *testing.T) {
	s := newTestServer(t)
	for i := 1; i <= 25; i++ {
		s.create(t, payload(fmt.Sprintf("c%02d", i), fmt.Sprintf("c%02d@example.com", i), "Acme"))
	}

	w := s.do(t, http.MethodGet, "/api/contacts?page=2&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	page := decode[pageJSON](t, w)
	assert.Equal(t, int64(25), page.TotalCount)
	assert.Equal(t, 2, page.CurrentPage)
	require.Len(t, page.Contacts, 10)
	assert.Equal(t, "c11", page.Contacts[0].FirstName)
	assert.Equal(t, "c20", page.Contacts[9].FirstName)

	w = s.do(t, http.MethodGet, "/api/contacts?sort=firstName:desc&limit=3", nil)
	page = decode[pageJSON](t, w)
	require.Len(t, page.Contacts, 3)
	assert.Equal(t, "c25", page.Contacts[0].FirstName)
}

func TestListPageBeyondRange(t *testing.T) {
	s := newTestServer(t)
	s.create(t, payload("Jane", "jane@example.com", "Acme"))

	for _, page := range []string{"2", "9223372036854775807"} {
		t.Run(page, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/contacts?limit=10&page="+page, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			got := decode[pageJSON](t, w)
			assert.Equal(t, int64(1), got.TotalCount)
			assert.Empty(t, got.Contacts)
			assert.NotNil(t, got.Contacts)
		})
	}

	got := decode[pageJSON](t, s.do(t, http.MethodGet, "/api/contacts?limit=10&page=9223372036854775807", nil))
	assert.Equal(t, math.MaxInt, got.CurrentPage)
}

func TestListEmailFilterIsLiteral(t *testing.T) {
	s := newTestServer(t)
	s.create(t, payload("Lit", "a.b+c@x.com", "Acme"))
	s.create(t, payload("Rx", "axbbc@x.com", "Acme"))

	w := s.do(t, http.MethodGet, "/api/contacts?emailFilter=a.b%2Bc@x.com", nil)
	require.Equal(t, http.StatusOK, w.Code)

	page := decode[pageJSON](t, w)
	require.Len(t, page.Contacts, 1)
	assert.Equal(t, "a.b+c@x.com", page.Contacts[0].Email)

	w = s.do(t, http.MethodGet, "/api/contacts?emailFilter=a.b%2Bc@x.com&emailRegex=true", nil)
	page = decode[pageJSON](t, w)
	require.Len(t, page.Contacts, 1)
	assert.Equal(t, "axbbc@x.com", page.Contacts[0].Email)
}

func TestListInvalidRegex(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/contacts?emailFilter=[invalid&emailRegex=true", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[rolodex.ErrorResponse](t, w)
	assert.Equal(t, "Invalid email regex pattern", body.Message)
	assert.NotEmpty(t, body.Details)
}

func TestListFilters(t *testing.T) {
	s := newTestServer(t)
	s.create(t, payload("Ann", "ann@example.com", "Acme", "vip"))
	s.create(t, payload("Bob", "bob@example.com", "Globex", "customer"))
	s.create(t, payload("Cid", "cid@example.com", "Initech", "vip", "customer"))

	tests := []struct {
		query string
		want  []string
	}{
		{"companyFilter=Acme&companyFilter=Globex", []string{"Ann", "Bob"}},
		{"companyFilter[]=Initech", []string{"Cid"}},
		{"tagsFilter=customer", []string{"Bob", "Cid"}},
		{"tagsFilter=vip&companyFilter=Initech", []string{"Cid"}},
		{"firstName=^b&firstNameRegex=true", []string{}},
		{"firstName=^B&firstNameRegex=true", []string{"Bob"}},
		{"firstName=b", []string{"Bob"}},
		{"titleFilter=CEO", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/contacts?"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			assert.True(t, strings.Contains(w.Body.String(), `"contacts":[`), "contacts must be an array")
			names := []string{}
			for _, c := range decode[pageJSON](t, w).Contacts {
				names = append(names, c.FirstName)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestListBadSort(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/contacts?sort=password:asc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplace(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, payload("Jane", "jane@example.com", "Acme"))
	s.create(t, payload("John", "john@example.com", "Acme"))

	w := s.do(t, http.MethodPut, "/api/contacts/"+created.ID, payload("Janet", "janet@example.com", "Globex"))
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[contactJSON](t, w)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	w = s.do(t, http.MethodPut, "/api/contacts/"+created.ID, payload("Janet", "john@example.com", "Globex"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/contacts/missing", payload("X", "x@example.com", "Acme"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodDelete, "/api/contacts/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Contact not found", decode[rolodex.ErrorResponse](t, w).Message)

	created := s.create(t, payload("Jane", "jane@example.com", "Acme"))
	w = s.do(t, http.MethodDelete, "/api/contacts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Contact deleted"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/contacts/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWritesClearCache(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	seed := func() {
		require.NoError(t, s.cache.Set(ctx, "k", []byte("v"), 0))
	}

	seed()
	created := s.create(t, payload("Jane", "jane@example.com", "Acme"))
	assert.False(t, s.cache.Exists(ctx, "k"))

	seed()
	s.do(t, http.MethodPut, "/api/contacts/"+created.ID, payload("Jane", "jane@example.com", "Acme"))
	assert.False(t, s.cache.Exists(ctx, "k"))

	seed()
	s.do(t, http.MethodDelete, "/api/contacts/"+created.ID, nil)
	assert.False(t, s.cache.Exists(ctx, "k"))

	seed()
	s.do(t, http.MethodGet, "/api/contacts", nil)
	assert.True(t, s.cache.Exists(ctx, "k"))
}

func TestAmbientEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/openapi", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/contacts/{id}")

	w = s.do(t, http.MethodGet, "/openapi.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	spec := decode[map[string]any](t, w)
	assert.Contains(t, spec["paths"], "/api/contacts")
}
