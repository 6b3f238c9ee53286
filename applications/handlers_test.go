package applications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/jobtrack-go/users"
)

// newRouter serves the routes as the account named by the X-Test-User header.
func newRouter(f *fixture, accounts map[string]*users.Account) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if a, ok := accounts[req.Header.Get("X-Test-User")]; ok {
				req = req.WithContext(users.NewContextWithAccount(req.Context(), a))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Use(ScopeMiddleware(f.svc))
	NewHandlers().RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, user, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Test-User", user)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlers_CRUD(t *testing.T) {
	f := newFixture(t)
	h := newRouter(f, map[string]*users.Account{
		"alice": f.account(t, "alice"),
		"bob":   f.account(t, "bob"),
	})

	rec := do(t, h, "alice", http.MethodPost, "/", `{"company":"Acme","status":"reviewing","url":"https://acme.example"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created["id"].(string)
	assert.Equal(t, "reviewing", created["status"])
	assert.Nil(t, created["updated_at"])
	assert.NotContains(t, created, "owner_id")

	rec = do(t, h, "alice", http.MethodGet, "/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, "bob", http.MethodGet, "/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, "bob", http.MethodPut, "/"+id, `{"status":"rejected"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, "bob", http.MethodDelete, "/"+id, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, "alice", http.MethodPut, "/"+id, `{"status":"offered","url":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "offered", updated["status"])
	assert.Equal(t, "Acme", updated["company"])
	assert.Nil(t, updated["url"])
	assert.NotNil(t, updated["updated_at"])

	rec = do(t, h, "alice", http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = do(t, h, "bob", http.MethodGet, "/", "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, "alice", http.MethodDelete, "/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, "alice", http.MethodGet, "/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlers_BadInput(t *testing.T) {
	f := newFixture(t)
	h := newRouter(f, map[string]*users.Account{"alice": f.account(t, "alice")})

	cases := []struct {
		name, method, target, body string
		status                     int
	}{
		{"bad status", http.MethodPost, "/", `{"company":"Acme","status":"ghosted"}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/", `{"company":"Acme","status":"offered","salary":1}`, http.StatusBadRequest},
		{"broken json", http.MethodPost, "/", `{"company":`, http.StatusBadRequest},
		{"non-uuid id", http.MethodGet, "/not-a-uuid", "", http.StatusNotFound},
		{"bad limit", http.MethodGet, "/?limit=0", "", http.StatusBadRequest},
		{"huge limit", http.MethodGet, "/?limit=101", "", http.StatusBadRequest},
		{"negative offset", http.MethodGet, "/?offset=-1", "", http.StatusBadRequest},
		{"non-integer offset", http.MethodGet, "/?offset=abc", "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, "alice", tc.method, tc.target, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestHandlers_NoAccount(t *testing.T) {
	f := newFixture(t)
	h := newRouter(f, nil)

	rec := do(t, h, "", http.MethodGet, "/", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestParsePage(t *testing.T) {
	page, err := ParsePage(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, Page{Offset: 0, Limit: DefaultLimit}, page)

	page, err = ParsePage(url.Values{"offset": {"20"}, "limit": {"100"}})
	require.NoError(t, err)
	assert.Equal(t, Page{Offset: 20, Limit: 100}, page)
}
