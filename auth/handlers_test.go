package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postForm(h http.Handler, username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestHandlers_RegisterAndToken(t *testing.T) {
	f := newFixture(t)
	var reasons []string
	h := NewHandlers(f.service, f.tokens, func(reason string) { reasons = append(reasons, reason) })
	register := h.HandleRegister()
	login := h.HandleToken()

	rec := postForm(register, "alice", "pw")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"username":"alice"}`, rec.Body.String())

	rec = postForm(register, "alice", "other")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Username already registered"}`, rec.Body.String())

	rec = postForm(login, "alice", "pw")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int64(1800), resp.ExpiresIn)

	claims, err := f.tokens.Validate(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)

	rec = postForm(login, "alice", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"error":"Wrong credentials"}`, rec.Body.String())

	rec = postForm(login, "nobody", "pw")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, []string{ReasonInvalidCredentials, ReasonInvalidCredentials}, reasons)
}

func TestHandlers_JSONBody(t *testing.T) {
	f := newFixture(t)
	h := NewHandlers(f.service, f.tokens, nil)

	r := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"bob","password":"pw"}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	h.HandleRegister().ServeHTTP(rec, r)
	assert.Equal(t, http.StatusCreated, rec.Code)

	r = httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":`))
	r.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.HandleRegister().ServeHTTP(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlers_RegisterMissingFields(t *testing.T) {
	f := newFixture(t)
	rec := postForm(NewHandlers(f.service, f.tokens, nil).HandleRegister(), "", "pw")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"username is required"}`, rec.Body.String())
}
