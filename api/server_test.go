package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/database/dbtest"
	"github.com/rpupo63/baglist-backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	ctx      context.Context
	handler  http.Handler
	store    *dbtest.Store
	svc      *services.Service
	verifier TokenVerifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	store := dbtest.New(t)
	require.NoError(t, database.SeedFacets(ctx, store))
	svc := services.New(store, services.WithURLBuilder(services.URLBuilder{BaseURL: "https://baglist.test"}))
	verifier := NewTokenVerifier("test-secret", "")

	return &testServer{
		ctx:      ctx,
		handler:  newRouter(svc, verifier, withRequestLogging(false), withPinger(store)),
		store:    store,
		svc:      svc,
		verifier: verifier,
	}
}

// member creates a profile and returns its actor and a bearer token for it.
func (s *testServer) member(t *testing.T, handle string) (services.Actor, string) {
	t.Helper()
	actor := services.Actor{AccountID: "account-" + handle}
	profile, err := s.svc.CreateProfile(s.ctx, actor, services.CreateProfileInput{Handle: handle, DisplayName: handle})
	require.NoError(t, err)
	actor.ProfileID = profile.ID

	token, err := s.verifier.Sign(actor.AccountID, time.Hour)
	require.NoError(t, err)
	return actor, token
}

func (s *testServer) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) postForm(path, token string, form url.Values) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, path, token, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (s *testServer) sendJSON(method, path, token, body string) *httptest.ResponseRecorder {
	return s.do(method, path, token, strings.NewReader(body), "application/json")
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/healthz", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	s.store.FailOn("store.Ping", errors.New("connection refused"))
	rec = s.do(http.MethodGet, "/healthz", "", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)
	_, token := s.member(t, "ana")

	rec := s.do(http.MethodGet, "/api/me", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/me", "not-a-jwt", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := s.verifier.Sign("account-ana", -time.Minute)
	require.NoError(t, err)
	rec = s.do(http.MethodGet, "/api/me", expired, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged, err := NewTokenVerifier("other-secret", "").Sign("account-ana", time.Hour)
	require.NoError(t, err)
	rec = s.do(http.MethodGet, "/api/me", forged, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/me", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana", decodeBody(t, rec)["handle"])
}

func TestTokenVerifier_Issuer(t *testing.T) {
	strict := NewTokenVerifier("secret", "accounts.baglist.test")
	token, err := NewTokenVerifier("secret", "elsewhere").Sign("account-1", time.Hour)
	require.NoError(t, err)
	_, err = strict.Verify(token)
	assert.Error(t, err)

	token, err = strict.Sign("account-1", time.Hour)
	require.NoError(t, err)
	accountID, err := strict.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "account-1", accountID)
}

func TestProfileRequiredBeforeCreatingLists(t *testing.T) {
	s := newTestServer(t)
	token, err := s.verifier.Sign("account-new", time.Hour)
	require.NoError(t, err)

	rec := s.sendJSON(http.MethodPost, "/api/baglists", token, `{"title":"Japan Trip"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.sendJSON(http.MethodPost, "/api/profiles", token, `{"handle":"Newbie","display_name":"New"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "newbie", decodeBody(t, rec)["handle"])

	rec = s.sendJSON(http.MethodPost, "/api/baglists", token, `{"title":"Japan Trip"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestBagListJSONFlow(t *testing.T) {
	s := newTestServer(t)
	_, token := s.member(t, "ana")

	rec := s.sendJSON(http.MethodPost, "/api/baglists", token, `{"title":"Japan Trip","visibility":"public"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	assert.Equal(t, "japan-trip", created["slug"])
	assert.NotContains(t, created, "share_token")
	id := created["id"].(string)

	rec = s.sendJSON(http.MethodPost, "/api/baglists", token, `{"title":"Japan Trip"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.sendJSON(http.MethodPost, "/api/baglists", token, `{"title":"Office","colour":"red"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.sendJSON(http.MethodPost, "/api/baglists/"+id+"/sections", token, `{"title":"Tech"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.sendJSON(http.MethodPost, "/api/baglists/"+id+"/items", token, `{"custom_title":"Passport"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// public read by handle and slug, no token needed
	rec = s.do(http.MethodGet, "/ana/baglist/japan-trip", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeBody(t, rec)
	assert.Len(t, view["sections"], 1)
	assert.Len(t, view["unsectioned_items"], 1)
	assert.Equal(t, "https://baglist.test/ana/baglist/japan-trip", view["url"])

	rec = s.sendJSON(http.MethodPatch, "/api/baglists/"+id, token, `{"visibility":"private"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/ana/baglist/japan-trip", "", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(http.MethodGet, "/ana/baglist/japan-trip/", token, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, "/api/baglists/"+id, token, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodGet, "/api/baglists/"+id, token, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/baglists/not-a-uuid", token, nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnlistedShareLink(t *testing.T) {
	s := newTestServer(t)
	_, token := s.member(t, "ana")

	rec := s.sendJSON(http.MethodPost, "/api/baglists", token, `{"title":"Gifts","visibility":"unlisted"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	id := created["id"].(string)
	shareToken, ok := created["share_token"].(string)
	require.True(t, ok, "the owner receives the share token")
	require.NotEmpty(t, shareToken)

	rec = s.do(http.MethodGet, "/ana/baglist/gifts", "", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(http.MethodGet, "/ana/baglist/gifts?token="+url.QueryEscape(shareToken), "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), shareToken)

	rec = s.do(http.MethodGet, "/api/baglists", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"share_token":"`+shareToken+`"`)

	rec = s.do(http.MethodPost, "/api/baglists/"+id+"/share-token", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := decodeBody(t, rec)
	assert.NotEqual(t, shareToken, rotated["share_token"])
	assert.Contains(t, rotated["share_url"], "https://baglist.test/ana/baglist/gifts?token=")

	rec = s.do(http.MethodGet, "/ana/baglist/gifts?token="+url.QueryEscape(shareToken), "", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(http.MethodGet, "/ana/baglist/gifts?token="+url.QueryEscape(rotated["share_token"].(string)), "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// publishing drops the token, so the public page has none to leak
	rec = s.sendJSON(http.MethodPatch, "/api/baglists/"+id, token, `{"visibility":"public"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, decodeBody(t, rec), "share_token")
	rec = s.do(http.MethodGet, "/ana/baglist/gifts", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "share_token")
}

func TestReadByHandle_IgnoresHandleCase(t *testing.T) {
	s := newTestServer(t)
	_, token := s.member(t, "ana")
	rec := s.sendJSON(http.MethodPost, "/api/baglists", token, `{"title":"Japan Trip","visibility":"public"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/Ana/baglist/japan-trip", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestInlineEdit_UpdateSectionTitle(t *testing.T) {
	s := newTestServer(t)
	ana, token := s.member(t, "ana")
	_, benToken := s.member(t, "ben")
	baglist, err := s.svc.CreateBagList(s.ctx, ana, services.CreateBagListInput{Title: "Japan Trip"})
	require.NoError(t, err)
	section, err := s.svc.CreateSection(s.ctx, ana, baglist.ID, services.CreateSectionInput{Title: "Tech"})
	require.NoError(t, err)
	form := url.Values{"section_id": {section.ID.String()}, "title": {"  Electronics "}}

	rec := s.postForm("/htmx/update-section-title", token, form)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"title":"Electronics"}`, rec.Body.String())

	// trailing slashes are accepted
	form.Set("title", "Gadgets")
	rec = s.postForm("/htmx/update-section-title/", token, form)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"title":"Gadgets"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/htmx/update-section-title", token, nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"invalid method"}`, rec.Body.String())

	rec = s.postForm("/htmx/update-section-title", benToken, form)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"section not found"}`, rec.Body.String())

	rec = s.postForm("/htmx/update-section-title", "", form)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"missing access token"}`, rec.Body.String())

	rec = s.postForm("/htmx/update-section-title", token, url.Values{"section_id": {section.ID.String()}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])

	rec = s.postForm("/htmx/update-section-title", token, url.Values{"section_id": {"42"}, "title": {"x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stored, err := s.store.Sections().FindByID(s.ctx, section.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gadgets", stored.Title)
}

func TestInlineEdit_SectionsAndItems(t *testing.T) {
	s := newTestServer(t)
	ana, token := s.member(t, "ana")
	baglist, err := s.svc.CreateBagList(s.ctx, ana, services.CreateBagListInput{Title: "Japan Trip"})
	require.NoError(t, err)
	tech, err := s.svc.CreateSection(s.ctx, ana, baglist.ID, services.CreateSectionInput{Title: "Tech"})
	require.NoError(t, err)
	clothes, err := s.svc.CreateSection(s.ctx, ana, baglist.ID, services.CreateSectionInput{Title: "Clothes"})
	require.NoError(t, err)
	item, err := s.svc.CreateItem(s.ctx, ana, baglist.ID, services.CreateItemInput{CustomTitle: "Laptop"})
	require.NoError(t, err)

	rec := s.postForm("/htmx/update-section-description", token, url.Values{"section_id": {tech.ID.String()}, "description": {""}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"description":""}`, rec.Body.String())

	rec = s.postForm("/htmx/update-section-position", token, url.Values{"section_id": {clothes.ID.String()}, "position": {"0"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"position":0}`, rec.Body.String())

	rec = s.postForm("/htmx/update-section-position", token, url.Values{"section_id": {clothes.ID.String()}, "position": {"first"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	pair := url.Values{"section_id": {tech.ID.String()}, "item_id": {item.ID.String()}}
	rec = s.postForm("/htmx/add-item-to-section", token, pair)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"section_id":"`+tech.ID.String()+`"}`, rec.Body.String())

	rec = s.postForm("/htmx/remove-item-from-section", token, url.Values{"section_id": {clothes.ID.String()}, "item_id": {item.ID.String()}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.postForm("/htmx/remove-item-from-section", token, pair)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/htmx/baglist-sections?baglist_id="+baglist.ID.String(), token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sections := decodeBody(t, rec)["sections"].([]any)
	require.Len(t, sections, 2)
	assert.Equal(t, "Clothes", sections[0].(map[string]any)["title"])

	rec = s.do(http.MethodGet, "/htmx/baglist-sections?baglist_id="+uuid.NewString(), token, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.postForm("/htmx/delete-section", token, url.Values{"section_id": {tech.ID.String()}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/htmx/baglists", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	baglists := decodeBody(t, rec)["baglists"].([]any)
	require.Len(t, baglists, 1)
	assert.Equal(t, "Japan Trip", baglists[0].(map[string]any)["title"])

	rec = s.postForm("/htmx/baglists", token, url.Values{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
