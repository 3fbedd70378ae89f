package recordstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cragmatch/cragmatch/internal/recordstore"
)

func TestListDecodesEnvelope(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api/collections/users/records", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"page": 1, "perPage": 2, "totalItems": 2,
			"items": [
				{"id": "u1", "name": "Alex", "intent": ["date"]},
				{"id": "u2", "name": "Maya", "intent": "partner"}
			]
		}`))
	}))
	defer srv.Close()

	client := recordstore.New(srv.URL)
	roster, err := client.List(context.Background(), "tok123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok123", gotAuth)
	require.Len(t, roster, 2)
	assert.Equal(t, "u1", roster[0].ID)
	assert.Equal(t, "Maya", roster[1].Name)
}

func TestGetSingleRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/collections/users/records/u1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "u1", "liked_dating": "[\"u2\"]"}`))
	}))
	defer srv.Close()

	client := recordstore.New(srv.URL)
	rec, err := client.Get(context.Background(), "tok", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.ID)
	assert.Equal(t, []string{"u2"}, []string(rec.LikedDating))
}

func TestPatchLikesOmitsNilSets(t *testing.T) {
	var body map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := recordstore.New(srv.URL)
	err := client.PatchLikes(context.Background(), "tok", "u1", recordstore.LikesPatch{
		Dating: []string{"u2"},
	})
	require.NoError(t, err)

	assert.Contains(t, body, "liked_dating")
	assert.NotContains(t, body, "liked_partner")
}

func TestPatchLikesSendsEmptySets(t *testing.T) {
	var body map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := recordstore.New(srv.URL)
	err := client.PatchLikes(context.Background(), "tok", "u1", recordstore.LikesPatch{
		Dating:  []string{},
		Partner: []string{},
	})
	require.NoError(t, err)

	// Clearing a set is a real write, distinct from leaving it untouched.
	assert.Equal(t, "[]", string(body["liked_dating"]))
	assert.Equal(t, "[]", string(body["liked_partner"]))
}

func TestAuthWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/collections/users/auth-with-password", r.URL.Path)
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "alex@example.com", req["identity"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token": "tok", "record": {"id": "u1", "email": "alex@example.com"}}`))
	}))
	defer srv.Close()

	client := recordstore.New(srv.URL)
	token, self, err := client.AuthWithPassword(context.Background(), "alex@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "u1", self.ID)
}

func TestStatusErrorOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	client := recordstore.New(srv.URL)
	_, err := client.Get(context.Background(), "tok", "missing")
	require.Error(t, err)

	var statusErr *recordstore.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestNetworkErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := recordstore.New(srv.URL)
	_, err := client.List(context.Background(), "tok")
	assert.Error(t, err)
}
