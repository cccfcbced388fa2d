package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SignInWithPassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("expected password grant, got %q", r.URL.Query().Get("grant_type"))
		}
		if r.Header.Get("apikey") != "anon" {
			t.Errorf("missing apikey header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","refresh_token":"ref-1","expires_in":3600,"user":{"id":"u-1","email":"lead@x.com"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon")
	sess, err := client.SignInWithPassword(context.Background(), "lead@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.AccessToken)
	assert.Equal(t, "u-1", sess.User.ID)
	assert.Equal(t, "lead@x.com", sess.User.Email)
}

func TestClient_SignInWithPassword_RejectionMessageVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon")
	_, err := client.SignInWithPassword(context.Background(), "lead@x.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())
}

func TestClient_GetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"id":"u-1","email":"lead@x.com"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon")
	user, err := client.GetUser(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
}

func TestClient_SignOut_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/logout" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon")
	require.NoError(t, client.SignOut(context.Background(), "tok-1"))
}

func TestClient_ContextDeadlineCancelsCall(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	client := NewClient(server.URL, "anon")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.GetUser(ctx, "tok-1")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second, "deadline should cut the call short")
}

func TestClient_ErrorWithoutPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon")
	_, err := client.GetUser(context.Background(), "tok-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
