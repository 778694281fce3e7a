package collab

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUrlHealthCache_OKForSuccessfulResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	now := time.Now()
	c := NewUrlHealthCache(func() time.Time { return now })

	result, err := c.Check(context.Background(), srv.URL, time.Second)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestUrlHealthCache_NotOKFor4xxAnd5xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	now := time.Now()
	c := NewUrlHealthCache(func() time.Time { return now })

	result, err := c.Check(context.Background(), srv.URL, time.Second)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestUrlHealthCache_CachesWithinTTL(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	now := time.Now()
	c := NewUrlHealthCache(func() time.Time { return now })

	_, err := c.Check(context.Background(), srv.URL, time.Second)
	require.NoError(t, err)
	_, err = c.Check(context.Background(), srv.URL, time.Second)
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
}

func TestUrlHealthCache_RefetchesAfterTTLExpires(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	now := time.Now()
	c := NewUrlHealthCache(func() time.Time { return now })

	_, err := c.Check(context.Background(), srv.URL, time.Second)
	require.NoError(t, err)

	now = now.Add(6 * time.Minute)
	_, err = c.Check(context.Background(), srv.URL, time.Second)
	require.NoError(t, err)

	assert.Equal(t, 2, hits)
}

func TestUrlHealthCache_FollowsRedirectsToFinalURL(t *testing.T) {
	var target *httptest.Server
	target = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer src.Close()

	c := NewUrlHealthCache(nil)
	result, err := c.Check(context.Background(), src.URL, time.Second)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Contains(t, result.FinalURL, target.URL)
}

func TestUrlHealthCache_UnreachableHostIsNotOK(t *testing.T) {
	c := NewUrlHealthCache(nil)
	result, err := c.Check(context.Background(), "http://127.0.0.1:1", 200*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, result.OK)
}
