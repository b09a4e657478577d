package taimio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryan-cox/taimio-report/internal/model"
)

func march(t *testing.T) model.DateRange {
	t.Helper()
	return model.DateRange{
		Start: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestFetchActivities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activities", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-03-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2024-03-31", r.URL.Query().Get("end_date"))
		assert.Equal(t, "work", r.URL.Query().Get("tag"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"title": "coding", "tags": ["work", "b", "a"],
			 "started_at": "2024-03-01T09:00:00+02:00", "finished_at": "2024-03-01T10:30:00+02:00"}
		]`))
	}))
	defer server.Close()

	client := NewClient(context.Background(), server.URL+"/", "secret")
	activities, err := client.FetchActivities(context.Background(), "work", march(t))
	require.NoError(t, err)
	require.Len(t, activities, 1)

	a := activities[0]
	assert.Equal(t, "coding", a.Title)
	assert.Equal(t, []string{"work", "b", "a"}, a.Tags, "tag order is preserved")
	_, offset := a.StartedAt.Zone()
	assert.Equal(t, 2*60*60, offset)
	assert.Equal(t, 90*time.Minute, a.FinishedAt.Sub(a.StartedAt))
}

func TestFetchActivitiesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid token"}`))
	}))
	defer server.Close()

	client := NewClient(context.Background(), server.URL, "stale")
	_, err := client.FetchActivities(context.Background(), "work", march(t))
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid token")

	var transportErr *TransportError
	assert.False(t, errors.As(err, &transportErr))
}

func TestFetchActivitiesBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(context.Background(), server.URL, "secret")
	_, err := client.FetchActivities(context.Background(), "work", march(t))

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
}

func TestFetchActivitiesTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(context.Background(), url, "secret")
	_, err := client.FetchActivities(context.Background(), "work", march(t))

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.PostForm.Get("username"))
		assert.Equal(t, "hunter2", r.PostForm.Get("password"))
		w.Write([]byte(`{"token": "fresh"}`))
	}))
	defer server.Close()

	client := NewClient(context.Background(), server.URL, "")
	token, err := client.Login(context.Background(), "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
}

func TestLoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(context.Background(), server.URL, "")
	_, err := client.Login(context.Background(), "alice", "wrong")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}
