package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestFetchJSONSendsBearerToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer ts.Close()

	payload, err := FetchJSON(context.Background(), ts.Client(), ts.URL, "secreto", 0, silentLogger())
	require.NoError(t, err)
	require.JSONEq(t, `{"ok": true}`, string(payload))
	require.Equal(t, "Bearer secreto", gotAuth)
}

func TestFetchJSONRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer ts.Close()

	payload, err := FetchJSON(context.Background(), ts.Client(), ts.URL, "", 2, silentLogger())
	require.NoError(t, err)
	require.JSONEq(t, `{"ok": true}`, string(payload))
	require.EqualValues(t, 2, calls.Load())
}

func TestFetchJSONRejectsNonJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>mantenimiento</html>`))
	}))
	defer ts.Close()

	_, err := FetchJSON(context.Background(), ts.Client(), ts.URL, "", 0, silentLogger())
	require.ErrorContains(t, err, "not valid json")
}

func TestFetchJSONRequiresURL(t *testing.T) {
	_, err := FetchJSON(context.Background(), http.DefaultClient, "", "", 0, silentLogger())
	require.Error(t, err)
}
