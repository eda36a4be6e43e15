package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Semior001/cryptonews/app/news"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newsDataResults(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"title":"title %d","link":"https://example.com/%d",`+
			`"source_id":"source%d","pubDate":"2024-01-0%d 10:00:00"}`, i, i, i, i%9+1)
	}
	return `{"status":"success","totalResults":` + fmt.Sprint(n) + `,"results":[` + strings.Join(items, ",") + `]}`
}

func TestNewsData_Fetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/news", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "ethereum", r.URL.Query().Get("q"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(newsDataResults(3)))
		require.NoError(t, err)
	}))
	defer ts.Close()

	cl := NewNewsData(testLogger, ClientOpts{Token: "test-key", BaseURL: ts.URL + "/", Timeout: time.Second})

	articles, err := cl.Fetch(context.Background(), "eth")
	require.NoError(t, err)
	assert.Equal(t, []news.Article{
		{Title: "title 0", URL: "https://example.com/0", Source: "source0", Date: "2024-01-01 10:00:00"},
		{Title: "title 1", URL: "https://example.com/1", Source: "source1", Date: "2024-01-02 10:00:00"},
		{Title: "title 2", URL: "https://example.com/2", Source: "source2", Date: "2024-01-03 10:00:00"},
	}, articles)
}

func TestNewsData_Fetch_UnknownQueryLowercased(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "shiba inu", r.URL.Query().Get("q"))
		_, err := w.Write([]byte(newsDataResults(1)))
		require.NoError(t, err)
	}))
	defer ts.Close()

	cl := NewNewsData(testLogger, ClientOpts{Token: "test-key", BaseURL: ts.URL})

	articles, err := cl.Fetch(context.Background(), "Shiba Inu")
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}

func TestNewsData_Fetch_CapsResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte(newsDataResults(10)))
		require.NoError(t, err)
	}))
	defer ts.Close()

	cl := NewNewsData(testLogger, ClientOpts{Token: "test-key", BaseURL: ts.URL})

	articles, err := cl.Fetch(context.Background(), "btc")
	require.NoError(t, err)
	require.Len(t, articles, maxNewsResults)
	for i, a := range articles {
		assert.Equal(t, fmt.Sprintf("title %d", i), a.Title)
	}
}

func TestNewsData_Fetch_MissingFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte(`{"status":"success","results":[{"title":"only title","source_id":null}]}`))
		require.NoError(t, err)
	}))
	defer ts.Close()

	cl := NewNewsData(testLogger, ClientOpts{Token: "test-key", BaseURL: ts.URL})

	articles, err := cl.Fetch(context.Background(), "btc")
	require.NoError(t, err)
	assert.Equal(t, []news.Article{{Title: "only title"}}, articles)
}

func TestNewsData_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "bad status", status: http.StatusInternalServerError, body: `{}`, wantErr: "bad status code: 500"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, wantErr: "bad status code: 401"},
		{name: "invalid json", status: http.StatusOK, body: `{invalid`, wantErr: "decode response"},
		{name: "no results field", status: http.StatusOK, body: `{"status":"success"}`, wantErr: "no results"},
		{name: "null results", status: http.StatusOK, body: `{"status":"success","results":null}`, wantErr: "no results"},
		{name: "results not array", status: http.StatusOK, body: `{"status":"success","results":"x"}`, wantErr: "decode results"},
		{
			name:    "provider error",
			status:  http.StatusOK,
			body:    `{"status":"error","results":{"message":"API key is invalid","code":"Unauthorized"}}`,
			wantErr: "API key is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, err := w.Write([]byte(tt.body))
				require.NoError(t, err)
			}))
			defer ts.Close()

			cl := NewNewsData(testLogger, ClientOpts{Token: "test-key", BaseURL: ts.URL})

			articles, err := cl.Fetch(context.Background(), "btc")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, articles)
		})
	}
}

func TestNewsData_Fetch_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer ts.Close()

	cl := NewNewsData(testLogger, ClientOpts{Token: "test-key", BaseURL: ts.URL, Timeout: 50 * time.Millisecond})

	articles, err := cl.Fetch(context.Background(), "btc")
	require.Error(t, err)
	assert.Empty(t, articles)
}

func TestNewsData_Fetch_MistypedFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte(`{"status":"success","results":[
			{"title":"t1","link":"https://example.com/1","source_id":"s1","pubDate":"d1"},
			{"title":"t2","link":"https://example.com/2","source_id":["x"],"pubDate":"d2"},
			{"title":"t3","link":"https://example.com/3","source_id":"s3","pubDate":"d3"},
			"not an object",
			{"title":"t5","link":"https://example.com/5","source_id":"s5","pubDate":5},
			{"title":42,"link":"https://example.com/6","source_id":"s6","pubDate":"d6"}
		]}`))
		require.NoError(t, err)
	}))
	defer ts.Close()

	cl := NewNewsData(testLogger, ClientOpts{Token: "test-key", BaseURL: ts.URL})

	articles, err := cl.Fetch(context.Background(), "btc")
	require.NoError(t, err)
	assert.Equal(t, []news.Article{
		{Title: "t1", URL: "https://example.com/1", Source: "s1", Date: "d1"},
		{Title: "t2", URL: "https://example.com/2", Source: "", Date: "d2"},
		{Title: "t3", URL: "https://example.com/3", Source: "s3", Date: "d3"},
		{},
		{Title: "t5", URL: "https://example.com/5", Source: "s5", Date: ""},
	}, articles)
}
