package corpus

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *RandommerClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRandommerClient(ClientConfig{
		BaseURL:    srv.URL,
		APIKey:     "secret",
		Timeout:    2 * time.Second,
		Attempts:   3,
		RetryDelay: time.Millisecond,
	})
}

func TestRandommerClient_Words(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Text/LoremIpsum", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "normal", r.URL.Query().Get("loremType"))
		assert.Equal(t, "paragraphs", r.URL.Query().Get("type"))
		assert.Equal(t, "2", r.URL.Query().Get("number"))
		_, _ = w.Write([]byte("Lorem ipsum  dolor\nsit amet."))
	})

	words, err := client.Words(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lorem", "ipsum", "dolor", "sit", "amet."}, words)
}

func TestRandommerClient_WordsJSONString(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`"alpha beta gamma"`))
	})

	words, err := client.Words(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, words)
}

func TestRandommerClient_Names(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Name", r.URL.Path)
		assert.Equal(t, "fullname", r.URL.Query().Get("nameType"))
		assert.Equal(t, "3", r.URL.Query().Get("quantity"))
		_, _ = w.Write([]byte(`["Ann Lee","Bo Chan","Cy Dee"]`))
	})

	names, err := client.Names(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann Lee", "Bo Chan", "Cy Dee"}, names)
}

func TestRandommerClient_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCalls int32
	}{
		{name: "unauthorized is not retried", status: http.StatusUnauthorized, body: "nope", wantCalls: 1},
		{name: "server error is retried", status: http.StatusBadGateway, body: "down", wantCalls: 3},
		{name: "rate limited is retried", status: http.StatusTooManyRequests, body: "slow", wantCalls: 3},
		{name: "malformed json", status: http.StatusOK, body: "{not json", wantCalls: 1},
		{name: "empty list", status: http.StatusOK, body: "[]", wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Names(context.Background(), 3)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnavailable))
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestRandommerClient_RecoversAfterTransientFailure(t *testing.T) {
	var calls int32
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`["Ann Lee"]`))
	})

	names, err := client.Names(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann Lee"}, names)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

type failingProvider struct {
	Static
	wordsErr error
}

func (f failingProvider) Words(ctx context.Context, n int) ([]string, error) {
	if f.wordsErr != nil {
		return nil, f.wordsErr
	}
	return f.Static.Words(ctx, n)
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		c, err := Fetch(ctx, Static{WordList: []string{"a", " ", "b"}, NameList: []string{"Ann Lee"}}, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, c.Words())
		assert.Equal(t, 1, c.NameCount())
		assert.Equal(t, "Ann Lee", c.Name(0))
	})

	t.Run("provider error", func(t *testing.T) {
		_, err := Fetch(ctx, failingProvider{wordsErr: errors.New("dns")}, 1, 1)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("empty words", func(t *testing.T) {
		_, err := Fetch(ctx, Static{NameList: []string{"Ann Lee"}}, 1, 1)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("empty names", func(t *testing.T) {
		_, err := Fetch(ctx, Static{WordList: []string{"a"}}, 1, 1)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestCorpus_WordsIsACopy(t *testing.T) {
	c, err := New([]string{"x", "y"}, []string{"N M"})
	require.NoError(t, err)
	w := c.Words()
	w[0] = "mutated"
	assert.Equal(t, "x", c.Word(0))
}

func TestFakeProvider(t *testing.T) {
	p := NewFakeProvider(42)
	ctx := context.Background()

	words, err := p.Words(ctx, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, words)

	names, err := p.Names(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, names, 7)

	c, err := Fetch(ctx, NewFakeProvider(1), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.NameCount())
}
