package testutil

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/fail":
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"success":false,"error":{"code":"NOT_FOUND","message":"missing"}}`)
		default:
			body, _ := io.ReadAll(r.Body)
			if len(body) == 0 {
				body = []byte("null")
			}
			_, _ = io.WriteString(w, `{"success":true,"data":{"auth":"`+r.Header.Get("Authorization")+
				`","type":"`+r.Header.Get("Content-Type")+`","body":`+string(body)+`}}`)
		}
	})
}

type echo struct {
	Auth string         `json:"auth"`
	Type string         `json:"type"`
	Body map[string]any `json:"body"`
}

func TestClient_Do(t *testing.T) {
	c := NewClient(t, echoHandler())

	got := Data[echo](t, c.Do(http.MethodPost, "/", map[string]string{"a": "b"}), http.StatusOK)
	assert.Empty(t, got.Auth)
	assert.Equal(t, "application/json", got.Type)
	assert.Equal(t, "b", got.Body["a"])

	got = Data[echo](t, c.As("tok").Do(http.MethodGet, "/", nil), http.StatusOK)
	assert.Equal(t, "Bearer tok", got.Auth)
	assert.Nil(t, got.Body)
}

func TestClient_Upload(t *testing.T) {
	w := NewClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("image")
		require.NoError(t, err)
		data, _ := io.ReadAll(file)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(data)
	})).Upload(http.MethodPost, "/", []byte("pixels"))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "pixels", w.Body.String())
}

func TestAssertError(t *testing.T) {
	w := NewClient(t, echoHandler()).Do(http.MethodGet, "/fail", nil)
	AssertError(t, w, http.StatusNotFound, "NOT_FOUND")
}
