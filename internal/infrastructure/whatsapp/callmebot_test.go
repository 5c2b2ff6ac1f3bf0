package whatsapp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lux-ventas/internal/infrastructure/whatsapp"
)

func TestSend_ArmaLaURL(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte("Message queued"))
	}))
	defer srv.Close()

	c := whatsapp.NewClient(srv.URL+"/whatsapp.php", time.Second)
	err := c.Send(context.Background(), "+51999000111", "123456", "Hola Sebastian! *Negocio:* Hotel & Spa")
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/whatsapp.php", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "+51999000111", q.Get("phone"))
	assert.Equal(t, "123456", q.Get("apikey"))
	assert.Equal(t, "Hola Sebastian! *Negocio:* Hotel & Spa", q.Get("text"))
	assert.Contains(t, got.URL.RawQuery, "Hola%20Sebastian")
}

func TestSend_StatusDistintoDe200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("APIKey is invalid"))
	}))
	defer srv.Close()

	err := whatsapp.NewClient(srv.URL, time.Second).Send(context.Background(), "1", "k", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "APIKey is invalid")
}

func TestSend_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := whatsapp.NewClient(srv.URL, 5*time.Second).Send(ctx, "1", "k", "hola")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
