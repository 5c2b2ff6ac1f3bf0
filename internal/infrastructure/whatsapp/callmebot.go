// Package whatsapp cliente HTTP de la API gratuita de CallMeBot.
package whatsapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/lux-ventas/internal/application/ports"
)

// Verificar en tiempo de compilación que Client implementa MessageSender.
var _ ports.MessageSender = (*Client)(nil)

// DefaultURL endpoint de CallMeBot.
const DefaultURL = "https://api.callmebot.com/whatsapp.php"

// Client envía mensajes con GET ?phone=&text=&apikey=.
// Usa net/http de la librería estándar; CallMeBot no tiene SDK.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el cliente. baseURL vacío usa DefaultURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		baseURL: baseURL,
		// Tope de red; cada envío lleva además su propio context.WithTimeout.
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send devuelve error ante cualquier respuesta distinta de 200.
func (c *Client) Send(ctx context.Context, phone, apiKey, text string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.messageURL(phone, apiKey, text), nil)
	if err != nil {
		return fmt.Errorf("callmebot: crear request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("callmebot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("callmebot: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// messageURL codifica los espacios como %20, igual que el panel de CallMeBot.
func (c *Client) messageURL(phone, apiKey, text string) string {
	q := "phone=" + escape(phone) + "&text=" + escape(text) + "&apikey=" + escape(apiKey)
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + q
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
