package httpapi

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oqtepa/fastfood-storefront/internal/model"
)

// readEvent consumes one SSE event and returns its data payload.
func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	var data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" {
			return data
		}
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestEventsStreamDeliversCatalogUpdates(t *testing.T) {
	app, h := setupApp(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	br := bufio.NewReader(resp.Body)

	// Initial snapshot arrives on connect.
	first := readEvent(t, br)
	assert.Contains(t, first, "classic-burger")

	// A catalog mutation is pushed to the open stream.
	require.True(t, app.Catalog.Add(model.Product{
		ID:       "samsa",
		Name:     model.LocalizedText{"uz": "Somsa", "en": "Samsa"},
		Price:    7000,
		Category: "desserts",
		Stock:    30,
	}))
	second := readEvent(t, br)
	assert.Contains(t, second, "samsa")
}
