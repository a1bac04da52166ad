package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oqtepa/fastfood-storefront/internal/catalog"
	"github.com/oqtepa/fastfood-storefront/internal/kvstore"
	"github.com/oqtepa/fastfood-storefront/internal/model"
	"github.com/oqtepa/fastfood-storefront/internal/notify"
)

const (
	testToken = "123:abc"
	testChat  = "42"
)

// telegramStub fakes the Bot API sendMessage endpoint.
type telegramStub struct {
	calls int
	fail  bool
	last  map[string]string
}

func (s *telegramStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls++
		_ = json.NewDecoder(r.Body).Decode(&s.last)
		w.Header().Set("Content-Type", "application/json")
		if s.fail {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "chat not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
}

func newTestDispatcher(t *testing.T, stub *telegramStub) (*Dispatcher, *catalog.Store) {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)
	cat := catalog.New(kvstore.New(t.TempDir()), catalog.NewBroadcaster(4, 0))
	client := notify.NewClient(srv.URL, testToken, testChat)
	return NewDispatcher(cat, client), cat
}

func cartFor(t *testing.T, cat *catalog.Store, id string, qty int64) []model.CartItem {
	t.Helper()
	p, ok := cat.Get(id)
	require.True(t, ok)
	return []model.CartItem{{Product: p, Quantity: qty}}
}

func details() model.CustomerDetails {
	return model.CustomerDetails{Name: "Aziz", Phone: "+998901234567", Address: "Chilonzor 5"}
}

func TestPrepareComputesTotal(t *testing.T) {
	d, cat := newTestDispatcher(t, &telegramStub{})
	items := append(cartFor(t, cat, "classic-burger", 2), cartFor(t, cat, "cola", 1)...)
	prep := d.Prepare(items, details(), model.LangEN)
	assert.Equal(t, int64(58000), prep.Order.Total)
	assert.Equal(t, model.LangEN, prep.Order.Language)
}

func TestPrepareNeverMutatesStock(t *testing.T) {
	d, cat := newTestDispatcher(t, &telegramStub{})
	before := cat.GetStock("classic-burger")
	d.Prepare(cartFor(t, cat, "classic-burger", 2), details(), model.LangUZ)
	assert.Equal(t, before, cat.GetStock("classic-burger"))
}

func TestPrepareOrderIDFormat(t *testing.T) {
	d, cat := newTestDispatcher(t, &telegramStub{})
	idRe := regexp.MustCompile(`^ORD\d{9}$`)
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		prep := d.Prepare(cartFor(t, cat, "cola", 1), details(), model.LangUZ)
		assert.Regexp(t, idRe, prep.Order.ID)
		assert.False(t, seen[prep.Order.ID], "order ids must not repeat")
		seen[prep.Order.ID] = true
	}
}

func TestPrepareUnknownLanguageFallsBack(t *testing.T) {
	d, cat := newTestDispatcher(t, &telegramStub{})
	prep := d.Prepare(cartFor(t, cat, "cola", 1), details(), "fr")
	assert.Equal(t, model.DefaultLanguage, prep.Order.Language)
}

func TestPrepareUnconfiguredStillReturnsMessage(t *testing.T) {
	cat := catalog.New(kvstore.New(t.TempDir()), catalog.NewBroadcaster(4, 0))
	d := NewDispatcher(cat, notify.NewClient("https://api.telegram.org", "", ""))
	prep := d.Prepare(cartFor(t, cat, "cola", 1), details(), model.LangUZ)
	assert.False(t, prep.Configured)
	assert.Empty(t, prep.DispatchURL)
	assert.Contains(t, prep.Message, "NEW FAST FOOD ORDER")
}

func TestPrepareExposesCoordinates(t *testing.T) {
	d, cat := newTestDispatcher(t, &telegramStub{})
	det := details()
	det.Location = &model.GeoPoint{Lat: 41.31, Lng: 69.24}
	prep := d.Prepare(cartFor(t, cat, "cola", 1), det, model.LangUZ)
	require.NotNil(t, prep.Coordinates)
	assert.Equal(t, 41.31, prep.Coordinates.Lat)
	assert.Equal(t, 69.24, prep.Coordinates.Lng)
	assert.NotEmpty(t, prep.DispatchURL)
}

func TestSendDecrementsStockAfterAck(t *testing.T) {
	stub := &telegramStub{}
	d, cat := newTestDispatcher(t, stub)
	before := cat.GetStock("classic-burger")
	prep := d.Prepare(cartFor(t, cat, "classic-burger", 2), details(), model.LangUZ)

	res := d.Send(context.Background(), prep.Order)
	require.True(t, res.Success)
	assert.Equal(t, StateSent, res.State)
	assert.Equal(t, before-2, cat.GetStock("classic-burger"))
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, testChat, stub.last["chat_id"])
	assert.Equal(t, "Markdown", stub.last["parse_mode"])
	assert.Contains(t, stub.last["text"], prep.Order.ID)
}

func TestSendRejectsInsufficientStockWithoutSending(t *testing.T) {
	stub := &telegramStub{}
	d, cat := newTestDispatcher(t, stub)
	// pepperoni seeds with stock 8; ask for more.
	p, ok := cat.Get("pepperoni")
	require.True(t, ok)
	items := []model.CartItem{{Product: p, Quantity: 9}}
	prep := d.Prepare(items, details(), model.LangUZ)

	res := d.Send(context.Background(), prep.Order)
	require.False(t, res.Success)
	assert.Equal(t, StateRejected, res.State)
	assert.Contains(t, res.Error, "Insufficient stock for Pepperoni")
	assert.Contains(t, res.Error, "Only 8 available")
	assert.Equal(t, 0, stub.calls, "nothing sent")
	assert.Equal(t, int64(8), cat.GetStock("pepperoni"), "stock unchanged")
	assert.NotEmpty(t, res.Message, "manual fallback retained")
}

func TestSendAPIFailureLeavesStockUnchanged(t *testing.T) {
	stub := &telegramStub{fail: true}
	d, cat := newTestDispatcher(t, stub)
	before := cat.GetStock("cola")
	prep := d.Prepare(cartFor(t, cat, "cola", 1), details(), model.LangUZ)

	res := d.Send(context.Background(), prep.Order)
	require.False(t, res.Success)
	assert.Equal(t, StateFailed, res.State)
	assert.Contains(t, res.Error, "chat not found")
	assert.Equal(t, before, cat.GetStock("cola"))
	assert.NotEmpty(t, res.Message)
}

func TestSendNetworkFailure(t *testing.T) {
	cat := catalog.New(kvstore.New(t.TempDir()), catalog.NewBroadcaster(4, 0))
	// Point at a closed server.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	d := NewDispatcher(cat, notify.NewClient(srv.URL, testToken, testChat))

	prep := d.Prepare(cartFor(t, cat, "cola", 1), details(), model.LangUZ)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res := d.Send(ctx, prep.Order)
	require.False(t, res.Success)
	assert.Equal(t, StateFailed, res.State)
	assert.NotEmpty(t, res.Error)
}
