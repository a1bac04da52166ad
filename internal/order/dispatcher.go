// Package order assembles immutable order snapshots from cart and
// customer data and dispatches them to the notification channel.
//
// An order moves Prepared -> Sent, Rejected (insufficient stock), or
// Failed (network or API error). Orders are never persisted; preparing
// one never touches stock, only an acknowledged send decrements it.
package order

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/oqtepa/fastfood-storefront/internal/catalog"
	"github.com/oqtepa/fastfood-storefront/internal/model"
	"github.com/oqtepa/fastfood-storefront/internal/notify"
	"github.com/oqtepa/fastfood-storefront/internal/obs"
)

// Dispatcher turns carts into formatted orders and sends them through
// the Telegram client, decrementing catalog stock on confirmed sends.
type Dispatcher struct {
	cat    *catalog.Store
	client *notify.Client
	seq    atomic.Uint64
	now    func() time.Time
}

// NewDispatcher constructs a Dispatcher over the given catalog and
// notification client.
func NewDispatcher(cat *catalog.Store, client *notify.Client) *Dispatcher {
	return &Dispatcher{cat: cat, client: client, now: time.Now}
}

// Prepared is the result of assembling an order. The formatted message
// is always present so callers can fall back to manual dispatch even
// when the integration is unconfigured.
type Prepared struct {
	Order       model.Order     `json:"order"`
	Message     string          `json:"message"`
	DispatchURL string          `json:"dispatch_url,omitempty"`
	Configured  bool            `json:"is_configured"`
	Coordinates *model.GeoPoint `json:"coordinates,omitempty"`
}

// Dispatch outcomes.
const (
	StateSent     = "sent"
	StateRejected = "rejected" // insufficient stock at send time
	StateFailed   = "failed"   // network or API error
)

// SendResult reports the outcome of a dispatch attempt. Message is
// carried on failures too, preserving the manual-copy fallback.
type SendResult struct {
	Success bool   `json:"success"`
	State   string `json:"state"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// nextOrderID combines a time-derived six-digit suffix with the
// monotonically increasing dispatch counter under a fixed prefix.
func (d *Dispatcher) nextOrderID() string {
	seq := d.seq.Add(1)
	ts := d.now().UnixMilli() % 1_000_000
	return fmt.Sprintf("ORD%06d%03d", ts, seq%1000)
}

// Prepare builds an immutable order snapshot and its formatted
// message. It never fails and never mutates stock.
func (d *Dispatcher) Prepare(items []model.CartItem, details model.CustomerDetails, lang string) Prepared {
	if !model.KnownLanguage(lang) {
		lang = model.DefaultLanguage
	}
	var total int64
	for _, it := range items {
		total += it.LineTotal()
	}
	o := model.Order{
		ID:        d.nextOrderID(),
		Items:     items,
		Customer:  details,
		Total:     total,
		Timestamp: d.now().UTC(),
		Language:  lang,
	}
	msg := FormatMessage(o)
	p := Prepared{
		Order:       o,
		Message:     msg,
		DispatchURL: d.client.MessageURL(msg),
		Configured:  d.client.Configured(),
	}
	if loc := details.Location; loc != nil {
		p.Coordinates = &model.GeoPoint{Lat: loc.Lat, Lng: loc.Lng}
	}
	return p
}

// Send re-checks every line against current stock, posts the order
// message, and decrements stock only after the provider acknowledges
// the send. Any shortfall rejects the order without sending; network
// and API failures are returned without retry.
func (d *Dispatcher) Send(ctx context.Context, o model.Order) SendResult {
	msg := FormatMessage(o)
	for _, it := range o.Items {
		if !d.cat.InStock(it.ID, it.Quantity) {
			err := fmt.Sprintf("Insufficient stock for %s. Only %d available.",
				it.Name.In(model.LangEN), d.cat.GetStock(it.ID))
			obs.Logger.Warn("order_rejected", "order_id", o.ID, "product_id", it.ID, "reason", err)
			return SendResult{Success: false, State: StateRejected, Error: err, Message: msg}
		}
	}
	if err := d.client.SendMessage(ctx, msg); err != nil {
		obs.Logger.Error("order_send_failed", "order_id", o.ID, "error", err)
		return SendResult{Success: false, State: StateFailed, Error: err.Error(), Message: msg}
	}
	for _, it := range o.Items {
		if !d.cat.AdjustStock(it.ID, it.Quantity) {
			// Stock changed between the check and the confirmed send;
			// the order is already out, so log and carry on.
			obs.Logger.Warn("stock_decrement_failed", "order_id", o.ID, "product_id", it.ID)
		}
	}
	obs.Logger.Info("order_sent", "order_id", o.ID, "items", len(o.Items), "total", o.Total)
	return SendResult{Success: true, State: StateSent, Message: msg}
}
