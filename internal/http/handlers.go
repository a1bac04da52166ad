package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oqtepa/fastfood-storefront/internal/auth"
	"github.com/oqtepa/fastfood-storefront/internal/cart"
	"github.com/oqtepa/fastfood-storefront/internal/catalog"
	"github.com/oqtepa/fastfood-storefront/internal/config"
	"github.com/oqtepa/fastfood-storefront/internal/kvstore"
	"github.com/oqtepa/fastfood-storefront/internal/model"
	"github.com/oqtepa/fastfood-storefront/internal/order"
)

// App bundles the storefront services behind the HTTP handlers.
type App struct {
	Cfg         config.Config
	Catalog     *catalog.Store
	Cart        *cart.Cart
	KV          *kvstore.Store
	Auth        *auth.Service
	Dispatcher  *order.Dispatcher
	Broadcaster *catalog.Broadcaster

	started      time.Time
	ordersSent   atomic.Uint64
	ordersFailed atomic.Uint64
}

func NewApp(cfg config.Config, cat *catalog.Store, crt *cart.Cart, kv *kvstore.Store,
	au *auth.Service, disp *order.Dispatcher, bc *catalog.Broadcaster) *App {
	return &App{
		Cfg:         cfg,
		Catalog:     cat,
		Cart:        crt,
		KV:          kv,
		Auth:        au,
		Dispatcher:  disp,
		Broadcaster: bc,
		started:     time.Now(),
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

// --- catalog ---

func (a *App) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	products := a.Catalog.List()
	if cat := r.URL.Query().Get("category"); cat != "" {
		filtered := products[:0]
		for _, p := range products {
			if p.Category == cat {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	WriteJSON(w, http.StatusOK, products)
}

func (a *App) getProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := a.Catalog.Get(id)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

func (a *App) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, catalog.Categories())
}

// --- cart ---

type cartView struct {
	Items []model.CartItem `json:"items"`
	Total int64            `json:"total"`
}

func (a *App) cartViewNow() cartView {
	return cartView{Items: a.Cart.Items(), Total: a.Cart.Total()}
}

func (a *App) getCartHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, a.cartViewNow())
}

func (a *App) writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrUnknownProduct):
		WriteJSONError(w, http.StatusNotFound, "unknown_product", "")
	case errors.Is(err, cart.ErrInsufficientStock):
		WriteJSONError(w, http.StatusConflict, "insufficient_stock", "")
	default:
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	}
}

func (a *App) postCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID     string `json:"product_id"`
		Quantity      int64  `json:"quantity"`
		Customization string `json:"customization"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := a.Cart.Add(req.ProductID, req.Quantity, req.Customization); err != nil {
		a.writeCartError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, a.cartViewNow())
}

func (a *App) putCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int64 `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.Cart.SetQuantity(chi.URLParam(r, "id"), req.Quantity); err != nil {
		a.writeCartError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, a.cartViewNow())
}

func (a *App) deleteCartItemHandler(w http.ResponseWriter, r *http.Request) {
	if !a.Cart.Remove(chi.URLParam(r, "id")) {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	WriteJSON(w, http.StatusOK, a.cartViewNow())
}

func (a *App) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	a.Cart.Clear()
	WriteJSON(w, http.StatusOK, a.cartViewNow())
}

// --- profile & settings ---

var phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,}$`)

func validDetails(d model.CustomerDetails) string {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return "name is required"
	case strings.TrimSpace(d.Address) == "":
		return "address is required"
	case !phoneRe.MatchString(d.Phone):
		return "phone number is malformed"
	}
	return ""
}

func (a *App) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	d := a.KV.UserDetails()
	if d == nil {
		WriteJSONError(w, http.StatusNotFound, "not_found", "no customer details stored")
		return
	}
	WriteJSON(w, http.StatusOK, d)
}

func (a *App) putProfileHandler(w http.ResponseWriter, r *http.Request) {
	var d model.CustomerDetails
	if !decodeJSON(w, r, &d) {
		return
	}
	if msg := validDetails(d); msg != "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", msg)
		return
	}
	a.KV.SetUserDetails(d)
	WriteJSON(w, http.StatusOK, d)
}

func (a *App) getThemeHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"theme": a.KV.Theme()})
}

func (a *App) putThemeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !kvstore.KnownTheme(req.Theme) {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "unknown theme")
		return
	}
	a.KV.SetTheme(req.Theme)
	WriteJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}

func (a *App) getLanguageHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"language": a.KV.Language()})
}

func (a *App) putLanguageHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !model.KnownLanguage(req.Language) {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "unknown language")
		return
	}
	a.KV.SetLanguage(req.Language)
	WriteJSON(w, http.StatusOK, map[string]string{"language": req.Language})
}

// --- orders ---

type orderRequest struct {
	Customer *model.CustomerDetails `json:"customer,omitempty"`
	Language string                 `json:"language,omitempty"`
}

// assembleOrder resolves cart items, customer details, and language
// for a checkout request. Details supplied in the body win over the
// stored profile and are persisted for reuse.
func (a *App) assembleOrder(w http.ResponseWriter, r *http.Request) ([]model.CartItem, model.CustomerDetails, string, bool) {
	var req orderRequest
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return nil, model.CustomerDetails{}, "", false
		}
	}
	items := a.Cart.Items()
	if len(items) == 0 {
		WriteJSONError(w, http.StatusUnprocessableEntity, "empty_cart", "")
		return nil, model.CustomerDetails{}, "", false
	}
	details := req.Customer
	if details == nil {
		details = a.KV.UserDetails()
	}
	if details == nil {
		WriteJSONError(w, http.StatusUnprocessableEntity, "missing_customer_details", "")
		return nil, model.CustomerDetails{}, "", false
	}
	if msg := validDetails(*details); msg != "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", msg)
		return nil, model.CustomerDetails{}, "", false
	}
	if req.Customer != nil {
		a.KV.SetUserDetails(*req.Customer)
	}
	lang := req.Language
	if lang == "" {
		lang = a.KV.Language()
	}
	return items, *details, lang, true
}

func (a *App) prepareOrderHandler(w http.ResponseWriter, r *http.Request) {
	items, details, lang, ok := a.assembleOrder(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, a.Dispatcher.Prepare(items, details, lang))
}

func (a *App) sendOrderHandler(w http.ResponseWriter, r *http.Request) {
	items, details, lang, ok := a.assembleOrder(w, r)
	if !ok {
		return
	}
	prep := a.Dispatcher.Prepare(items, details, lang)
	res := a.Dispatcher.Send(r.Context(), prep.Order)
	switch res.State {
	case order.StateSent:
		a.ordersSent.Add(1)
		a.Cart.Clear()
		WriteJSON(w, http.StatusOK, res)
	case order.StateRejected:
		a.ordersFailed.Add(1)
		WriteJSON(w, http.StatusConflict, res)
	default:
		a.ordersFailed.Add(1)
		WriteJSON(w, http.StatusBadGateway, res)
	}
}

// --- admin ---

func (a *App) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !a.Auth.Validate(token) {
			WriteJSONError(w, http.StatusUnauthorized, "unauthorized", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *App) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res := a.Auth.Login(ClientSource(r), req.Username, req.Password)
	switch {
	case res.Blocked:
		WriteJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":          "blocked",
			"retry_after_ms": res.RetryAfter.Milliseconds(),
		})
	case res.OK:
		WriteJSON(w, http.StatusOK, map[string]any{
			"token":      res.Token,
			"expires_at": res.ExpiresAt.UTC().Format(time.RFC3339),
		})
	default:
		WriteJSONError(w, http.StatusUnauthorized, "invalid_credentials", "")
	}
}

func (a *App) logoutHandler(w http.ResponseWriter, r *http.Request) {
	a.Auth.Logout()
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) addProductHandler(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	if !decodeJSON(w, r, &p) {
		return
	}
	if !a.Catalog.Add(p) {
		WriteJSONError(w, http.StatusBadRequest, "add_failed", "invalid record or duplicate id")
		return
	}
	WriteJSON(w, http.StatusCreated, p)
}

func (a *App) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	if !decodeJSON(w, r, &p) {
		return
	}
	id := chi.URLParam(r, "id")
	if !a.Catalog.Update(id, p) {
		if _, exists := a.Catalog.Get(id); !exists {
			WriteJSONError(w, http.StatusNotFound, "not_found", "")
			return
		}
		WriteJSONError(w, http.StatusBadRequest, "update_failed", "invalid record")
		return
	}
	p.ID = id
	WriteJSON(w, http.StatusOK, p)
}

func (a *App) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if !a.Catalog.Remove(chi.URLParam(r, "id")) {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *App) adjustStockHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int64 `json:"delta"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if !a.Catalog.AdjustStock(id, req.Delta) {
		if _, exists := a.Catalog.Get(id); !exists {
			WriteJSONError(w, http.StatusNotFound, "not_found", "")
			return
		}
		WriteJSONError(w, http.StatusConflict, "insufficient_stock", "stock cannot go negative")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"product_id": id, "stock": a.Catalog.GetStock(id)})
}

// --- ops ---

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"products":       len(a.Catalog.List()),
		"cart_items":     len(a.Cart.Items()),
		"orders_sent":    a.ordersSent.Load(),
		"orders_failed":  a.ordersFailed.Load(),
		"subscribers":    a.Broadcaster.SubscriberCount(),
		"storage_online": a.KV.Available(),
		"uptime_sec":     time.Since(a.started).Seconds(),
	})
}
