package httpapi

import (
	"expvar"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpopenapi "github.com/oqtepa/fastfood-storefront/internal/http/openapi"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Get("/products", app.listProductsHandler)
	r.Get("/products/{id}", app.getProductHandler)
	r.Get("/categories", app.listCategoriesHandler)

	r.Get("/cart", app.getCartHandler)
	r.Post("/cart/items", app.postCartItemHandler)
	r.Put("/cart/items/{id}", app.putCartItemHandler)
	r.Delete("/cart/items/{id}", app.deleteCartItemHandler)
	r.Delete("/cart", app.clearCartHandler)

	r.Get("/profile", app.getProfileHandler)
	r.Put("/profile", app.putProfileHandler)
	r.Get("/settings/theme", app.getThemeHandler)
	r.Put("/settings/theme", app.putThemeHandler)
	r.Get("/settings/language", app.getLanguageHandler)
	r.Put("/settings/language", app.putLanguageHandler)

	r.Post("/orders/prepare", app.prepareOrderHandler)
	r.Post("/orders/send", app.sendOrderHandler)
	r.Get("/events", app.eventsHandler)

	r.Post("/admin/login", app.loginHandler)
	r.Post("/admin/logout", app.logoutHandler)
	r.Group(func(r chi.Router) {
		r.Use(app.adminOnly)
		r.Post("/admin/products", app.addProductHandler)
		r.Put("/admin/products/{id}", app.updateProductHandler)
		r.Delete("/admin/products/{id}", app.deleteProductHandler)
		r.Post("/admin/products/{id}/stock", app.adjustStockHandler)
	})

	r.Get("/healthz", app.healthHandler)
	r.Get("/debug/metrics", app.metricsHandler)
	r.Handle("/debug/vars", expvar.Handler())
	r.Get("/openapi.yaml", app.openapiHandler)
	r.Get("/docs", app.docsHandler)

	return WithRequestID(WithLogging(r))
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
