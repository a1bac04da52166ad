// Package main boots the fast-food storefront HTTP service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oqtepa/fastfood-storefront/internal/auth"
	"github.com/oqtepa/fastfood-storefront/internal/cart"
	"github.com/oqtepa/fastfood-storefront/internal/catalog"
	"github.com/oqtepa/fastfood-storefront/internal/config"
	httpapi "github.com/oqtepa/fastfood-storefront/internal/http"
	"github.com/oqtepa/fastfood-storefront/internal/kvstore"
	"github.com/oqtepa/fastfood-storefront/internal/notify"
	"github.com/oqtepa/fastfood-storefront/internal/obs"
	"github.com/oqtepa/fastfood-storefront/internal/order"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	kv := kvstore.New(cfg.DataDir)
	bc := catalog.NewBroadcaster(cfg.SubscriberBuffer, cfg.PropagationRepeat)
	cat := catalog.New(kv, bc)
	crt := cart.New(kv, cat)
	au := auth.New(kv, cfg.AdminUsername, cfg.AdminPassword,
		cfg.LoginMaxAttempts, cfg.LoginBlockWindow, cfg.SessionDuration)
	client := notify.NewClient(cfg.TelegramBaseURL, cfg.TelegramBotToken, cfg.TelegramChatID)
	disp := order.NewDispatcher(cat, client)

	app := httpapi.NewApp(cfg, cat, crt, kv, au, disp, bc)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr,
			"storage_online", kv.Available(), "telegram_configured", client.Configured())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	bc.Close()
	obs.Logger.Info("service_stopped")
}
