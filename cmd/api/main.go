package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/quickbite/ordering/internal/auth"
	"github.com/quickbite/ordering/internal/checkout"
	"github.com/quickbite/ordering/internal/config"
	"github.com/quickbite/ordering/internal/httpx"
	kafkax "github.com/quickbite/ordering/internal/kafka"
	"github.com/quickbite/ordering/internal/logging"
	"github.com/quickbite/ordering/internal/menu"
	"github.com/quickbite/ordering/internal/orders"
	"github.com/quickbite/ordering/internal/postgres"
	"github.com/quickbite/ordering/internal/redisx"
	"github.com/quickbite/ordering/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.ServiceName)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024, log)
	prod.Start(ctx)

	tokens := auth.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL}
	authmw := httpx.Auth{Tokens: tokens}

	userRepo := &users.Repo{DB: db}
	menuRepo := &menu.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	checkoutSvc := &checkout.Service{Store: &checkout.PGStore{DB: db}}

	router := httpx.NewRouter()
	(&httpx.AuthHandler{Users: userRepo, Tokens: tokens, Log: log}).Register(router)
	(&httpx.MenuHandler{Repo: menuRepo, Redis: rdb, Auth: authmw, Log: log}).Register(router)
	(&httpx.CartHandler{Menu: menuRepo, Auth: authmw, Log: log}).Register(router)
	(&httpx.CheckoutHandler{
		Service:  checkoutSvc,
		Producer: prod,
		Redis:    rdb,
		Auth:     authmw,
		Log:      log,
		Name:     cfg.ServiceName,
	}).Register(router)
	(&httpx.OrdersHandler{Repo: orderRepo, Redis: rdb, Auth: authmw, Log: log}).Register(router)
	(&httpx.AdminHandler{Users: userRepo, Menu: menuRepo, Orders: orderRepo, Auth: authmw, Log: log}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // close inbox -> flush & close writer
	cancel()
	prod.WaitClosed()
}
