package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/kassemabbassi/formBuilder/app"
	"github.com/kassemabbassi/formBuilder/config"
	"github.com/kassemabbassi/formBuilder/database"
	"github.com/kassemabbassi/formBuilder/httpx"
	"github.com/kassemabbassi/formBuilder/log"
	"github.com/kassemabbassi/formBuilder/realtime"
	"github.com/kassemabbassi/formBuilder/routes"
	"github.com/kassemabbassi/formBuilder/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	if !cfg.AuthEnabled() {
		log.Warn("main.config: no token secret configured, auth and session guard are DISABLED")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	app := app.App{
		Store:        store.New(db),
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
		Broker:       realtime.NewBroker(),
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
