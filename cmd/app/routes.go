package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"currencyconverter/internal/api"
	"currencyconverter/internal/api/middleware"
	"currencyconverter/internal/service"
)

func (app *App) initHTTP(rateService service.RateServiceInterface) {
	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLoggingMiddleware(app.logger))
	r.Use(chimiddleware.Recoverer)

	var enqueuer api.RefreshEnqueuer
	if app.enqueuer != nil {
		enqueuer = app.enqueuer
	}

	r.Get("/rates/{base}", api.HandleGetRates(rateService))
	r.Post("/rates/{base}/refresh", api.HandleRefreshRates(rateService))
	r.Post("/rates/{base}/warm", api.HandleWarmRates(enqueuer))
	r.Get("/convert", api.HandleConvert(rateService, api.ConvertDefaults{
		Base: app.cfg.Converter.Base,
		From: app.cfg.Converter.From,
		To:   app.cfg.Converter.To,
	}))
	r.Get("/currencies", api.HandleListCurrencies())
	r.Get("/status", api.HandleStatus(app.tracker))
	r.Get("/healthz", api.HandleHealthz())
	r.Get("/readyz", api.HandleReadyz(app.readyChecks...))

	if app.cfg.Server.ServeMetrics {
		r.Handle("/metrics", app.collector.Handler())
	}

	if app.cfg.Server.ServeSwagger {
		r.Get("/swagger/*", api.SwaggerUIHandler())
		r.Get("/openapi.json", api.OpenAPISpecHandler())
	}

	if app.asynqmon != nil {
		r.Handle(app.asynqmon.RootPath()+"/*", app.asynqmon)
	}

	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
