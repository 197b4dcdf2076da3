package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledgercore/internal/config"
	"ledgercore/internal/repository"
	"ledgercore/internal/router"
	"ledgercore/internal/service"
	"ledgercore/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger — dev: pretty, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	// The whole application state lives in these four aggregates, owned here
	// and passed by handle — no ambient singletons.
	newID := uuid.New
	now := time.Now
	docRepo := repository.NewDocumentRepository(newID, now)
	bankRepo := repository.NewBankRepository(newID, now)
	cashRepo := repository.NewCashRepository(newID, now)
	stockRepo := repository.NewStockRepository(newID, now)
	saleRepo := repository.NewSaleRepository(newID, now)

	// ── Services ─────────────────────────────────────────────────────────────
	docSvc := service.NewDocumentService(docRepo)
	bankSvc := service.NewBankService(bankRepo, cfg)
	cashSvc := service.NewCashService(cashRepo, cfg)
	stockSvc := service.NewStockService(stockRepo)
	paymentSvc := service.NewPaymentService(docRepo, bankSvc, cashSvc)
	generator := service.NewInvoiceGenerator(docRepo)

	// Worker pool for fire-and-forget invoice generation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher := worker.NewDispatcher(cfg.WorkerPoolSize * 16)
	handlers := &worker.Handlers{
		Invoice: worker.NewInvoiceWorker(saleRepo, generator),
	}
	worker.StartPool(ctx, dispatcher, handlers, cfg.WorkerPoolSize)

	saleSvc := service.NewSaleService(saleRepo, stockRepo, cashRepo, dispatcher)

	r := router.New(cfg, router.Services{
		Documents: docSvc,
		Bank:      bankSvc,
		Cash:      cashSvc,
		Stock:     stockSvc,
		Payments:  paymentSvc,
		Sales:     saleSvc,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("ledgercore listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
