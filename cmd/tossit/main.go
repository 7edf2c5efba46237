package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/tossit/internal/database"
	"github.com/dukerupert/tossit/internal/logging"
	"github.com/dukerupert/tossit/internal/server"
)

func main() {
	port := os.Getenv("TOSSIT_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("TOSSIT_DB_PATH")
	if dbPath == "" {
		dbPath = "tossit.db"
	}

	logger := logging.Setup(os.Getenv("TOSSIT_LOG_LEVEL"), os.Getenv("TOSSIT_LOG_FORMAT"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	cfg := server.Config{
		VAPIDPublicKey:  os.Getenv("TOSSIT_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("TOSSIT_VAPID_PRIVATE_KEY"),
		AutoEndShifts:   os.Getenv("TOSSIT_AUTO_END_SHIFTS") != "false",
	}

	srv := server.New(db, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.StartSchedulers(ctx)
	defer srv.StopSchedulers()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("TossIt running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
