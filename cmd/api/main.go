package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/netpointcafe/portal-backend/internal/config"
	"github.com/netpointcafe/portal-backend/internal/db"
	"github.com/netpointcafe/portal-backend/internal/model"
	"github.com/netpointcafe/portal-backend/internal/server"
)

// Set via -ldflags at build time.
var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	srv := server.New(nil, cfg, gitSHA, buildTime)

	addr := ":" + cfg.Port

	errCh := make(chan error, 1)

	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	// Connect asynchronously so the health check answers while the DB warms
	// up; repositories return ErrDBNotReady until injection happens.
	go func() {
		conn, err := db.Connect(cfg)
		if err != nil {
			log.Printf("db connect error: %v", err)
			return
		}
		if err := conn.AutoMigrate(
			&model.Profile{},
			&model.UserRole{},
			&model.CatalogService{},
			&model.Order{},
			&model.Payment{},
			&model.SavedDocument{},
			&model.Conversation{},
			&model.ChatMessage{},
		); err != nil {
			log.Printf("auto migrate error: %v", err)
		}
		srv.SetDB(conn)
		log.Printf("database connected")
	}()

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
