package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/realestate-app/config"
	"github.com/yeremiapane/realestate-app/database"
	"github.com/yeremiapane/realestate-app/router"
	"github.com/yeremiapane/realestate-app/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	seed := flag.Bool("seed", false, "create the default admin and user accounts")
	flag.Parse()

	utils.InitLogger()
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLoggerWithOptions(cfg.Log)
	utils.SetIDNode(cfg.SnowflakeNode)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seed {
		n, err := database.SeedUsers(ctx, db, database.DefaultSeedUsers)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed users: %v", err)
		}
		utils.InfoLogger.Printf("Seeding done, %d user(s) created", n)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		utils.ErrorLogger.Fatalf("Failed to create upload dir: %v", err)
	}

	app := router.SetupRouter(db, cfg)
	app.Sweeper.Start()
	defer app.Sweeper.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	app.Hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Server forced to shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	utils.InfoLogger.Println("Server exited")
}
