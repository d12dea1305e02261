package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/api"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/cache"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/config"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/db"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/email"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/services"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/storage"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/store"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'all' (default)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Database
	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	if err := db.EnsureIndexes(context.Background(), mongoDb); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	// Initialize Cache (Redis)
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Printf("Error disconnecting from Redis: %v", err)
		}
	}()

	// Initialize Email Sender
	emailSender := email.NewSMTPSender(cfg)

	// Initialize S3 Storage
	s3StorageService, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3 storage: %v", err)
	}

	// Initialize Stores and Task Client
	userStore := store.NewMongoUserStore(mongoDb, cfg.StoreOpTimeout)
	residencyStore := store.NewMongoResidencyStore(mongoDb, cfg.StoreOpTimeout)
	taskClient := tasks.NewClient(redisClient)

	// Initialize Services
	residencyCache := cache.NewRedisResidencyCache(redisClient, cfg.GetCacheTTL)
	userService := services.NewUserService(userStore, residencyStore, tasks.NewAsynqBookingNotifier(taskClient))
	residencyService := services.NewResidencyService(residencyStore, userStore, residencyCache)
	bookingView := services.NewBookingViewService(userStore, residencyStore)
	reconciler := services.NewReconcilerService(userStore, residencyStore)

	// Initialize Task Processor
	taskProcessor := tasks.NewTaskProcessor(cfg, emailSender, s3StorageService, residencyService, reconciler, taskClient)

	// WaitGroup for managing goroutines
	var wg sync.WaitGroup

	var mainApiSrv *http.Server
	var taskSrv *asynq.Server

	fmt.Printf("Starting application in '%s' mode...\n", cfg.RunMode)

	apiMode := func() {
		fmt.Println("Starting main API server...")
		mainApiRouter := api.SetupRouter(cfg, api.Deps{
			UserService:      userService,
			ResidencyService: residencyService,
			BookingView:      bookingView,
			Storage:          s3StorageService,
			ImageQueue:       tasks.NewImageQueue(taskClient),
		})
		mainApiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: mainApiRouter,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Printf("Main API listening on :%s\n", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Main API ListenAndServe error: %v", err)
			}
			fmt.Println("Main API server stopped.")
		}()
	}

	bgMode := func() {
		fmt.Println("Starting background worker...")
		srv, mux := tasks.SetupServer(redisClient, taskProcessor)
		taskSrv = srv
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Println("Background task server starting...")
			if err := srv.Run(mux); err != nil {
				log.Fatalf("Background task server error: %v", err)
			}
			fmt.Println("Background task server stopped.")
		}()

		// Kick off the reference sweep chain. TaskIDConflict means a pending
		// sweep already exists from a previous run.
		_, err := taskClient.Enqueue(tasks.NewReferenceSweepTask(),
			asynq.TaskID("reference-sweep-seed"), asynq.Queue("low"))
		if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
			log.Printf("Failed to seed reference sweep task: %v", err)
		}
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		log.Fatalf("Invalid run mode specified in config: %s.", cfg.RunMode)
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	fmt.Printf("\nReceived signal: %s. Shutting down gracefully...\n", sig)

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if mainApiSrv != nil {
		fmt.Println("Shutting down Main API server...")
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Printf("Main API server shutdown error: %v", err)
		}
	}

	if taskSrv != nil {
		fmt.Println("Shutting down Background Task server...")
		taskSrv.Shutdown()
	}

	fmt.Println("Waiting for servers to stop...")
	wg.Wait()

	fmt.Println("Server gracefully stopped")
}
