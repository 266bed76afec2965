package main // Entry point package

import (
	"context"
	"log" // Logging library

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/room-rental-management/internal/config"
	"github.com/iliyamo/room-rental-management/internal/database"
	"github.com/iliyamo/room-rental-management/internal/handler"
	"github.com/iliyamo/room-rental-management/internal/middleware"
	"github.com/iliyamo/room-rental-management/internal/queue"
	"github.com/iliyamo/room-rental-management/internal/repository"
	"github.com/iliyamo/room-rental-management/internal/router"
	"github.com/iliyamo/room-rental-management/internal/service"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; nil disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	// Background consumer appending room.created events to logs/rooms.log.
	go func() {
		if err := queue.StartRoomConsumer(cfg.RabbitURL); err != nil {
			log.Printf("room consumer stopped: %v", err)
		}
	}()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	buildingRepo := repository.NewBuildingRepo(db)
	addressRepo := repository.NewAddressRepo(db)
	contractRepo := repository.NewContractRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	roomService := service.NewRoomService(roomStore{roomRepo})

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	roomHandler := handler.NewRoomHandler(roomService, cfg.RabbitURL)
	buildingHandler := handler.NewBuildingHandler(buildingRepo)
	addressHandler := handler.NewAddressHandler(addressRepo)
	contractHandler := handler.NewContractHandler(contractRepo, roomRepo)
	paymentHandler := handler.NewPaymentHandler(paymentRepo, contractRepo)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterResources(e, router.RoomRouteDeps{
		Rooms:     roomHandler,
		Buildings: buildingHandler,
		Addresses: addressHandler,
		Contracts: contractHandler,
		Payments:  paymentHandler,
		JWTSecret: cfg.JWTSecret,
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// roomStore adapts the concrete repository to the service's store
// interface; Begin is re-declared because the repository returns its
// concrete transaction type.
type roomStore struct {
	*repository.RoomRepo
}

func (s roomStore) Begin(ctx context.Context) (service.RoomTx, error) {
	return s.RoomRepo.Begin(ctx)
}
