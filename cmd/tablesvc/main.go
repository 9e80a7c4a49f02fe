package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	log "github.com/sirupsen/logrus"

	config "github.com/casillasalejandro22/mtg-table/configs"
	"github.com/casillasalejandro22/mtg-table/internal/cardmeta"
	mongodb "github.com/casillasalejandro22/mtg-table/internal/db"
	nats "github.com/casillasalejandro22/mtg-table/internal/nats"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/broker"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/db"
	handlers "github.com/casillasalejandro22/mtg-table/internal/tablesvc/handlers"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/service"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/store"
)

const SERVICE_NAME = "table"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	// pg connection
	dbpool, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	// mongo holds the card metadata cache
	mdb, cancelMongo, err := mongodb.ConnectToDB()
	if err != nil {
		log.Fatalf("Failed to connect to mongo: %v", err)
	}
	defer cancelMongo()
	mongodb.CreateCardKeyIndex(mdb, cardmeta.CollectionName)
	log.Printf("mongo connection established successfully")

	roomStore := store.NewRoomStore(dbpool)
	roomPlayerStore := store.NewRoomPlayerStore(dbpool)
	deckStore := store.NewDeckStore(dbpool)
	matchStore := store.NewMatchStore(dbpool)
	matchPlayerStore := store.NewMatchPlayerStore(dbpool)
	matchCardStore := store.NewMatchCardStore(dbpool)

	roomService := service.NewRoomService(roomStore, roomPlayerStore)
	deckService := service.NewDeckService(deckStore)
	materializeService := service.NewMaterializeService(deckStore, matchCardStore, matchPlayerStore)
	lobbyService := service.NewLobbyService(roomStore, roomPlayerStore, deckStore,
		matchStore, matchPlayerStore, materializeService)
	matchService := service.NewMatchService(matchStore, matchPlayerStore, matchCardStore)
	zoneService := service.NewZoneService(matchStore, matchPlayerStore, matchCardStore)
	cardService := cardmeta.NewService(mdb)

	// Connect to NATS
	n, err := nats.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}

	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	b := broker.NewBroker(n.Conn, roomService, matchService, zoneService)

	// subscribe to socket service commands
	sub, err := b.SubscribeSocketService()
	if err != nil {
		log.Errorf("Error: unable to subscribe to queue %v", err)
		os.Exit(0)
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(roomService, lobbyService, deckService,
		zoneService, matchService, cardService, b)
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("TABLE_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	sub.Unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
