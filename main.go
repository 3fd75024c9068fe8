package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"blogsite/internal/cache"
	"blogsite/internal/config"
	"blogsite/internal/handlers"
	"blogsite/internal/middleware"
	"blogsite/internal/repositories"
	"blogsite/internal/services"
	"blogsite/pkg/logger"
	"blogsite/pkg/rabbitmq"
)

// eventLogQueue receives a copy of every event for the log consumer.
const eventLogQueue = "blog_events.log"

// Deps are the backing services the app is built on. A nil Publisher
// disables events and a nil Cache disables feed caching.
type Deps struct {
	Store     *repositories.Store
	Auth      services.TokenVerifier
	Publisher services.Publisher
	Cache     services.FeedCache
	Log       zerolog.Logger
}

// NewApp wires services, handlers and middleware into a Fiber app.
func NewApp(cfg *config.Config, deps Deps) *fiber.App {
	log := deps.Log
	events := services.NewEvents(deps.Publisher, cfg.RabbitMQ.Exchange, log)

	userService := services.NewUserService(deps.Store.Users, log)
	blogService := services.NewBlogService(deps.Store.Blogs, events, deps.Cache, cfg.Cache.TTL, log)
	commentService := services.NewCommentService(deps.Store.Comments, deps.Store.Blogs, events, deps.Cache, cfg.Cache.TTL, log)
	wishlistService := services.NewWishlistService(deps.Store.Wishlist, deps.Store.Blogs, events, log)

	app := fiber.New(fiber.Config{AppName: logger.Service})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(middleware.RequestLogger(log))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Server is running smoothly")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	guards := handlers.Guards{
		Required: middleware.AuthRequired(deps.Auth, log),
		Optional: middleware.AuthOptional(deps.Auth, log),
	}

	api := app.Group(cfg.Server.BasePath)
	handlers.NewUserHandler(userService, log).RegisterRoutes(api, guards)
	handlers.NewBlogHandler(blogService, log).RegisterRoutes(api, guards)
	handlers.NewCommentHandler(commentService, log).RegisterRoutes(api, guards)
	handlers.NewWishlistHandler(wishlistService, log).RegisterRoutes(api, guards)

	return app
}

func main() {
	v := viper.New()
	v.AutomaticEnv()

	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Development())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open store")
	}
	defer closeStore()

	deps := Deps{
		Store: store,
		Auth:  newVerifier(cfg),
		Log:   log,
	}

	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize RabbitMQ client")
		}
		defer mq.Close()
		deps.Publisher = mq

		if err := mq.Consume(cfg.RabbitMQ.Exchange, eventLogQueue, "#", rabbitmq.LogEvents(log)); err != nil {
			log.Error().Err(err).Msg("Failed to start event consumer")
		}
	} else {
		log.Info().Msg("RABBITMQ_URL not set, events are disabled")
	}

	if cfg.Cache.RedisAddr != "" {
		redis, err := cache.NewRedis(ctx, cfg.Cache.RedisAddr, logger.Service)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redis.Close()
		deps.Cache = redis
	}

	app := NewApp(cfg, deps)

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("base_path", cfg.Server.BasePath).Msg("Starting server")
		if err := app.Listen(cfg.Server.Port); err != nil {
			log.Error().Err(err).Msg("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("Error during Fiber shutdown")
	}
	log.Info().Msg("Server gracefully stopped")
}

// openStore connects the configured document store. The returned func
// releases its connections.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := repositories.ConnectMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Store.MongoDatabase).Msg("Connected to MongoDB")
		return repositories.NewMongoStore(db), func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("Error disconnecting MongoDB")
			}
		}, nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := repositories.OpenGORM(cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Msg("Connected to database")
		return repositories.NewGORMStore(db), func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil

	default:
		log.Warn().Msg("Using the in-memory store, data is lost on restart")
		return repositories.NewMockStore(), func() {}, nil
	}
}

func newVerifier(cfg *config.Config) services.TokenVerifier {
	if cfg.Auth.Mode == config.AuthLocal {
		return services.NewLocalAuthService(cfg.Auth.JWTSecret)
	}
	return services.NewFirebaseAuthService(cfg.Auth.FirebaseProjectID, cfg.Auth.FirebaseCertsURL, nil)
}
