package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/controller"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/worker"
	"learnhub_backend/pkg/database"
	"learnhub_backend/pkg/logger"
	"learnhub_backend/pkg/monitoring"
	"learnhub_backend/pkg/queue"
	"learnhub_backend/pkg/security"
	"learnhub_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Queue  *queue.Client

	services       *services
	queueServer    *asynq.Server
	tracerProvider *sdktrace.TracerProvider
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	section    *repository.SectionRepository
	lecture    *repository.LectureRepository
	enrollment *repository.EnrollmentRepository
	purchase   *repository.PurchaseRepository
	progress   *repository.ProgressRepository
	review     *repository.ReviewRepository
	note       *repository.NoteRepository
}

type services struct {
	storage    *service.StorageService
	auth       *service.AuthService
	content    *service.ContentService
	progress   *service.ProgressService
	enrollment *service.EnrollmentService
	checkout   *service.CheckoutService
	user       *service.UserService
	review     *service.ReviewService
	note       *service.NoteService
}

type controllers struct {
	auth     *controller.AuthController
	course   *controller.CourseController
	progress *controller.ProgressController
	checkout *controller.CheckoutController
	user     *controller.UserController
	review   *controller.ReviewController
	note     *controller.NoteController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		section:    repository.NewSectionRepository(db),
		lecture:    repository.NewLectureRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		purchase:   repository.NewPurchaseRepository(db),
		progress:   repository.NewProgressRepository(db),
		review:     repository.NewReviewRepository(db),
		note:       repository.NewNoteRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.content = service.NewContentService(
		repos.course, repos.section, repos.lecture,
		repos.enrollment, repos.progress, repos.review,
		s.storage, a.Queue, cfg, rdb, db,
	)
	s.progress = service.NewProgressService(repos.progress, repos.lecture, repos.enrollment, db)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, repos.progress, repos.lecture, db)
	s.checkout = service.NewCheckoutService(
		repos.purchase, repos.course, repos.enrollment, repos.progress,
		service.NewStripeProvider(&cfg.Stripe), cfg, db,
	)
	s.user = service.NewUserService(repos.user, repos.course, repos.enrollment, s.storage, a.Queue)
	s.review = service.NewReviewService(repos.review, repos.enrollment, repos.progress, db)
	s.note = service.NewNoteService(repos.note, repos.lecture, repos.enrollment)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		course:   controller.NewCourseController(s.content),
		progress: controller.NewProgressController(s.progress),
		checkout: controller.NewCheckoutController(s.checkout),
		user:     controller.NewUserController(s.user, s.enrollment),
		review:   controller.NewReviewController(s.review),
		note:     controller.NewNoteController(s.note),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startQueueWorker runs the media cleanup worker inside this process. With
// the queue disabled, tasks still enqueue and wait for an external worker.
func (a *App) startQueueWorker(s *services) {
	if !a.Config.Queue.Enabled {
		return
	}

	a.queueServer = queue.NewServer(&a.Config.Redis, a.Config.Queue.Concurrency, func(err error) {
		monitoring.MediaCleanupFailures.Inc()
	})

	mux := asynq.NewServeMux()
	worker.NewMediaWorker(s.storage).Register(mux)

	if err := a.queueServer.Start(mux); err != nil {
		logger.Log.Fatal("Failed to start queue worker", zap.Error(err))
	}
	logger.Log.Info("Queue worker started", zap.Int("concurrency", a.Config.Queue.Concurrency))
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Queue:  queue.NewClient(&cfg.Redis),
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("learnhub-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startQueueWorker(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.queueServer != nil {
		a.queueServer.Shutdown()
	}
	if a.Queue != nil {
		if err := a.Queue.Close(); err != nil {
			logger.Log.Error("Failed to close queue client", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
