package container

import (
	"context"
	"fmt"

	"studyhall-backend/internal/config"
	infracache "studyhall-backend/internal/infrastructure/cache"
	"studyhall-backend/internal/infrastructure/database"
	"studyhall-backend/internal/infrastructure/storage"
	"studyhall-backend/pkg/cache"
	"studyhall-backend/pkg/jwt"
	"studyhall-backend/pkg/logger"

	auditHandler "studyhall-backend/internal/domains/audit/handler"
	auditRepo "studyhall-backend/internal/domains/audit/repository"
	auditService "studyhall-backend/internal/domains/audit/service"
	directorHandler "studyhall-backend/internal/domains/director/handler"
	directorRepo "studyhall-backend/internal/domains/director/repository"
	directorService "studyhall-backend/internal/domains/director/service"
	notificationHandler "studyhall-backend/internal/domains/notification/handler"
	notificationRepo "studyhall-backend/internal/domains/notification/repository"
	notificationService "studyhall-backend/internal/domains/notification/service"
	paymentHandler "studyhall-backend/internal/domains/payment/handler"
	paymentRepo "studyhall-backend/internal/domains/payment/repository"
	paymentService "studyhall-backend/internal/domains/payment/service"
	pricingHandler "studyhall-backend/internal/domains/pricing/handler"
	pricingRepo "studyhall-backend/internal/domains/pricing/repository"
	pricingService "studyhall-backend/internal/domains/pricing/service"
	seatHandler "studyhall-backend/internal/domains/seat/handler"
	seatRepo "studyhall-backend/internal/domains/seat/repository"
	seatService "studyhall-backend/internal/domains/seat/service"
	studentHandler "studyhall-backend/internal/domains/student/handler"
	studentRepo "studyhall-backend/internal/domains/student/repository"
	studentService "studyhall-backend/internal/domains/student/service"
)

// Container is the root of the dependency graph. Build order is config,
// infrastructure, repositories, services, handlers; the sinks (audit,
// notification) are built before the domains that emit into them.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Storage    storage.Uploader
	Images     *storage.ImageProcessor
	JWTManager *jwt.Manager

	PricingRepo      pricingRepo.Repository
	SeatRepo         seatRepo.Repository
	StudentRepo      studentRepo.Repository
	PaymentRepo      paymentRepo.Repository
	AuditRepo        auditRepo.Repository
	NotificationRepo notificationRepo.Repository
	DirectorRepo     directorRepo.Repository

	AuditService        auditService.Service
	NotificationService notificationService.Service
	PricingService      pricingService.Service
	SeatService         seatService.Service
	StudentService      studentService.Service
	PaymentService      paymentService.Service
	DirectorService     directorService.Service

	PricingHandler      *pricingHandler.Handler
	SeatHandler         *seatHandler.Handler
	StudentHandler      *studentHandler.Handler
	PaymentHandler      *paymentHandler.Handler
	AuditHandler        *auditHandler.Handler
	NotificationHandler *notificationHandler.Handler
	DirectorHandler     *directorHandler.Handler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)

	c.DB = database.NewPostgresDB(cfg.Database)
	if err := c.DB.Connect(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	c.Cache = infracache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Cache.Ping(context.Background()); err != nil {
		// The app degrades to uncached reads; only log.
		logger.Warn("redis unavailable, continuing without cache", map[string]interface{}{"error": err.Error()})
	}

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	c.Storage = minioStorage
	c.Images = storage.NewImageProcessor()

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	pool := c.DB.Pool
	c.PricingRepo = pricingRepo.NewRepository(pool)
	c.SeatRepo = seatRepo.NewRepository(pool)
	c.StudentRepo = studentRepo.NewRepository(pool)
	c.PaymentRepo = paymentRepo.NewRepository(pool)
	c.AuditRepo = auditRepo.NewRepository(pool)
	c.NotificationRepo = notificationRepo.NewRepository(pool)
	c.DirectorRepo = directorRepo.NewRepository(pool)

	// Sinks first: everything else emits into them.
	c.AuditService = auditService.NewService(c.AuditRepo)
	c.NotificationService = notificationService.NewService(c.NotificationRepo, c.DirectorRepo)

	c.PricingService = pricingService.NewService(c.PricingRepo, c.Cache, c.AuditService)
	c.SeatService = seatService.NewService(c.SeatRepo, c.Cache)
	c.StudentService = studentService.NewService(c.StudentRepo, c.SeatRepo, c.PricingRepo, c.AuditService, c.NotificationService)
	c.PaymentService = paymentService.NewService(c.PaymentRepo, c.StudentRepo, c.AuditService, c.NotificationService)
	c.DirectorService = directorService.NewService(c.DirectorRepo, c.JWTManager, c.AuditService)

	c.PricingHandler = pricingHandler.NewHandler(c.PricingService)
	c.SeatHandler = seatHandler.NewHandler(c.SeatService)
	c.StudentHandler = studentHandler.NewHandler(c.StudentService, c.Storage, c.Images)
	c.PaymentHandler = paymentHandler.NewHandler(c.PaymentService, c.Storage, c.Images)
	c.AuditHandler = auditHandler.NewHandler(c.AuditService)
	c.NotificationHandler = notificationHandler.NewHandler(c.NotificationService)
	c.DirectorHandler = directorHandler.NewHandler(c.DirectorService)

	logger.Info("container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})
	return c, nil
}

// Cleanup releases infrastructure resources. Safe to call once on
// shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if closer, ok := c.Cache.(interface{ Close() error }); ok && closer != nil {
		if err := closer.Close(); err != nil {
			logger.Error("failed to close cache", err)
		}
	}
}
