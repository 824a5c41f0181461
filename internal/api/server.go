package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"exam_portal/config"
	"exam_portal/infra/queue"
	"exam_portal/internal/api/rest/handlers"
	"exam_portal/internal/clients/docscan"
	"exam_portal/internal/domain"
	"exam_portal/internal/helper"
	"exam_portal/internal/interfaces"
	"exam_portal/internal/logger"
	"exam_portal/internal/repository"
	"exam_portal/internal/services"
	"exam_portal/pkg/cloudinary"
)

func StartServer(cfg config.Config) {
	log := logger.Get()

	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection error")
	}
	log.Info().Msg("database connected")

	// ---------- MIGRATION (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260401

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatal().Err(err).Msg("migration lock error")
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Student{},
		&domain.ExamOfficer{},
		&domain.Lecturer{},
		&domain.UnitAssignment{},
		&domain.ExamApplication{},
		&domain.OCRResult{},
		&domain.ApplicationReview{},
		&domain.ExamMarking{},
		&domain.Notification{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration error")
	}
	log.Info().Msg("migration successful")

	// ---------- Infra ----------
	var producer interfaces.ProducerHandler
	if cfg.KafkaBroker != "" {
		producer = queue.NewProducer(
			cfg.KafkaBroker,
			cfg.KafkaTopic,
			cfg.KafkaUsername,
			cfg.KafkaPassword,
		)
	} else {
		log.Warn().Msg("kafka broker not configured, events disabled")
	}

	cld, err := cloudinary.New(cfg.CloudinaryURL)
	if err != nil {
		log.Fatal().Err(err).Msg("cloudinary init error")
	}
	up := cloudinary.NewCloudinaryUploader(cld)

	var scanner interfaces.DocumentScanner
	if cfg.OCRServiceURL != "" {
		scanner = docscan.New(cfg.OCRServiceURL, cfg.OCRApiKey)
	} else {
		log.Warn().Msg("ocr service not configured, document scans disabled")
	}

	authHelper := helper.SetupAuth(cfg.AccessSecret)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	officerRepo := repository.NewOfficerRepository(db)
	lecturerRepo := repository.NewLecturerRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// ---------- Services ----------
	notificationSvc := services.NewNotificationService(notificationRepo, studentRepo)

	accountSvc := services.NewAccountService(
		userRepo,
		studentRepo,
		officerRepo,
		lecturerRepo,
		assignmentRepo,
		appRepo,
		authHelper,
		notificationSvc,
		producer,
	)

	applicationSvc := services.NewApplicationService(
		appRepo,
		studentRepo,
		officerRepo,
		lecturerRepo,
		assignmentRepo,
		notificationSvc,
		up,
		scanner,
		producer,
	)

	if err := accountSvc.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("admin seed error")
	}

	// ---------- Handlers ----------
	apiGroup := app.Group("/api")
	handlers.NewAuthHandler(accountSvc, authHelper).SetupRoutes(apiGroup)
	handlers.NewApplicationHandler(applicationSvc, authHelper).SetupRoutes(apiGroup)
	handlers.NewNotificationHandler(notificationSvc, authHelper).SetupRoutes(apiGroup)
	handlers.NewAdminHandler(accountSvc, applicationSvc, authHelper).SetupRoutes(apiGroup)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	log.Info().Str("addr", cfg.ServerAddr).Msg("listening")
	log.Fatal().Err(app.Listen(cfg.ServerAddr)).Msg("server stopped")
}
