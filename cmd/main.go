package main

import (
	"fmt"
	"log"

	"onboard/internal/config"
	"onboard/internal/handlers"
	"onboard/internal/models"
	"onboard/internal/repository"
	"onboard/internal/services"
	"onboard/pkg/database"
	"onboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	// Подключаемся к базе данных
	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		appLogger.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	// Создаем корневого администратора по умолчанию
	if err := db.CreateDefaultAdmin(cfg.AdminLogin, cfg.AdminPassword); err != nil {
		appLogger.Error("failed to create default admin", "error", err)
	}

	// Создаем репозитории
	userRepo := repository.NewUserRepository(db.DB)
	tagRepo := repository.NewTagRepository(db.DB)
	scopeRepo := repository.NewScopeRepository(db.DB)
	examRepo := repository.NewExamRepository(db.DB)
	taskRepo := repository.NewTaskRepository(db.DB)
	courseRepo := repository.NewCourseRepository(db.DB)
	templateRepo := repository.NewTemplateRepository(db.DB)
	completionRepo := repository.NewCompletionRepository(db.DB)

	// Создаем сервисы
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiration)
	permService := services.NewPermissionService(db.DB, userRepo, scopeRepo, tagRepo)
	tagService := services.NewTagService(tagRepo, userRepo, scopeRepo, examRepo, taskRepo, courseRepo)
	userService := services.NewUserService(userRepo, tagRepo, scopeRepo)
	catalogService := services.NewCatalogService(db.DB, examRepo, taskRepo, courseRepo, completionRepo, permService)
	templateService := services.NewTemplateService(db.DB, userRepo, scopeRepo, templateRepo, examRepo, taskRepo, courseRepo)
	progressService := services.NewProgressService(userRepo, scopeRepo, templateRepo, examRepo, taskRepo, courseRepo, completionRepo)
	examService := services.NewExamService(db.DB, userRepo, scopeRepo, templateRepo, examRepo, courseRepo, completionRepo)

	// Создаем обработчики
	authHandler := handlers.NewAuthHandler(authService)
	tagHandler := handlers.NewTagHandler(tagService)
	scopeHandler := handlers.NewScopeHandler(permService)
	userHandler := handlers.NewUserHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	trainingHandler := handlers.NewTrainingHandler(progressService, examService)

	if cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handlers.RequestLogger(appLogger))
	router.Use(handlers.CORSMiddleware())

	api := router.Group("/api")

	// Публичные маршруты
	api.POST("/auth/login", authHandler.Login)

	// Защищенные маршруты (требуют авторизации)
	protected := api.Group("/")
	protected.Use(handlers.AuthMiddleware(authService))
	{
		protected.GET("/auth/me", authHandler.Me)

		// Справочники подразделений и городов
		protected.GET("/divisions", tagHandler.ListDivisions)
		protected.GET("/cities", tagHandler.ListCities)

		// Каталог обучения: чтение доступно всем авторизованным
		protected.GET("/exams", catalogHandler.ListExams)
		protected.GET("/exams/:id", catalogHandler.GetExam)
		protected.GET("/tasks", catalogHandler.ListTasks)
		protected.GET("/tasks/:id", catalogHandler.GetTask)
		protected.GET("/courses", catalogHandler.ListCourses)
		protected.GET("/courses/:id", catalogHandler.GetCourse)

		// Шаблоны и прогресс: права проверяются по зоне ответственности
		protected.PUT("/newbies/:id/template", templateHandler.Assign)
		protected.GET("/newbies/:id/template", templateHandler.Get)
		protected.GET("/newbies/:id/training", trainingHandler.View)
		protected.POST("/newbies/:id/exams/:exam_id/submit", trainingHandler.SubmitExam)
		protected.POST("/newbies/:id/tasks/:task_id/finish", trainingHandler.FinishTask)
		protected.POST("/newbies/:id/courses/:course_id/sections/:section_id/finish", trainingHandler.FinishSection)

		protected.GET("/newbies", userHandler.ListNewbies)
		protected.GET("/users/:id", userHandler.GetUser)
		protected.PUT("/newbies/:id/tutor", userHandler.AssignTutor)
	}

	// Маршруты только для корневого администратора
	admin := api.Group("/")
	admin.Use(handlers.AuthMiddleware(authService))
	admin.Use(handlers.RequireRoles(models.RoleRootAdmin))
	{
		admin.POST("/divisions", tagHandler.CreateDivision)
		admin.DELETE("/divisions/:id", tagHandler.DeleteDivision)
		admin.POST("/cities", tagHandler.CreateCity)
		admin.DELETE("/cities/:id", tagHandler.DeleteCity)

		admin.PUT("/hrbps/:id/scope", scopeHandler.SetScope)
		admin.GET("/hrbps/:id/scope", scopeHandler.GetScope)
	}

	// Маршруты администратора и HRBP
	staff := api.Group("/")
	staff.Use(handlers.AuthMiddleware(authService))
	staff.Use(handlers.RequireRoles(models.RoleRootAdmin, models.RoleHRBP))
	{
		staff.POST("/users", userHandler.CreateUser)
		staff.GET("/users", userHandler.ListUsers)

		staff.POST("/exams", catalogHandler.CreateExam)
		staff.PUT("/exams/:id", catalogHandler.UpdateExam)
		staff.DELETE("/exams/:id", catalogHandler.DeleteExam)
		staff.POST("/tasks", catalogHandler.CreateTask)
		staff.PUT("/tasks/:id", catalogHandler.UpdateTask)
		staff.DELETE("/tasks/:id", catalogHandler.DeleteTask)
		staff.POST("/courses", catalogHandler.CreateCourse)
		staff.PUT("/courses/:id", catalogHandler.UpdateCourse)
		staff.DELETE("/courses/:id", catalogHandler.DeleteCourse)
		staff.POST("/courses/:id/sections", catalogHandler.AddSection)
		staff.DELETE("/sections/:section_id", catalogHandler.DeleteSection)
	}

	// Сводки наставника по всем его новичкам
	tutor := api.Group("/")
	tutor.Use(handlers.AuthMiddleware(authService))
	tutor.Use(handlers.RequireRoles(models.RoleTutor))
	{
		tutor.GET("/trainings", trainingHandler.ViewAll)
	}

	// Запускаем сервер
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	appLogger.Info("starting server", "addr", addr)

	if err := router.Run(addr); err != nil {
		appLogger.Fatal("failed to start server", "error", err)
	}
}
