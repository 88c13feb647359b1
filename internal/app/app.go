package app

import (
	"context"
	"fmt"

	"quiz_engine/internal/config"
	"quiz_engine/internal/repository"
	"quiz_engine/internal/service"
	"quiz_engine/pkg/database"
	"quiz_engine/pkg/logger"
	"quiz_engine/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Services *Services
}

type repositories struct {
	question  *repository.QuestionRepository
	quiz      *repository.QuizRepository
	attempt   *repository.AttemptRepository
	analytics *repository.AnalyticsRepository
}

// Services is the surface a presentation layer talks to.
type Services struct {
	Bank      *service.QuestionBankService
	Quizzes   *service.QuizService
	Sampler   *service.Sampler
	Attempts  *service.AttemptService
	Analytics *service.AnalyticsService
	Seed      *service.SeedService
}

// NewApp opens the configured store and wires every service against it.
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Error("Failed to initialize database", zap.Error(err))
		return nil, fmt.Errorf("init database: %w", err)
	}
	logger.Log.Info("Database ready",
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("migrate_only", cfg.MigrateOnly))

	return NewWithDB(cfg, db), nil
}

// NewWithDB wires the services around an already opened store.
func NewWithDB(cfg *config.Config, db *gorm.DB) *App {
	monitoring.Init()

	app := &App{
		Config: cfg,
		DB:     db,
	}
	repos := app.initRepositories(db)
	app.Services = app.initServices(repos, cfg, db)
	return app
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		question:  repository.NewQuestionRepository(db),
		quiz:      repository.NewQuizRepository(db),
		attempt:   repository.NewAttemptRepository(db),
		analytics: repository.NewAnalyticsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *Services {
	sampler := service.NewSampler(repos.question, service.NewSource(cfg.Quiz.Seed))
	bank := service.NewQuestionBankService(repos.question, db)
	quizzes := service.NewQuizService(repos.quiz, sampler, cfg.Quiz)

	return &Services{
		Bank:      bank,
		Quizzes:   quizzes,
		Sampler:   sampler,
		Attempts:  service.NewAttemptService(repos.attempt, repos.quiz, repos.question, sampler, db),
		Analytics: service.NewAnalyticsService(repos.analytics, repos.question, repos.quiz),
		Seed:      service.NewSeedService(bank, quizzes),
	}
}

// ValidateBank logs every integrity issue found in the question bank.
func (a *App) ValidateBank(ctx context.Context) (*service.BankValidationReport, error) {
	report, err := a.Services.Bank.ValidateBank(ctx)
	if err != nil {
		return nil, err
	}
	for _, issue := range report.Issues {
		logger.Log.Warn("question bank issue", zap.String("issue", issue))
	}
	logger.Log.Info("question bank validated",
		zap.Bool("valid", report.IsValid),
		zap.Int("questions", report.TotalQuestions))
	return report, nil
}

func (a *App) Close() error {
	_ = logger.Log.Sync()
	return database.Close(a.DB)
}
