package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"spanish-conjugation-bot/internal/application/usecases"
	"spanish-conjugation-bot/internal/infrastructure/excel"
	"spanish-conjugation-bot/internal/infrastructure/filesystem"
	"spanish-conjugation-bot/internal/infrastructure/persistence"
	"spanish-conjugation-bot/internal/infrastructure/telegram"
	"spanish-conjugation-bot/internal/interfaces/telegram/handlers"
	"spanish-conjugation-bot/internal/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	appLog, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		appLog.Fatal("TELEGRAM_BOT_TOKEN environment variable is required")
	}

	driver := envOr("DB_DRIVER", persistence.DriverSQLite)
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = envOr("DB_PATH", "conjugation_bot.db")
	}

	db, err := persistence.NewDB(driver, dsn)
	if err != nil {
		appLog.Fatal("failed to initialize database", "driver", driver, "error", err)
	}
	defer db.Close()

	userRepo := persistence.NewUserRepository(db)
	preferencesRepo := persistence.NewUserPreferencesRepository(db)
	verbRepo := persistence.NewVerbRepository(db)
	reviewRepo := persistence.NewReviewRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Seed the conjugation catalog from the JSON file, plus an optional
	// spreadsheet import for bulk-maintained verb lists.
	verbLoader := filesystem.NewVerbLoader()
	conjugations, err := verbLoader.LoadFromFile(envOr("VERBS_FILE", "verbs.json"))
	if err != nil {
		appLog.Fatal("failed to load verb catalog", "error", err)
	}
	if err := verbRepo.SaveBatch(ctx, conjugations); err != nil {
		appLog.Fatal("failed to populate verb catalog", "error", err)
	}

	if xlsxPath := os.Getenv("VERBS_XLSX"); xlsxPath != "" {
		result, err := excel.ImportConjugations(ctx, excel.DefaultImportConfig(xlsxPath), verbRepo)
		if err != nil {
			appLog.Fatal("failed to import spreadsheet", "path", xlsxPath, "error", err)
		}
		appLog.Info("spreadsheet imported",
			"path", xlsxPath, "imported", result.Imported, "skipped", result.Skipped)
	}

	catalog, err := verbRepo.FindAll(ctx)
	if err != nil {
		appLog.Fatal("failed to read back verb catalog", "error", err)
	}
	appLog.Info("verb catalog ready", "forms", len(catalog))

	schedulerUseCase := usecases.NewSchedulerUseCase(reviewRepo, verbRepo)
	userUseCase := usecases.NewUserUseCase(userRepo, preferencesRepo, appLog)
	drillUseCase := usecases.NewDrillUseCase(schedulerUseCase, reviewRepo, verbRepo)

	bot, err := telegram.NewBot(botToken, appLog.With("component", "telegram"))
	if err != nil {
		appLog.Fatal("failed to create bot", "error", err)
	}

	if err := bot.SetupCommands(); err != nil {
		appLog.Warn("failed to setup bot commands, menu will be empty", "error", err)
	}

	reminderUseCase := usecases.NewReminderUseCase(
		bot, userRepo, reviewRepo, preferencesRepo, nil, appLog)
	if err := reminderUseCase.Start(); err != nil {
		appLog.Fatal("failed to start reminder job", "error", err)
	}
	defer reminderUseCase.Stop()

	handler := handlers.NewBotHandler(bot, userUseCase, drillUseCase, schedulerUseCase, appLog)

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		appLog.Info("shutting down")
		cancel()
	}()

	if err := handler.Start(ctx); err != nil {
		appLog.Fatal("bot error", "error", err)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
