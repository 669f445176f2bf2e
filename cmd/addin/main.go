package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/order-sheet-sync/config"
	"github.com/yourusername/order-sheet-sync/internal/delivery/shell"
	"github.com/yourusername/order-sheet-sync/internal/domain/dispatch"
	"github.com/yourusername/order-sheet-sync/internal/domain/repository"
	"github.com/yourusername/order-sheet-sync/internal/infrastructure/grid"
	"github.com/yourusername/order-sheet-sync/internal/infrastructure/jkdapi"
	"github.com/yourusername/order-sheet-sync/internal/infrastructure/storage"
	"github.com/yourusername/order-sheet-sync/internal/usecase"
	"github.com/yourusername/order-sheet-sync/pkg/logger"
)

func main() {
	// Logger ni ishga tushirish
	logger.Init()
	logger.InfoLogger.Println("🚀 Ilova ishga tushmoqda...")

	// Konfiguratsiyani yuklash
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Konfiguratsiya yuklanmadi: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLog := logger.New(cfg.LogLevel)

	// Dependencies ni yaratish (Dependency Injection)

	// 1. Client state store (Postgres yoki in-memory)
	var store repository.StateStore
	if cfg.PostgresDSN != "" {
		store, err = storage.NewPostgresStateStore(cfg.PostgresDSN)
		if err != nil {
			logger.ErrorLogger.Printf("❌ Postgres ulanmadi, in-memory store ishlatiladi: %v", err)
			store = storage.NewMemoryStateStore()
		} else {
			logger.InfoLogger.Println("✅ State store tayyor (postgres)")
		}
	} else {
		store = storage.NewMemoryStateStore()
		logger.InfoLogger.Println("✅ State store tayyor (in-memory)")
	}
	appLog.AttachStore(ctx, store)

	// 2. HTTP client va gateway'lar
	client := jkdapi.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, appLog)
	directory := dispatch.DefaultDirectory()
	authGateway := jkdapi.NewAuthService(client, appLog)
	orderGateway := jkdapi.NewOrderService(client, directory, appLog)
	logger.InfoLogger.Printf("✅ Backend gateway tayyor: %s", cfg.APIBaseURL)

	// 3. Workbook grid adapter
	gridPort, err := grid.NewExcelizeGrid(cfg.SheetPath, cfg.SheetName, appLog)
	if err != nil {
		log.Fatalf("❌ Workbook ochilmadi (%s): %v", cfg.SheetPath, err)
	}
	logger.InfoLogger.Printf("✅ Workbook tayyor: %s (%s)", cfg.SheetPath, cfg.SheetName)

	// 4. Use cases
	renderer := usecase.NewRenderUseCase(gridPort, directory, appLog)
	engine := usecase.NewReconcileUseCase(gridPort, orderGateway, appLog)

	// 5. Shell
	sh := shell.New(authGateway, orderGateway, renderer, engine, store, client,
		func(message, kind string) {
			switch kind {
			case "error":
				appLog.Errorf("[notice] %s", message)
			case "warning":
				appLog.Warnf("[notice] %s", message)
			default:
				appLog.Infof("[notice] %s", message)
			}
		}, appLog)

	if err := sh.Mount(ctx); err != nil {
		log.Fatalf("❌ Shell ishga tushmadi: %v", err)
	}
	defer sh.Unmount()

	// Saqlangan sessiya bo'lmasa, env orqali login
	if !sh.IsAuthenticated() {
		if cfg.Username == "" || cfg.Password == "" {
			logger.InfoLogger.Println("JKD_USERNAME/JKD_PASSWORD bo'sh va saqlangan sessiya yo'q. Chiqilmoqda.")
			return
		}
		if err := sh.Login(ctx, cfg.Username, cfg.Password, cfg.RememberUsername); err != nil {
			log.Fatalf("❌ Login muvaffaqiyatsiz: %v", err)
		}
	}
	if user := sh.UserInfo(); user != nil {
		logger.InfoLogger.Printf("✅ Tizimga kirildi: %s", user.RealName)
	}

	// Birinchi sahifani yuklab, jadvalni chizish
	if err := sh.FetchOrders(ctx); err != nil {
		logger.ErrorLogger.Printf("❌ Buyurtmalar yuklanmadi: %v", err)
	}

	// Edit watcher ni alohida goroutine da ishga tushirish
	watcher := grid.NewEditWatcher(gridPort, cfg.WatchInterval, appLog)
	go watcher.Start(ctx)
	logger.InfoLogger.Printf("👀 Edit watcher ishlayapti (%s oraliq). To'xtatish uchun Ctrl+C ni bosing.", cfg.WatchInterval)

	// Signal kutish
	<-sigChan
	logger.InfoLogger.Println("⏳ To'xtatish signali qabul qilindi...")

	// Graceful shutdown
	cancel()
	logger.InfoLogger.Println("✅ Ilova to'xtatildi.")
}
