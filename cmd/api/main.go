package main

import (
	"fmt"
	"net/http"

	"github.com/billora/invoicing-backend-go/internal/config"
	appHTTP "github.com/billora/invoicing-backend-go/internal/handler/http"
	"github.com/billora/invoicing-backend-go/internal/pkg/cron"
	"github.com/billora/invoicing-backend-go/internal/pkg/database"
	"github.com/billora/invoicing-backend-go/internal/pkg/jwt"
	"github.com/billora/invoicing-backend-go/internal/pkg/sse"
	"github.com/billora/invoicing-backend-go/internal/repository/postgresql"
	customerService "github.com/billora/invoicing-backend-go/internal/service/customer"
	invoiceService "github.com/billora/invoicing-backend-go/internal/service/invoice"
	notificationService "github.com/billora/invoicing-backend-go/internal/service/notification"
	settingsService "github.com/billora/invoicing-backend-go/internal/service/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	invoiceRepo := postgresql.NewInvoiceRepository(db)
	customerRepo := postgresql.NewCustomerRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	notifSvc := notificationService.NewNotificationService(notificationRepo, hub)
	invoiceSvc := invoiceService.NewInvoiceService(invoiceRepo, customerRepo, notifSvc)
	customerSvc := customerService.NewCustomerService(customerRepo, invoiceRepo, notifSvc)
	settingsSvc := settingsService.NewSettingsService(settingsRepo, notifSvc)

	scheduler := cron.NewScheduler()
	cron.RegisterJobs(
		scheduler,
		cron.NewInvoiceJobs(invoiceRepo, notifSvc),
		cron.NewNotificationJobs(notifSvc, cfg.Cron.NotificationRetention),
		cfg.Cron.OverdueCheckInterval,
		cfg.Cron.ReminderInterval,
		cfg.Cron.CleanupInterval,
	)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		appHTTP.NewInvoiceHandler(invoiceSvc),
		appHTTP.NewCustomerHandler(customerSvc),
		appHTTP.NewNotificationHandler(notifSvc, jwtService),
		appHTTP.NewSettingsHandler(settingsSvc),
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
