package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/repository/postgresql"
	dashboardService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/dashboard"
	holidayService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/holiday"
	notificationService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/notification"
	payrollService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/payroll"
	salaryService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/salary"
	shiftService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/shift"
	workplaceService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/workplace"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.App.SlogLevel(), "shiftpay", version, cfg.App.Env)
	slog.SetDefault(log)

	db, err := database.Connect(context.Background(), cfg.Pool())
	if err != nil {
		log.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, err := postgresql.Migrate(context.Background(), db, log); err != nil {
		log.Error("Error applying migrations", "error", err)
		os.Exit(1)
	}

	resolver, err := cfg.Payroll.Resolver()
	if err != nil {
		log.Error("Error building time window resolver", "error", err)
		os.Exit(1)
	}
	loc := resolver.Location()
	log.Info("Payroll clock", "zone", loc.String(), "night_window", resolver.NightWindow())

	workplaceRepo := postgresql.NewWorkplaceRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db, loc)
	policyRepo := postgresql.NewSalaryPolicyRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db, loc)
	notificationRepo := postgresql.NewNotificationRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub(16)
	notificationSvc := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{}, log)
	defer notificationSvc.Stop()

	calculator := payrollService.NewCalculator(resolver, cfg.Payroll.Premiums, cfg.Payroll.Rates)
	calendar := holidayService.NewCalendar(holidayRepo, cfg.Payroll.WeeklyRestDay)
	workplaceSvc := workplaceService.NewWorkplaceService(workplaceRepo)
	salarySvc := salaryService.NewSalaryService(policyRepo, notificationSvc, log)
	shiftSvc := shiftService.NewShiftService(
		shiftRepo,
		policyRepo,
		calendar,
		calculator,
		resolver,
		notificationSvc,
		shiftService.Config{Concurrency: cfg.Payroll.BatchConcurrency},
		log,
	)
	holidaySvc := holidayService.NewHolidayService(holidayRepo, loc, log)
	dashboardSvc := dashboardService.NewDashboardService(shiftRepo, workplaceRepo, calculator, resolver)

	scheduler := cron.NewScheduler(log)
	cron.NewShiftAlarmJobs(shiftRepo, notificationSvc, cfg.Payroll.AlarmInterval, cfg.Payroll.AlarmLead, log).
		RegisterJobs(scheduler)
	cron.NewNotificationPurgeJobs(notificationSvc, cfg.Notification.PurgeInterval, cfg.Notification.Retention, log).
		RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		log,
		cfg.App.AllowedOrigins,
		JWTService,
		workplaceSvc,
		appHTTP.NewWorkplaceHandler(workplaceSvc),
		appHTTP.NewShiftHandler(shiftSvc, workplaceSvc, loc),
		appHTTP.NewSalaryHandler(salarySvc),
		appHTTP.NewDashboardHandler(dashboardSvc, workplaceSvc, loc),
		appHTTP.NewNotificationHandler(notificationSvc, JWTService),
		appHTTP.NewHolidayHandler(holidaySvc, loc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
}
