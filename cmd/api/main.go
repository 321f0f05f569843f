package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"

	"github.com/schoolhub/shiftops-backend-go/internal/config"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/salary"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/violation"
	appHTTP "github.com/schoolhub/shiftops-backend-go/internal/handler/http"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/clock"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/cron"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/database"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/sse"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/storage"
	"github.com/schoolhub/shiftops-backend-go/internal/repository/postgresql"
	notificationService "github.com/schoolhub/shiftops-backend-go/internal/service/notification"
	payrollService "github.com/schoolhub/shiftops-backend-go/internal/service/payroll"
	shiftService "github.com/schoolhub/shiftops-backend-go/internal/service/shift"
	swapService "github.com/schoolhub/shiftops-backend-go/internal/service/swap"
	violationService "github.com/schoolhub/shiftops-backend-go/internal/service/violation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	templateRepo := postgresql.NewTemplateRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	swapRepo := postgresql.NewSwapRepository(db)
	violationRepo := postgresql.NewViolationRepository(db)
	explanationRepo := postgresql.NewExplanationRepository(db)
	evidenceRepo := postgresql.NewEvidenceRepository(db)
	structureRepo := postgresql.NewSalaryStructureRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JWT.Secret), nil)
	clk := clock.System{}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	hub := sse.NewHub()
	notifier := notificationService.NewSSESink(hub, slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	thresholds := violation.SeverityThresholds{
		MinorMax:    cfg.Shift.SeverityMinorMax,
		ModerateMax: cfg.Shift.SeverityModerateMax,
		MajorMax:    cfg.Shift.SeverityMajorMax,
	}
	detectionSvc := violationService.NewDetectionService(violationRepo, assignmentRepo, notifier, clk, thresholds)

	templateSvc := shiftService.NewTemplateService(templateRepo)
	scheduleSvc := shiftService.NewScheduleService(scheduleRepo, clk)
	assignmentSvc := shiftService.NewAssignmentService(
		db,
		assignmentRepo,
		templateRepo,
		scheduleRepo,
		notifier,
		detectionSvc,
		clk,
		cfg.Shift.ToleranceMinutes,
	)
	swapSvc := swapService.NewSwapService(
		db,
		swapRepo,
		assignmentRepo,
		notifier,
		clk,
		cfg.Shift.SwapDefaultExpiryHours,
	)
	violationSvc := violationService.NewViolationService(violationRepo, explanationRepo, clk, cfg.Shift.OverdueExplanationDays)
	explanationSvc := violationService.NewExplanationService(
		violationRepo,
		explanationRepo,
		evidenceRepo,
		fileStorage,
		notifier,
		clk,
		cfg.Shift.MaxResubmissions,
		cfg.Shift.EvidenceMaxSizeMB,
	)
	structureSvc := payrollService.NewStructureService(structureRepo)

	latePenaltyRate, err := decimal.NewFromString(cfg.Payroll.LatePenaltyRate)
	if err != nil {
		log.Fatal("Invalid PAYROLL_LATE_PENALTY_RATE: ", err)
	}
	absentPenaltyRate, err := decimal.NewFromString(cfg.Payroll.AbsentPenaltyRate)
	if err != nil {
		log.Fatal("Invalid PAYROLL_ABSENT_PENALTY_RATE: ", err)
	}
	payrollSvc := payrollService.NewPayrollService(
		payrollRepo,
		structureRepo,
		assignmentRepo,
		violationRepo,
		notifier,
		clk,
		payrollService.Rates{
			LatePenaltyRate:     latePenaltyRate,
			AbsentPenaltyRate:   absentPenaltyRate,
			WorkingDaysPerMonth: cfg.Payroll.WorkingDaysPerMonth,
			WorkingHoursPerDay:  cfg.Payroll.WorkingHoursPerDay,
		},
		salary.DefaultTaxTable(),
	)

	scheduler := cron.NewScheduler()
	jobs := cron.NewShiftJobs(swapSvc, assignmentSvc, detectionSvc, violationSvc, clk, cfg.Shift.EscalationEnabled)
	jobs.RegisterJobs(scheduler, cfg.Shift.SwapSweepInterval, cfg.Shift.ReconcileInterval)
	scheduler.Start()
	defer scheduler.Stop()

	shiftHandler := appHTTP.NewShiftHandler(templateSvc, scheduleSvc, assignmentSvc)
	swapHandler := appHTTP.NewSwapHandler(swapSvc)
	violationHandler := appHTTP.NewViolationHandler(violationSvc, explanationSvc, cfg.Shift.EvidenceMaxSizeMB)
	payrollHandler := appHTTP.NewPayrollHandler(structureSvc, payrollSvc)
	notificationHandler := appHTTP.NewNotificationHandler(hub)

	router := appHTTP.NewRouter(
		tokenAuth,
		shiftHandler,
		swapHandler,
		violationHandler,
		payrollHandler,
		notificationHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
