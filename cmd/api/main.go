package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/talenthub/hrm-backend-go/internal/config"
	appHTTP "github.com/talenthub/hrm-backend-go/internal/handler/http"
	"github.com/talenthub/hrm-backend-go/internal/pkg/database"
	"github.com/talenthub/hrm-backend-go/internal/pkg/jwt"
	"github.com/talenthub/hrm-backend-go/internal/repository/postgresql"
	leaveService "github.com/talenthub/hrm-backend-go/internal/service/leave"
	payrollService "github.com/talenthub/hrm-backend-go/internal/service/payroll"
	settingsService "github.com/talenthub/hrm-backend-go/internal/service/settings"
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

	settingsRepo := postgresql.NewSettingsRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	settingsSvc := settingsService.NewSettingsService(settingsRepo)
	txRunner := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return postgresql.WithTransaction(ctx, db, fn)
	}
	ledger := leaveService.NewLedger(settingsRepo, leaveBalanceRepo, leaveRequestRepo, employeeRepo, txRunner)
	requestSvc := leaveService.NewRequestService(ledger, leaveRequestRepo)
	payrollSvc := payrollService.NewPayrollService(settingsRepo, employeeRepo, attendanceRepo, payrollRepo, cfg.Payroll.Workers)

	settingsHandler := appHTTP.NewSettingsHandler(settingsSvc)
	leaveHandler := appHTTP.NewLeaveHandler(ledger, requestSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(
		JWTService,
		settingsHandler,
		leaveHandler,
		payrollHandler,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
