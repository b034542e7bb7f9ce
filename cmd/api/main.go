package main

import (
	"fmt"
	"net/http"

	"github.com/gajihub/payroll-backend-go/internal/config"
	appHTTP "github.com/gajihub/payroll-backend-go/internal/handler/http"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
	"github.com/gajihub/payroll-backend-go/internal/pkg/jwt"
	"github.com/gajihub/payroll-backend-go/internal/repository/postgresql"
	attendanceService "github.com/gajihub/payroll-backend-go/internal/service/attendance"
	payrollService "github.com/gajihub/payroll-backend-go/internal/service/payroll"
	reportService "github.com/gajihub/payroll-backend-go/internal/service/report"
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

	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	claimRepo := postgresql.NewClaimRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)
	compensationRepo := postgresql.NewCompensationRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	attendanceAgg := attendanceService.NewAggregator(attendanceRepo)
	payrollSvc := payrollService.NewPayrollService(
		db,
		payrollRepo,
		employeeRepo,
		companyRepo,
		leaveRepo,
		claimRepo,
		advanceRepo,
		compensationRepo,
		attendanceAgg,
	)
	reportSvc := reportService.NewReportService(reportRepo)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(JWTService, payrollHandler, reportHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
