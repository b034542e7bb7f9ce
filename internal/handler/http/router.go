package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gajihub/payroll-backend-go/internal/handler/http/middleware"
	"github.com/gajihub/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(JWTService jwt.Service, payrollHandler PayrollHandler, reportHandler ReportHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "gajihub-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/runs", func(r chi.Router) {
					r.Post("/", payrollHandler.CreateRun)
					r.Get("/", payrollHandler.ListRuns)
					r.Delete("/drafts", payrollHandler.DeleteDraftRuns)
					r.Post("/generate-all/departments", payrollHandler.GenerateAllDepartments)
					r.Post("/generate-all/outlets", payrollHandler.GenerateAllOutlets)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", payrollHandler.GetRun)
						r.Delete("/", payrollHandler.DeleteRun)
						r.Post("/employees", payrollHandler.AddEmployees)
						r.Post("/recalculate", payrollHandler.RecalculateRun)
						r.Post("/approve", payrollHandler.ApproveRun)
						r.Post("/finalize", payrollHandler.FinalizeRun)
					})
				})

				r.Route("/items/{id}", func(r chi.Router) {
					r.Put("/", payrollHandler.UpdateItem)
					r.Delete("/", payrollHandler.DeleteItem)
					r.Post("/recalculate", payrollHandler.RecalculateItem)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/run-summary", reportHandler.RunSummary)
				r.Get("/group-totals", reportHandler.GroupTotals)
				r.Get("/ot-summary", reportHandler.OTSummary)
				r.Get("/employees/{id}/ytd", reportHandler.EmployeeYTD)
			})
		})
	})
	return r
}
