package main

import (
	"log"

	"github.com/ipulkitg/Jobseek/internal/config"
	"github.com/ipulkitg/Jobseek/internal/database"
	"github.com/ipulkitg/Jobseek/internal/handler"
	"github.com/ipulkitg/Jobseek/internal/identity"
	"github.com/ipulkitg/Jobseek/internal/job"
	"github.com/ipulkitg/Jobseek/internal/middleware"
	"github.com/ipulkitg/Jobseek/internal/server"
	"github.com/ipulkitg/Jobseek/internal/session"
	"github.com/ipulkitg/Jobseek/internal/user"

	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	conn, err := database.GetDbConn(
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseName,
		cfg.DatabaseSSLMode,
	)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)
	if err := database.RunMigrations(conn); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}

	if cfg.SkipTokenVerification {
		log.Println("identity token signature verification is disabled")
	}
	verifier := identity.NewVerifier(cfg.JWKSURL, cfg.SkipTokenVerification)
	sessions := session.NewRepository(conn)
	users := user.NewRepository(conn)
	jobs := job.NewRepository(conn)

	svr := server.NewServer(cfg, conn, mux.NewRouter())

	svr.RegisterRoute("/health", handler.HealthHandler(svr), []string{"GET"})

	//
	// auth routes
	//

	svr.RegisterRoute("/api/v1/auth/login", handler.LoginHandler(svr, verifier, sessions, users), []string{"POST"})

	svr.RegisterRoute("/api/v1/auth/logout",
		middleware.CSRFMiddleware(
			middleware.SessionAuthenticatedMiddleware(sessions, handler.LogoutHandler(svr, sessions)),
		), []string{"POST"})

	svr.RegisterRoute("/api/v1/auth/profile",
		middleware.CSRFMiddleware(
			middleware.SessionAuthenticatedMiddleware(sessions, handler.CreateProfileHandler(svr, users)),
		), []string{"POST"})

	svr.RegisterRoute("/api/v1/auth/profile",
		middleware.SessionAuthenticatedMiddleware(sessions, handler.GetProfileHandler(svr, users)),
		[]string{"GET"})

	svr.RegisterRoute("/api/v1/auth/profile",
		middleware.CSRFMiddleware(
			middleware.SessionAuthenticatedMiddleware(sessions, handler.UpdateProfileHandler(svr, users)),
		), []string{"PUT"})

	//
	// job posting routes
	// literal paths are registered before /jobs/{id} so the router
	// never swallows them as an id
	//

	svr.RegisterRoute("/api/v1/jobs/categories", handler.GetJobCategoriesHandler(svr, jobs), []string{"GET"})

	svr.RegisterRoute("/api/v1/jobs/states", handler.GetUSStatesHandler(svr, jobs), []string{"GET"})

	svr.RegisterRoute("/api/v1/jobs/employer",
		middleware.ProfileAuthenticatedMiddleware(sessions, users, handler.EmployerJobPostingsHandler(svr, jobs)),
		[]string{"GET"})

	svr.RegisterRoute("/api/v1/jobs/applications/employer",
		middleware.ProfileAuthenticatedMiddleware(sessions, users, handler.EmployerApplicationsHandler(svr, jobs)),
		[]string{"GET"})

	svr.RegisterRoute("/api/v1/jobs/applications/{id}",
		middleware.CSRFMiddleware(
			middleware.ProfileAuthenticatedMiddleware(sessions, users, handler.UpdateApplicationStatusHandler(svr, jobs)),
		), []string{"PUT"})

	svr.RegisterRoute("/api/v1/jobs/applications",
		middleware.ProfileAuthenticatedMiddleware(sessions, users, handler.MyApplicationsHandler(svr, jobs)),
		[]string{"GET"})

	svr.RegisterRoute("/api/v1/jobs/applied-jobs",
		middleware.ProfileAuthenticatedMiddleware(sessions, users, handler.AppliedJobsHandler(svr, jobs)),
		[]string{"GET"})

	svr.RegisterRoute("/api/v1/jobs", handler.ListJobPostingsHandler(svr, jobs), []string{"GET"})

	svr.RegisterRoute("/api/v1/jobs",
		middleware.CSRFMiddleware(
			middleware.ProfileAuthenticatedMiddleware(sessions, users, handler.CreateJobPostingHandler(svr, jobs)),
		), []string{"POST"})

	svr.RegisterRoute("/api/v1/jobs/{id}/apply",
		middleware.CSRFMiddleware(
			middleware.ProfileAuthenticatedMiddleware(sessions, users, handler.ApplyToJobHandler(svr, jobs)),
		), []string{"POST"})

	svr.RegisterRoute("/api/v1/jobs/{id}", handler.GetJobPostingHandler(svr, jobs), []string{"GET"})

	svr.RegisterRoute("/api/v1/jobs/{id}",
		middleware.CSRFMiddleware(
			middleware.ProfileAuthenticatedMiddleware(sessions, users, handler.UpdateJobPostingHandler(svr, jobs)),
		), []string{"PUT"})

	svr.RegisterRoute("/api/v1/jobs/{id}",
		middleware.CSRFMiddleware(
			middleware.ProfileAuthenticatedMiddleware(sessions, users, handler.DeleteJobPostingHandler(svr, jobs)),
		), []string{"DELETE"})

	//
	// interview routes
	//

	svr.RegisterRoute("/api/v1/interviews/token",
		middleware.CSRFMiddleware(
			middleware.ProfileAuthenticatedMiddleware(sessions, users, handler.MintInterviewTokenHandler(svr)),
		), []string{"POST"})

	log.Fatal(svr.Run())
}
