package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ipulkitg/Jobseek/internal/job"
	"github.com/ipulkitg/Jobseek/internal/middleware"
	"github.com/ipulkitg/Jobseek/internal/server"
	"github.com/ipulkitg/Jobseek/internal/user"

	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.UGCPolicy()

func sanitizeUGC(s string) string {
	return ugcPolicy.Sanitize(s)
}

// GetJobCategoriesHandler serves the static category lookup table, cached in
// process since it only changes with a migration.
func GetJobCategoriesHandler(svr server.Server, jobs job.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveCachedList(svr, w, server.CacheKeyJobCategories, func() (interface{}, error) {
			return jobs.GetCategories()
		})
	}
}

func GetUSStatesHandler(svr server.Server, jobs job.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveCachedList(svr, w, server.CacheKeyUSStates, func() (interface{}, error) {
			return jobs.GetStates()
		})
	}
}

func serveCachedList(svr server.Server, w http.ResponseWriter, cacheKey string, load func() (interface{}, error)) {
	if cached, ok := svr.CacheGet(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(cached)
		return
	}
	data, err := load()
	if err != nil {
		svr.Log(err, "unable to load lookup table "+cacheKey)
		svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	out, err := json.Marshal(data)
	if err != nil {
		svr.Log(err, "unable to marshal lookup table "+cacheKey)
		svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if err := svr.CacheSet(cacheKey, out); err != nil {
		svr.Log(err, "unable to cache lookup table "+cacheKey)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// ListJobPostingsHandler is the public filtered listing.
func ListJobPostingsHandler(svr server.Server, jobs job.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filters := job.SearchFilters{
			CategoryID: q.Get("category_id"),
			StateID:    q.Get("state_id"),
			City:       q.Get("city"),
			Search:     q.Get("search"),
		}
		filters.SalaryMin, _ = strconv.ParseInt(q.Get("salary_min"), 10, 64)
		filters.SalaryMax, _ = strconv.ParseInt(q.Get("salary_max"), 10, 64)
		filters.Limit, _ = strconv.Atoi(q.Get("limit"))
		filters.Offset, _ = strconv.Atoi(q.Get("offset"))
		postings, err := jobs.Search(filters)
		if err != nil {
			svr.Log(err, "unable to search job postings")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, postings)
	}
}

func GetJobPostingHandler(svr server.Server, jobs job.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posting, err := jobs.GetPostingByID(mux.Vars(r)["id"])
		if err == job.ErrNotFound {
			svr.JSON(w, http.StatusNotFound, map[string]string{"error": "job posting not found"})
			return
		}
		if err != nil {
			svr.Log(err, "unable to load job posting")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, posting)
	}
}

func CreateJobPostingHandler(svr server.Server, jobs job.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := requireRole(svr, w, r, user.RoleEmployer, "only employers can create job postings")
		if !ok {
			return
		}
		rq := &job.PostingRq{}
		if err := json.NewDecoder(r.Body).Decode(rq); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		if rq.Title == "" || rq.Description == "" || rq.Requirements == "" {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "title, description and requirements are required"})
			return
		}
		rq.Description = sanitizeUGC(rq.Description)
		rq.Requirements = sanitizeUGC(rq.Requirements)
		posting, err := jobs.CreatePosting(ac.Profile.ID, *rq)
		if err != nil {
			svr.Log(err, "unable to create job posting")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, posting)
	}
}

func EmployerJobPostingsHandler(svr server.Server, jobs job.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := requireRole(svr, w, r, user.RoleEmployer, "only employers can list their job postings")
		if !ok {
			return
		}
		postings, err := jobs.PostingsByEmployer(ac.Profile.ID)
		if err != nil {
			svr.Log(err, "unable to list employer job postings")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, postings)
	}
}

// UpdateJobPostingHandler lets the owning employer edit a posting. A posting
// owned by somebody else is reported as absent, never as forbidden.
func UpdateJobPostingHandler(svr server.Server, jobs job.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := requireRole(svr, w, r, user.RoleEmployer, "only employers can update job postings")
		if !ok {
			return
		}
		id := mux.Vars(r)["id"]
		if !ownsPosting(svr, w, jobs, id, ac.Profile.ID) {
			return
		}
		rq := &job.PostingRqUpdate{}
		if err := json.NewDecoder(r.Body).Decode(rq); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		if rq.Description != nil {
			clean := sanitizeUGC(*rq.Description)
			rq.Description = &clean
		}
		if rq.Requirements != nil {
			clean := sanitizeUGC(*rq.Requirements)
			rq.Requirements = &clean
		}
		posting, err := jobs.UpdatePosting(id, *rq)
		if err == job.ErrNotFound {
			svr.JSON(w, http.StatusNotFound, map[string]string{"error": "job posting not found"})
			return
		}
		if err != nil {
			svr.Log(err, "unable to update job posting")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, posting)
	}
}

func DeleteJobPostingHandler(svr server.Server, jobs job.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := requireRole(svr, w, r, user.RoleEmployer, "only employers can delete job postings")
		if !ok {
			return
		}
		id := mux.Vars(r)["id"]
		if !ownsPosting(svr, w, jobs, id, ac.Profile.ID) {
			return
		}
		if err := jobs.DeletePosting(id); err != nil && err != job.ErrNotFound {
			svr.Log(err, "unable to delete job posting")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"message": "job posting deleted"})
	}
}

func ApplyToJobHandler(svr server.Server, jobs job.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := requireRole(svr, w, r, user.RoleJobSeeker, "only job seekers can apply to jobs")
		if !ok {
			return
		}
		id := mux.Vars(r)["id"]
		if _, err := jobs.GetPostingByID(id); err != nil {
			if err == job.ErrNotFound {
				svr.JSON(w, http.StatusNotFound, map[string]string{"error": "job posting not found"})
				return
			}
			svr.Log(err, "unable to load job posting for application")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		rq := &job.ApplicationRq{}
		if err := json.NewDecoder(r.Body).Decode(rq); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		application, err := jobs.CreateApplication(id, ac.Profile.ID, sanitizeUGC(rq.CoverLetter))
		if err == job.ErrDuplicateApplication {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "you have already applied to this job posting"})
			return
		}
		if err != nil {
			svr.Log(err, "unable to create job application")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, application)
	}
}

func MyApplicationsHandler(svr server.Server, jobs job.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := requireRole(svr, w, r, user.RoleJobSeeker, "only job seekers can list their applications")
		if !ok {
			return
		}
		applications, err := jobs.ApplicationsBySeeker(ac.Profile.ID)
		if err != nil {
			svr.Log(err, "unable to list applications")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, applications)
	}
}

func AppliedJobsHandler(svr server.Server, jobs job.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := requireRole(svr, w, r, user.RoleJobSeeker, "only job seekers can list applied jobs")
		if !ok {
			return
		}
		ids, err := jobs.AppliedPostingIDs(ac.Profile.ID)
		if err != nil {
			svr.Log(err, "unable to list applied job ids")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, ids)
	}
}

func EmployerApplicationsHandler(svr server.Server, jobs job.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := requireRole(svr, w, r, user.RoleEmployer, "only employers can view their applications")
		if !ok {
			return
		}
		applications, err := jobs.ApplicationsForEmployer(ac.Profile.ID)
		if err != nil {
			svr.Log(err, "unable to list employer applications")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, applications)
	}
}

// UpdateApplicationStatusHandler lets the employer owning the referenced
// posting move an application through the status pipeline.
func UpdateApplicationStatusHandler(svr server.Server, jobs job.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := requireRole(svr, w, r, user.RoleEmployer, "only employers can update application status")
		if !ok {
			return
		}
		id := mux.Vars(r)["id"]
		application, err := jobs.GetApplicationByID(id)
		if err == job.ErrNotFound {
			svr.JSON(w, http.StatusNotFound, map[string]string{"error": "application not found"})
			return
		}
		if err != nil {
			svr.Log(err, "unable to load application")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		// not owned reads the same as not found
		if application.PostingEmployerID != ac.Profile.ID {
			svr.JSON(w, http.StatusNotFound, map[string]string{"error": "application not found"})
			return
		}
		rq := &job.ApplicationRqUpdate{}
		if err := json.NewDecoder(r.Body).Decode(rq); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		if rq.Status != nil && !job.ValidStatus(*rq.Status) {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
		if rq.CoverLetter != nil {
			clean := sanitizeUGC(*rq.CoverLetter)
			rq.CoverLetter = &clean
		}
		updated, err := jobs.UpdateApplication(id, *rq)
		if err != nil {
			svr.Log(err, "unable to update application")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, updated)
	}
}

// requireRole reads the caller from the request context and enforces the
// role. Wrong role is 403, a missing auth context means the middleware was
// not applied and reads as 401.
func requireRole(svr server.Server, w http.ResponseWriter, r *http.Request, role user.Role, msg string) (middleware.AuthContext, bool) {
	ac, ok := middleware.GetAuthContext(r)
	if !ok || ac.Profile == nil {
		svr.JSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return middleware.AuthContext{}, false
	}
	if ac.Profile.Role != role {
		svr.JSON(w, http.StatusForbidden, map[string]string{"error": msg})
		return middleware.AuthContext{}, false
	}
	return ac, true
}

// ownsPosting reports whether the employer owns the posting, writing the
// response when not. Someone else's posting is indistinguishable from a
// missing one.
func ownsPosting(svr server.Server, w http.ResponseWriter, jobs job.Store, id, employerID string) bool {
	posting, err := jobs.GetPostingByID(id)
	if err == job.ErrNotFound {
		svr.JSON(w, http.StatusNotFound, map[string]string{"error": "job posting not found"})
		return false
	}
	if err != nil {
		svr.Log(err, "unable to load job posting")
		svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return false
	}
	if posting.EmployerID != employerID {
		svr.JSON(w, http.StatusNotFound, map[string]string{"error": "job posting not found"})
		return false
	}
	return true
}
