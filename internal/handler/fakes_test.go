package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/ipulkitg/Jobseek/internal/config"
	"github.com/ipulkitg/Jobseek/internal/job"
	"github.com/ipulkitg/Jobseek/internal/middleware"
	"github.com/ipulkitg/Jobseek/internal/server"
	"github.com/ipulkitg/Jobseek/internal/session"
	"github.com/ipulkitg/Jobseek/internal/user"

	"github.com/gorilla/mux"
)

func newTestServer() server.Server {
	cfg := config.Config{
		Env:                  "dev",
		InterviewTokenSecret: []byte("test-interview-secret"),
	}
	return server.NewServer(cfg, nil, mux.NewRouter())
}

func withAuth(r *http.Request, subjectID string, profile *user.Profile) *http.Request {
	return r.WithContext(middleware.WithAuthContext(r.Context(), middleware.AuthContext{SubjectID: subjectID, Profile: profile}))
}

func seekerProfile(id string) *user.Profile {
	return &user.Profile{ID: id, SubjectID: "subj-" + id, Role: user.RoleJobSeeker, Name: "Sam Seeker", Email: "sam@example.com"}
}

func employerProfile(id string) *user.Profile {
	return &user.Profile{ID: id, SubjectID: "subj-" + id, Role: user.RoleEmployer, Name: "Erin Employer", Email: "erin@example.com"}
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type fakeSessionStore struct {
	sessions map[string]session.Session
	nextID   int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]session.Session{}}
}

func (f *fakeSessionStore) Create(subjectID string) (string, error) {
	f.nextID++
	id := fmt.Sprintf("sess-%d", f.nextID)
	f.sessions[id] = session.Session{ID: id, SubjectID: subjectID, CreatedAt: time.Now(), ExpiresAt: time.Now().Add(session.Duration)}
	return id, nil
}

func (f *fakeSessionStore) Get(id string) (session.Session, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (f *fakeSessionStore) Delete(id string) error {
	delete(f.sessions, id)
	return nil
}

type fakeUserStore struct {
	profiles map[string]user.Profile
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{profiles: map[string]user.Profile{}}
}

func (f *fakeUserStore) GetBySubjectID(subjectID string) (user.Profile, error) {
	p, ok := f.profiles[subjectID]
	if !ok {
		return user.Profile{}, user.ErrNotFound
	}
	return p, nil
}

func (f *fakeUserStore) Upsert(subjectID string, rq user.ProfileRq) (user.Profile, error) {
	p, ok := f.profiles[subjectID]
	if !ok {
		p = user.Profile{ID: "prof-" + subjectID, SubjectID: subjectID, Role: user.Role(rq.Role), CreatedAt: time.Now()}
	}
	p.Name = rq.Name
	p.Email = rq.Email
	p.Phone = rq.Phone
	p.CompanyName = rq.CompanyName
	p.CompanyDescription = rq.CompanyDescription
	p.Skills = rq.Skills
	p.UpdatedAt = time.Now()
	f.profiles[subjectID] = p
	return p, nil
}

func (f *fakeUserStore) Update(subjectID string, rq user.ProfileRqUpdate) (user.Profile, error) {
	p, ok := f.profiles[subjectID]
	if !ok {
		return user.Profile{}, user.ErrNotFound
	}
	if rq.Name != nil {
		p.Name = *rq.Name
	}
	if rq.Phone != nil {
		p.Phone = *rq.Phone
	}
	if rq.CompanyDescription != nil {
		p.CompanyDescription = *rq.CompanyDescription
	}
	f.profiles[subjectID] = p
	return p, nil
}

type fakeJobStore struct {
	postings     map[string]job.Posting
	applications map[string]job.Application
	nextID       int
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{postings: map[string]job.Posting{}, applications: map[string]job.Application{}}
}

func (f *fakeJobStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeJobStore) GetCategories() ([]job.Category, error) {
	return []job.Category{{ID: "cat-1", Name: "Technology"}}, nil
}

func (f *fakeJobStore) GetStates() ([]job.State, error) {
	return []job.State{{ID: "state-1", Name: "California", Abbreviation: "CA"}}, nil
}

func (f *fakeJobStore) CreatePosting(employerID string, rq job.PostingRq) (job.Posting, error) {
	p := job.Posting{
		ID:           f.id("post"),
		EmployerID:   employerID,
		Title:        rq.Title,
		Description:  rq.Description,
		Requirements: rq.Requirements,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	f.postings[p.ID] = p
	return p, nil
}

func (f *fakeJobStore) GetPostingByID(id string) (job.Posting, error) {
	p, ok := f.postings[id]
	if !ok {
		return job.Posting{}, job.ErrNotFound
	}
	return p, nil
}

func (f *fakeJobStore) Search(filters job.SearchFilters) ([]job.Posting, error) {
	out := []job.Posting{}
	for _, p := range f.postings {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeJobStore) PostingsByEmployer(employerID string) ([]job.Posting, error) {
	out := []job.Posting{}
	for _, p := range f.postings {
		if p.EmployerID == employerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeJobStore) UpdatePosting(id string, rq job.PostingRqUpdate) (job.Posting, error) {
	p, ok := f.postings[id]
	if !ok {
		return job.Posting{}, job.ErrNotFound
	}
	if rq.Title != nil {
		p.Title = *rq.Title
	}
	if rq.Description != nil {
		p.Description = *rq.Description
	}
	if rq.IsActive != nil {
		p.IsActive = *rq.IsActive
	}
	f.postings[id] = p
	return p, nil
}

func (f *fakeJobStore) DeletePosting(id string) error {
	if _, ok := f.postings[id]; !ok {
		return job.ErrNotFound
	}
	delete(f.postings, id)
	return nil
}

func (f *fakeJobStore) CreateApplication(postingID, seekerID, coverLetter string) (job.Application, error) {
	for _, a := range f.applications {
		if a.JobPostingID == postingID && a.JobSeekerID == seekerID {
			return job.Application{}, job.ErrDuplicateApplication
		}
	}
	posting := f.postings[postingID]
	a := job.Application{
		ID:                f.id("app"),
		JobPostingID:      postingID,
		JobSeekerID:       seekerID,
		Status:            job.StatusApplied,
		CoverLetter:       coverLetter,
		AppliedAt:         time.Now(),
		PostingEmployerID: posting.EmployerID,
	}
	f.applications[a.ID] = a
	return a, nil
}

func (f *fakeJobStore) GetApplicationByID(id string) (job.Application, error) {
	a, ok := f.applications[id]
	if !ok {
		return job.Application{}, job.ErrNotFound
	}
	return a, nil
}

func (f *fakeJobStore) ApplicationsBySeeker(seekerID string) ([]job.Application, error) {
	out := []job.Application{}
	for _, a := range f.applications {
		if a.JobSeekerID == seekerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeJobStore) AppliedPostingIDs(seekerID string) ([]string, error) {
	out := []string{}
	for _, a := range f.applications {
		if a.JobSeekerID == seekerID {
			out = append(out, a.JobPostingID)
		}
	}
	return out, nil
}

func (f *fakeJobStore) ApplicationsForEmployer(employerID string) ([]job.Application, error) {
	out := []job.Application{}
	for _, a := range f.applications {
		if a.PostingEmployerID == employerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeJobStore) UpdateApplication(id string, rq job.ApplicationRqUpdate) (job.Application, error) {
	a, ok := f.applications[id]
	if !ok {
		return job.Application{}, job.ErrNotFound
	}
	if rq.Status != nil {
		a.Status = *rq.Status
	}
	if rq.CoverLetter != nil {
		a.CoverLetter = *rq.CoverLetter
	}
	f.applications[id] = a
	return a, nil
}
