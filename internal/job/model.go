package job

import "time"

const (
	StatusApplied   = "applied"
	StatusReviewed  = "reviewed"
	StatusInterview = "interview"
	StatusRejected  = "rejected"
	StatusHired     = "hired"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusApplied, StatusReviewed, StatusInterview, StatusRejected, StatusHired:
		return true
	}
	return false
}

type Posting struct {
	ID                 string    `json:"id"`
	EmployerID         string    `json:"employer_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Requirements       string    `json:"requirements"`
	LocationState      string    `json:"location_state,omitempty"`
	LocationStateName  string    `json:"location_state_name,omitempty"`
	LocationCity       string    `json:"location_city,omitempty"`
	SalaryMin          int64     `json:"salary_min,omitempty"`
	SalaryMax          int64     `json:"salary_max,omitempty"`
	CategoryID         string    `json:"category_id,omitempty"`
	CategoryName       string    `json:"category_name,omitempty"`
	CompanyName        string    `json:"company_name,omitempty"`
	Slug               string    `json:"slug"`
	IsActive           bool      `json:"is_active"`
	ApplicationCount   int       `json:"application_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	CreatedAtHumanised string    `json:"created_at_humanised,omitempty"`
}

type PostingRq struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Requirements  string `json:"requirements"`
	LocationState string `json:"location_state,omitempty"`
	LocationCity  string `json:"location_city,omitempty"`
	SalaryMin     int64  `json:"salary_min,omitempty"`
	SalaryMax     int64  `json:"salary_max,omitempty"`
	CategoryID    string `json:"category_id,omitempty"`
}

type PostingRqUpdate struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Requirements  *string `json:"requirements,omitempty"`
	LocationState *string `json:"location_state,omitempty"`
	LocationCity  *string `json:"location_city,omitempty"`
	SalaryMin     *int64  `json:"salary_min,omitempty"`
	SalaryMax     *int64  `json:"salary_max,omitempty"`
	CategoryID    *string `json:"category_id,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// SearchFilters narrow the public posting listing. All filtering, ordering
// and pagination happens in SQL, never in the handler.
type SearchFilters struct {
	CategoryID string
	StateID    string
	City       string
	Search     string
	SalaryMin  int64
	SalaryMax  int64
	Limit      int
	Offset     int
}

type Application struct {
	ID           string    `json:"id"`
	JobPostingID string    `json:"job_posting_id"`
	JobSeekerID  string    `json:"job_seeker_id"`
	Status       string    `json:"status"`
	CoverLetter  string    `json:"cover_letter,omitempty"`
	AppliedAt    time.Time `json:"applied_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	JobTitle     string    `json:"job_title,omitempty"`
	CompanyName  string    `json:"company_name,omitempty"`
	SeekerName   string    `json:"seeker_name,omitempty"`
	// owning employer of the referenced posting, used for ownership checks
	PostingEmployerID string `json:"-"`
}

type ApplicationRq struct {
	CoverLetter string `json:"cover_letter,omitempty"`
}

type ApplicationRqUpdate struct {
	Status      *string `json:"status,omitempty"`
	CoverLetter *string `json:"cover_letter,omitempty"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type State struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// Store is what the handlers need from the posting/application layer.
type Store interface {
	GetCategories() ([]Category, error)
	GetStates() ([]State, error)
	CreatePosting(employerID string, rq PostingRq) (Posting, error)
	GetPostingByID(id string) (Posting, error)
	Search(filters SearchFilters) ([]Posting, error)
	PostingsByEmployer(employerID string) ([]Posting, error)
	UpdatePosting(id string, rq PostingRqUpdate) (Posting, error)
	DeletePosting(id string) error
	CreateApplication(postingID, seekerID, coverLetter string) (Application, error)
	GetApplicationByID(id string) (Application, error)
	ApplicationsBySeeker(seekerID string) ([]Application, error)
	AppliedPostingIDs(seekerID string) ([]string, error)
	ApplicationsForEmployer(employerID string) ([]Application, error)
	UpdateApplication(id string, rq ApplicationRqUpdate) (Application, error)
}
