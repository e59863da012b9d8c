package user

import "time"

type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleEmployer  Role = "employer"
)

func (r Role) Valid() bool {
	return r == RoleJobSeeker || r == RoleEmployer
}

type Profile struct {
	ID                 string    `json:"id"`
	SubjectID          string    `json:"user_id"`
	Role               Role      `json:"role"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	LocationState      string    `json:"location_state,omitempty"`
	LocationStateName  string    `json:"location_state_name,omitempty"`
	LocationCity       string    `json:"location_city,omitempty"`
	Skills             []string  `json:"skills"`
	ResumeURL          string    `json:"resume_url,omitempty"`
	CompanyName        string    `json:"company_name,omitempty"`
	CompanyDescription string    `json:"company_description,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ProfileRq struct {
	Role               string   `json:"role"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone,omitempty"`
	LocationState      string   `json:"location_state,omitempty"`
	LocationCity       string   `json:"location_city,omitempty"`
	Skills             []string `json:"skills,omitempty"`
	ResumeURL          string   `json:"resume_url,omitempty"`
	CompanyName        string   `json:"company_name,omitempty"`
	CompanyDescription string   `json:"company_description,omitempty"`
}

// ProfileRqUpdate is a partial update, nil fields are left untouched. There is
// deliberately no role field, a profile's role never changes after creation.
type ProfileRqUpdate struct {
	Name               *string  `json:"name,omitempty"`
	Phone              *string  `json:"phone,omitempty"`
	LocationState      *string  `json:"location_state,omitempty"`
	LocationCity       *string  `json:"location_city,omitempty"`
	Skills             []string `json:"skills,omitempty"`
	ResumeURL          *string  `json:"resume_url,omitempty"`
	CompanyName        *string  `json:"company_name,omitempty"`
	CompanyDescription *string  `json:"company_description,omitempty"`
}

// Store is what handlers and middleware need from the profile layer.
type Store interface {
	GetBySubjectID(subjectID string) (Profile, error)
	Upsert(subjectID string, rq ProfileRq) (Profile, error)
	Update(subjectID string, rq ProfileRqUpdate) (Profile, error)
}
