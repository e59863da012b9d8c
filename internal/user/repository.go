package user

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/segmentio/ksuid"
)

var ErrNotFound = errors.New("user profile not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const profileSelect = `SELECT p.id, p.subject_id, p.role, p.name, p.email, p.phone, p.location_state, st.name, p.location_city, p.skills, p.resume_url, p.company_name, p.company_description, p.created_at, p.updated_at
FROM user_profile p
LEFT JOIN us_state st ON p.location_state = st.id`

func (r *Repository) GetBySubjectID(subjectID string) (Profile, error) {
	row := r.db.QueryRow(profileSelect+` WHERE p.subject_id = $1`, subjectID)
	return scanProfile(row)
}

// Upsert creates the profile on first submission and updates it afterwards.
// The unique constraint on subject_id keeps it to one row per subject even
// when two first submissions race.
func (r *Repository) Upsert(subjectID string, rq ProfileRq) (Profile, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return Profile{}, err
	}
	now := time.Now().UTC()
	skills := rq.Skills
	if skills == nil {
		skills = []string{}
	}
	_, err = r.db.Exec(`INSERT INTO user_profile (id, subject_id, role, name, email, phone, location_state, location_city, skills, resume_url, company_name, company_description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
ON CONFLICT (subject_id) DO UPDATE SET
	role = EXCLUDED.role,
	name = EXCLUDED.name,
	email = EXCLUDED.email,
	phone = EXCLUDED.phone,
	location_state = EXCLUDED.location_state,
	location_city = EXCLUDED.location_city,
	skills = EXCLUDED.skills,
	resume_url = EXCLUDED.resume_url,
	company_name = EXCLUDED.company_name,
	company_description = EXCLUDED.company_description,
	updated_at = EXCLUDED.updated_at`,
		id.String(), subjectID, rq.Role, rq.Name, rq.Email, nullable(rq.Phone), nullable(rq.LocationState), nullable(rq.LocationCity), pq.Array(skills), nullable(rq.ResumeURL), nullable(rq.CompanyName), nullable(rq.CompanyDescription), now)
	if err != nil {
		return Profile{}, err
	}
	return r.GetBySubjectID(subjectID)
}

// Update applies a partial update, nil fields keep their current value.
func (r *Repository) Update(subjectID string, rq ProfileRqUpdate) (Profile, error) {
	var skills interface{}
	if rq.Skills != nil {
		skills = pq.Array(rq.Skills)
	}
	res, err := r.db.Exec(`UPDATE user_profile SET
	name = COALESCE($2, name),
	phone = COALESCE($3, phone),
	location_state = COALESCE($4, location_state),
	location_city = COALESCE($5, location_city),
	skills = COALESCE($6, skills),
	resume_url = COALESCE($7, resume_url),
	company_name = COALESCE($8, company_name),
	company_description = COALESCE($9, company_description),
	updated_at = $10
WHERE subject_id = $1`,
		subjectID, rq.Name, rq.Phone, rq.LocationState, rq.LocationCity, skills, rq.ResumeURL, rq.CompanyName, rq.CompanyDescription, time.Now().UTC())
	if err != nil {
		return Profile{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Profile{}, err
	}
	if affected == 0 {
		return Profile{}, ErrNotFound
	}
	return r.GetBySubjectID(subjectID)
}

func scanProfile(row *sql.Row) (Profile, error) {
	p := Profile{}
	var phone, locationState, stateName, locationCity, resumeURL, companyName, companyDescription sql.NullString
	err := row.Scan(&p.ID, &p.SubjectID, &p.Role, &p.Name, &p.Email, &phone, &locationState, &stateName, &locationCity, (*pq.StringArray)(&p.Skills), &resumeURL, &companyName, &companyDescription, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	p.Phone = phone.String
	p.LocationState = locationState.String
	p.LocationStateName = stateName.String
	p.LocationCity = locationCity.String
	p.ResumeURL = resumeURL.String
	p.CompanyName = companyName.String
	p.CompanyDescription = companyDescription.String
	return p, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
