package job

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"github.com/segmentio/ksuid"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateApplication = errors.New("already applied to this job posting")
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) GetCategories() ([]Category, error) {
	rows, err := r.db.Query(`SELECT id, name, description, created_at FROM job_category ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	categories := []Category{}
	for rows.Next() {
		c := Category{}
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *Repository) GetStates() ([]State, error) {
	rows, err := r.db.Query(`SELECT id, name, abbreviation FROM us_state ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	states := []State{}
	for rows.Next() {
		s := State{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Abbreviation); err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, rows.Err()
}

func (r *Repository) CreatePosting(employerID string, rq PostingRq) (Posting, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return Posting{}, err
	}
	now := time.Now().UTC()
	postingSlug := slug.Make(fmt.Sprintf("%s %d", rq.Title, now.UnixNano()))
	_, err = r.db.Exec(`INSERT INTO job_posting (id, employer_id, title, description, requirements, location_state, location_city, salary_min, salary_max, category_id, slug, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE, $12, $12)`,
		id.String(), employerID, rq.Title, rq.Description, rq.Requirements, nullable(rq.LocationState), nullable(rq.LocationCity), nullableInt(rq.SalaryMin), nullableInt(rq.SalaryMax), nullable(rq.CategoryID), postingSlug, now)
	if err != nil {
		return Posting{}, err
	}
	return r.GetPostingByID(id.String())
}

const postingSelect = `SELECT j.id, j.employer_id, j.title, j.description, j.requirements, j.location_state, st.name, j.location_city, j.salary_min, j.salary_max, j.category_id, c.name, e.company_name, j.slug, j.is_active, j.created_at, j.updated_at,
	(SELECT COUNT(*) FROM job_application a WHERE a.job_posting_id = j.id)
FROM job_posting j
LEFT JOIN us_state st ON j.location_state = st.id
LEFT JOIN job_category c ON j.category_id = c.id
LEFT JOIN user_profile e ON j.employer_id = e.id`

func (r *Repository) GetPostingByID(id string) (Posting, error) {
	row := r.db.QueryRow(postingSelect+` WHERE j.id = $1`, id)
	p, err := scanPosting(row.Scan)
	if err == sql.ErrNoRows {
		return Posting{}, ErrNotFound
	}
	return p, err
}

// Search returns active postings matching the filters. Pagination and
// ordering are pushed down to postgres.
func (r *Repository) Search(filters SearchFilters) ([]Posting, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	rows, err := r.db.Query(postingSelect+`
WHERE j.is_active = TRUE
	AND ($1 = '' OR j.category_id = $1)
	AND ($2 = '' OR j.location_state = $2)
	AND ($3 = '' OR j.location_city ILIKE '%' || $3 || '%')
	AND ($4::bigint = 0 OR j.salary_min >= $4)
	AND ($5::bigint = 0 OR j.salary_max <= $5)
	AND ($6 = '' OR j.title ILIKE '%' || $6 || '%' OR j.description ILIKE '%' || $6 || '%')
ORDER BY j.created_at DESC
LIMIT $7 OFFSET $8`,
		filters.CategoryID, filters.StateID, filters.City, filters.SalaryMin, filters.SalaryMax, filters.Search, filters.Limit, filters.Offset)
	if err != nil {
		return nil, err
	}
	return collectPostings(rows)
}

func (r *Repository) PostingsByEmployer(employerID string) ([]Posting, error) {
	rows, err := r.db.Query(postingSelect+` WHERE j.employer_id = $1 ORDER BY j.created_at DESC`, employerID)
	if err != nil {
		return nil, err
	}
	return collectPostings(rows)
}

// UpdatePosting applies a partial update, nil fields keep their current
// value. Ownership is checked by the caller before this point.
func (r *Repository) UpdatePosting(id string, rq PostingRqUpdate) (Posting, error) {
	res, err := r.db.Exec(`UPDATE job_posting SET
	title = COALESCE($2, title),
	description = COALESCE($3, description),
	requirements = COALESCE($4, requirements),
	location_state = COALESCE($5, location_state),
	location_city = COALESCE($6, location_city),
	salary_min = COALESCE($7, salary_min),
	salary_max = COALESCE($8, salary_max),
	category_id = COALESCE($9, category_id),
	is_active = COALESCE($10, is_active),
	updated_at = $11
WHERE id = $1`,
		id, rq.Title, rq.Description, rq.Requirements, rq.LocationState, rq.LocationCity, rq.SalaryMin, rq.SalaryMax, rq.CategoryID, rq.IsActive, time.Now().UTC())
	if err != nil {
		return Posting{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Posting{}, err
	}
	if affected == 0 {
		return Posting{}, ErrNotFound
	}
	return r.GetPostingByID(id)
}

func (r *Repository) DeletePosting(id string) error {
	res, err := r.db.Exec(`DELETE FROM job_posting WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateApplication inserts one application per (posting, seeker) pair. The
// unique constraint is the authoritative guard, a concurrent duplicate
// surfaces here as ErrDuplicateApplication no matter who wins the race.
func (r *Repository) CreateApplication(postingID, seekerID, coverLetter string) (Application, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return Application{}, err
	}
	now := time.Now().UTC()
	_, err = r.db.Exec(`INSERT INTO job_application (id, job_posting_id, job_seeker_id, status, cover_letter, applied_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		id.String(), postingID, seekerID, StatusApplied, nullable(coverLetter), now)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return Application{}, ErrDuplicateApplication
		}
		return Application{}, err
	}
	return r.GetApplicationByID(id.String())
}

const applicationSelect = `SELECT a.id, a.job_posting_id, a.job_seeker_id, a.status, a.cover_letter, a.applied_at, a.updated_at, j.title, e.company_name, s.name, j.employer_id
FROM job_application a
JOIN job_posting j ON a.job_posting_id = j.id
LEFT JOIN user_profile e ON j.employer_id = e.id
LEFT JOIN user_profile s ON a.job_seeker_id = s.id`

func (r *Repository) GetApplicationByID(id string) (Application, error) {
	row := r.db.QueryRow(applicationSelect+` WHERE a.id = $1`, id)
	a, err := scanApplication(row.Scan)
	if err == sql.ErrNoRows {
		return Application{}, ErrNotFound
	}
	return a, err
}

func (r *Repository) ApplicationsBySeeker(seekerID string) ([]Application, error) {
	rows, err := r.db.Query(applicationSelect+` WHERE a.job_seeker_id = $1 ORDER BY a.applied_at DESC`, seekerID)
	if err != nil {
		return nil, err
	}
	return collectApplications(rows)
}

func (r *Repository) AppliedPostingIDs(seekerID string) ([]string, error) {
	rows, err := r.db.Query(`SELECT job_posting_id FROM job_application WHERE job_seeker_id = $1`, seekerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repository) ApplicationsForEmployer(employerID string) ([]Application, error) {
	rows, err := r.db.Query(applicationSelect+` WHERE j.employer_id = $1 ORDER BY a.applied_at DESC`, employerID)
	if err != nil {
		return nil, err
	}
	return collectApplications(rows)
}

func (r *Repository) UpdateApplication(id string, rq ApplicationRqUpdate) (Application, error) {
	res, err := r.db.Exec(`UPDATE job_application SET
	status = COALESCE($2, status),
	cover_letter = COALESCE($3, cover_letter),
	updated_at = $4
WHERE id = $1`,
		id, rq.Status, rq.CoverLetter, time.Now().UTC())
	if err != nil {
		return Application{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Application{}, err
	}
	if affected == 0 {
		return Application{}, ErrNotFound
	}
	return r.GetApplicationByID(id)
}

func scanPosting(scan func(dest ...interface{}) error) (Posting, error) {
	p := Posting{}
	var locationState, stateName, locationCity, categoryID, categoryName, companyName sql.NullString
	var salaryMin, salaryMax sql.NullInt64
	err := scan(&p.ID, &p.EmployerID, &p.Title, &p.Description, &p.Requirements, &locationState, &stateName, &locationCity, &salaryMin, &salaryMax, &categoryID, &categoryName, &companyName, &p.Slug, &p.IsActive, &p.CreatedAt, &p.UpdatedAt, &p.ApplicationCount)
	if err != nil {
		return Posting{}, err
	}
	p.LocationState = locationState.String
	p.LocationStateName = stateName.String
	p.LocationCity = locationCity.String
	p.SalaryMin = salaryMin.Int64
	p.SalaryMax = salaryMax.Int64
	p.CategoryID = categoryID.String
	p.CategoryName = categoryName.String
	p.CompanyName = companyName.String
	p.CreatedAtHumanised = humanize.Time(p.CreatedAt)
	return p, nil
}

func collectPostings(rows *sql.Rows) ([]Posting, error) {
	defer rows.Close()
	postings := []Posting{}
	for rows.Next() {
		p, err := scanPosting(rows.Scan)
		if err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}
	return postings, rows.Err()
}

func scanApplication(scan func(dest ...interface{}) error) (Application, error) {
	a := Application{}
	var coverLetter, companyName, seekerName sql.NullString
	err := scan(&a.ID, &a.JobPostingID, &a.JobSeekerID, &a.Status, &coverLetter, &a.AppliedAt, &a.UpdatedAt, &a.JobTitle, &companyName, &seekerName, &a.PostingEmployerID)
	if err != nil {
		return Application{}, err
	}
	a.CoverLetter = coverLetter.String
	a.CompanyName = companyName.String
	a.SeekerName = seekerName.String
	return a, nil
}

func collectApplications(rows *sql.Rows) ([]Application, error) {
	defer rows.Close()
	applications := []Application{}
	for rows.Next() {
		a, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, err
		}
		applications = append(applications, a)
	}
	return applications, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableInt(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}
