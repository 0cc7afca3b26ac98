package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"profile-hub/internal/database"
	"profile-hub/internal/domain/profile"

	"github.com/google/uuid"
)

// recordTable implements profile.Repository for one sub-resource table. The
// id, user_id and timestamp columns are shared; fields lists the rest in the
// order scan and values use them.
type recordTable[T profile.Record] struct {
	db     database.DB
	table  string
	fields []string
	scan   func(row database.Row) (T, error)
	values func(rec T) []any
}

func (t recordTable[T]) selectList() string {
	return "id, user_id, " + strings.Join(t.fields, ", ") + ", created_at, updated_at"
}

func (t recordTable[T]) ListByUser(ctx context.Context, userID uuid.UUID) ([]T, error) {
	rows, err := t.db.Query(ctx,
		`SELECT `+t.selectList()+` FROM `+t.table+` WHERE user_id = $1 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (t recordTable[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	rec, err := t.scan(t.db.QueryRow(ctx, `SELECT `+t.selectList()+` FROM `+t.table+` WHERE id = $1`, id))
	if err != nil && isNoRows(err) {
		var zero T
		return zero, profile.ErrRecordNotFound
	}
	return rec, err
}

func (t recordTable[T]) Create(ctx context.Context, rec T) (T, error) {
	vals := t.values(rec)
	cols := append([]string{"id", "user_id"}, t.fields...)
	cols = append(cols, "created_at", "updated_at")

	now := time.Now().UTC()
	args := append([]any{rec.Key(), rec.Owner()}, vals...)
	args = append(args, now, now)

	return t.scan(t.db.QueryRow(ctx,
		`INSERT INTO `+t.table+` (`+strings.Join(cols, ", ")+`) VALUES (`+placeholders(1, len(args))+`)
		 RETURNING `+t.selectList(),
		args...,
	))
}

func (t recordTable[T]) Update(ctx context.Context, rec T) (T, error) {
	sets := make([]string, 0, len(t.fields)+1)
	for i, f := range t.fields {
		sets = append(sets, f+" = $"+strconv.Itoa(i+2))
	}
	sets = append(sets, "updated_at = now()")

	args := append([]any{rec.Key()}, t.values(rec)...)
	out, err := t.scan(t.db.QueryRow(ctx,
		`UPDATE `+t.table+` SET `+strings.Join(sets, ", ")+` WHERE id = $1 RETURNING `+t.selectList(),
		args...,
	))
	if err != nil && isNoRows(err) {
		var zero T
		return zero, profile.ErrRecordNotFound
	}
	return out, err
}

func (t recordTable[T]) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := t.db.Exec(ctx, `DELETE FROM `+t.table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return profile.ErrRecordNotFound
	}
	return nil
}

func (t recordTable[T]) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return t.db.Exec(ctx, `DELETE FROM `+t.table+` WHERE user_id = $1`, userID)
}

func placeholders(from, n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "$" + strconv.Itoa(from+i)
	}
	return strings.Join(ph, ", ")
}

func NewEducationRepository(db database.DB) profile.Repository[profile.Education] {
	return recordTable[profile.Education]{
		db:     db,
		table:  "educations",
		fields: []string{"institute", "degree", "field_of_study", "start_date", "end_date", "certificate"},
		scan: func(row database.Row) (profile.Education, error) {
			var e profile.Education
			var degree *string
			err := row.Scan(&e.ID, &e.UserID, &e.Institute, &degree, &e.FieldOfStudy,
				&e.StartDate, &e.EndDate, &e.Certificate, &e.CreatedAt, &e.UpdatedAt)
			if degree != nil {
				d := profile.Degree(*degree)
				e.Degree = &d
			}
			return e, err
		},
		values: func(e profile.Education) []any {
			var degree *string
			if e.Degree != nil {
				s := string(*e.Degree)
				degree = &s
			}
			return []any{e.Institute, degree, e.FieldOfStudy, e.StartDate, e.EndDate, e.Certificate}
		},
	}
}

func NewExperienceRepository(db database.DB) profile.Repository[profile.Experience] {
	return recordTable[profile.Experience]{
		db:     db,
		table:  "experiences",
		fields: []string{"company", "role", "start_date", "end_date", "description", "certificate"},
		scan: func(row database.Row) (profile.Experience, error) {
			var e profile.Experience
			err := row.Scan(&e.ID, &e.UserID, &e.Company, &e.Role, &e.StartDate, &e.EndDate,
				&e.Description, &e.Certificate, &e.CreatedAt, &e.UpdatedAt)
			return e, err
		},
		values: func(e profile.Experience) []any {
			return []any{e.Company, e.Role, e.StartDate, e.EndDate, e.Description, e.Certificate}
		},
	}
}

func NewSkillRepository(db database.DB) profile.Repository[profile.Skill] {
	return recordTable[profile.Skill]{
		db:     db,
		table:  "skills",
		fields: []string{"name", "level", "certificate"},
		scan: func(row database.Row) (profile.Skill, error) {
			var s profile.Skill
			var level *string
			err := row.Scan(&s.ID, &s.UserID, &s.Name, &level, &s.Certificate, &s.CreatedAt, &s.UpdatedAt)
			if level != nil {
				l := profile.Level(*level)
				s.Level = &l
			}
			return s, err
		},
		values: func(s profile.Skill) []any {
			var level *string
			if s.Level != nil {
				l := string(*s.Level)
				level = &l
			}
			return []any{s.Name, level, s.Certificate}
		},
	}
}

func NewHobbyRepository(db database.DB) profile.Repository[profile.Hobby] {
	return recordTable[profile.Hobby]{
		db:     db,
		table:  "hobbies",
		fields: []string{"name"},
		scan: func(row database.Row) (profile.Hobby, error) {
			var h profile.Hobby
			err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.CreatedAt, &h.UpdatedAt)
			return h, err
		},
		values: func(h profile.Hobby) []any {
			return []any{h.Name}
		},
	}
}
