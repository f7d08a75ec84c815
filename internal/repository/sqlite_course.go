package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/edutrack/internal/db"
	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/google/uuid"
)

// SQLiteCourseRepo implements CourseRepo using a SQLite database.
type SQLiteCourseRepo struct {
	db db.DBTX
}

// NewSQLiteCourseRepo creates a new SQLiteCourseRepo. conn may be a *sql.DB
// or a transaction from a UnitOfWork.
func NewSQLiteCourseRepo(conn db.DBTX) *SQLiteCourseRepo {
	return &SQLiteCourseRepo{db: conn}
}

// updateDateLayout keeps the zone offset the remote platform sent.
const updateDateLayout = time.RFC3339

const courseColumns = `id, name, summary, language, human_language, mode, course_dir,
	remote_id, is_public, is_adaptive, is_idea_compatible, update_date, section_ids,
	created_at, updated_at`

func (r *SQLiteCourseRepo) SaveTree(ctx context.Context, c *domain.Course) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Mode == "" {
		c.Mode = domain.ModeStudy
	}

	query := `INSERT INTO courses (` + courseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Summary, c.Language, c.HumanLanguage, string(c.Mode), c.Dir,
		c.Remote.ID,
		boolToInt(c.Remote.IsPublic),
		boolToInt(c.Remote.IsAdaptive),
		boolToInt(c.Remote.IsIdeaCompatible),
		nullableTimeToString(c.Remote.UpdateDate, updateDateLayout),
		encodeIDs(c.Remote.SectionIDs),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}

	for i, item := range c.Items {
		switch it := item.(type) {
		case *domain.Section:
			it.Index = i + 1
			if err := r.insertSection(ctx, c.ID, it); err != nil {
				return err
			}
		case *domain.Lesson:
			it.Index = i + 1
			if err := r.insertLesson(ctx, c.ID, nil, it); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *SQLiteCourseRepo) insertSection(ctx context.Context, courseID string, s *domain.Section) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sections (id, course_id, name, item_index, remote_id) VALUES (?, ?, ?, ?, ?)`,
		s.ID, courseID, s.Name, s.Index, s.RemoteID)
	if err != nil {
		return fmt.Errorf("inserting section %q: %w", s.Name, err)
	}
	for i, l := range s.Lessons {
		l.Index = i + 1
		if err := r.insertLesson(ctx, courseID, &s.ID, l); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteCourseRepo) insertLesson(ctx context.Context, courseID string, sectionID *string, l *domain.Lesson) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	var section interface{}
	if sectionID != nil {
		section = *sectionID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lessons (id, course_id, section_id, name, item_index, remote_id) VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, courseID, section, l.Name, l.Index, l.RemoteID)
	if err != nil {
		return fmt.Errorf("inserting lesson %q: %w", l.Name, err)
	}
	files := NewSQLiteTaskFileRepo(r.db)
	for i, t := range l.Tasks {
		t.Index = i + 1
		if err := r.insertTask(ctx, l.ID, t); err != nil {
			return err
		}
		if err := insertTaskFiles(ctx, files, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteCourseRepo) insertTask(ctx context.Context, lessonID string, t *domain.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Kind == "" {
		t.Kind = domain.TaskEdu
	}
	if t.Status == "" {
		t.Status = domain.StatusUnchecked
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, lesson_id, name, task_index, remote_id, kind, status, description,
			active_subtask_index, last_subtask_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, lessonID, t.Name, t.Index, t.RemoteID, string(t.Kind), string(t.Status), t.Description,
		t.ActiveSubtaskIndex, t.LastSubtaskIndex)
	if err != nil {
		return fmt.Errorf("inserting task %q: %w", t.Name, err)
	}
	return nil
}

func insertTaskFiles(ctx context.Context, files *SQLiteTaskFileRepo, t *domain.Task) error {
	for _, path := range sortedKeys(t.Files) {
		if _, err := files.Insert(ctx, t.ID, domain.KindTaskFile, t.Files[path]); err != nil {
			return err
		}
	}
	for _, path := range sortedKeys(t.TestsText) {
		tf := &domain.TaskFile{Name: path, Text: t.TestsText[path]}
		if _, err := files.Insert(ctx, t.ID, domain.KindTestFile, tf); err != nil {
			return err
		}
	}
	for _, path := range sortedKeys(t.AdditionalFiles) {
		tf := &domain.TaskFile{Name: path, Text: t.AdditionalFiles[path]}
		if _, err := files.Insert(ctx, t.ID, domain.KindAdditionalFile, tf); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *SQLiteCourseRepo) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	return scanCourse(row)
}

func (r *SQLiteCourseRepo) GetByName(ctx context.Context, name string) (*domain.Course, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE LOWER(name) = LOWER(?)`, name)
	return scanCourse(row)
}

func (r *SQLiteCourseRepo) List(ctx context.Context) ([]*domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating courses: %w", err)
	}
	return courses, nil
}

func (r *SQLiteCourseRepo) Update(ctx context.Context, c *domain.Course) error {
	c.UpdatedAt = time.Now().UTC()
	query := `UPDATE courses SET name = ?, summary = ?, language = ?, human_language = ?, mode = ?,
		course_dir = ?, remote_id = ?, is_public = ?, is_adaptive = ?, is_idea_compatible = ?,
		update_date = ?, section_ids = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Name, c.Summary, c.Language, c.HumanLanguage, string(c.Mode), c.Dir,
		c.Remote.ID,
		boolToInt(c.Remote.IsPublic),
		boolToInt(c.Remote.IsAdaptive),
		boolToInt(c.Remote.IsIdeaCompatible),
		nullableTimeToString(c.Remote.UpdateDate, updateDateLayout),
		encodeIDs(c.Remote.SectionIDs),
		c.UpdatedAt.Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("course %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteCourseRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}
	return nil
}

func (r *SQLiteCourseRepo) LoadTree(ctx context.Context, id string) (*domain.Course, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sections, err := r.loadSections(ctx, id)
	if err != nil {
		return nil, err
	}
	lessons, err := r.loadLessons(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks := NewSQLiteTaskRepo(r.db)
	for _, ls := range lessons {
		if ls.lesson.Tasks, err = tasks.ListByLesson(ctx, ls.lesson.ID); err != nil {
			return nil, err
		}
	}

	type indexed struct {
		index int
		item  domain.StudyItem
	}
	var items []indexed
	bySection := make(map[string]*domain.Section, len(sections))
	for _, s := range sections {
		bySection[s.ID] = s
		items = append(items, indexed{s.Index, s})
	}
	for _, ls := range lessons {
		if ls.sectionID.Valid {
			if s, ok := bySection[ls.sectionID.String]; ok {
				s.Lessons = append(s.Lessons, ls.lesson)
			}
			continue
		}
		items = append(items, indexed{ls.lesson.Index, ls.lesson})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].index < items[j].index })
	for _, it := range items {
		c.Items = append(c.Items, it.item)
	}
	return c, nil
}

func (r *SQLiteCourseRepo) loadSections(ctx context.Context, courseID string) ([]*domain.Section, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, item_index, remote_id FROM sections WHERE course_id = ? ORDER BY item_index`, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	defer rows.Close()

	var out []*domain.Section
	for rows.Next() {
		var s domain.Section
		if err := rows.Scan(&s.ID, &s.Name, &s.Index, &s.RemoteID); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

type lessonRow struct {
	lesson    *domain.Lesson
	sectionID sql.NullString
}

func (r *SQLiteCourseRepo) loadLessons(ctx context.Context, courseID string) ([]lessonRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, section_id, name, item_index, remote_id FROM lessons WHERE course_id = ? ORDER BY item_index`, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing lessons: %w", err)
	}
	defer rows.Close()

	var out []lessonRow
	for rows.Next() {
		var l domain.Lesson
		var sectionID sql.NullString
		if err := rows.Scan(&l.ID, &sectionID, &l.Name, &l.Index, &l.RemoteID); err != nil {
			return nil, fmt.Errorf("scanning lesson: %w", err)
		}
		out = append(out, lessonRow{lesson: &l, sectionID: sectionID})
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*domain.Course, error) {
	var c domain.Course
	var mode, sectionIDs, createdAt, updatedAt string
	var isPublic, isAdaptive, isCompatible int
	var updateDate sql.NullString

	err := row.Scan(
		&c.ID, &c.Name, &c.Summary, &c.Language, &c.HumanLanguage, &mode, &c.Dir,
		&c.Remote.ID, &isPublic, &isAdaptive, &isCompatible, &updateDate, &sectionIDs,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("course: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning course: %w", err)
	}

	c.Mode = domain.CourseMode(mode)
	c.Remote.IsPublic = intToBool(isPublic)
	c.Remote.IsAdaptive = intToBool(isAdaptive)
	c.Remote.IsIdeaCompatible = intToBool(isCompatible)
	c.Remote.UpdateDate = parseNullableTime(updateDate, updateDateLayout)
	c.Remote.SectionIDs = decodeIDs(sectionIDs)

	var parseErr error
	if c.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt); parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	if c.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt); parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &c, nil
}
