package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/repository"
)

// resolveCourse finds a course by name, then by ID, and loads its tree.
func resolveCourse(ctx context.Context, courses repository.CourseRepo, ref string) (*domain.Course, error) {
	c, err := courses.GetByName(ctx, ref)
	if errors.Is(err, repository.ErrNotFound) {
		c, err = courses.GetByID(ctx, ref)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("course %q: %w", ref, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return courses.LoadTree(ctx, c.ID)
}

// lessonPaths returns each lesson of c with its course-relative path.
func lessonPaths(c *domain.Course) []LessonProgress {
	var out []LessonProgress
	for _, item := range c.Items {
		switch it := item.(type) {
		case *domain.Section:
			for _, l := range it.Lessons {
				out = append(out, LessonProgress{Path: it.Name + "/" + l.Name, Lesson: l})
			}
		case *domain.Lesson:
			out = append(out, LessonProgress{Path: it.Name, Lesson: it})
		}
	}
	return out
}
