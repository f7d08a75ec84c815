package service

import (
	"context"

	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/progress"
	"github.com/alexanderramin/edutrack/internal/repository"
)

type progressService struct {
	courses repository.CourseRepo
}

func NewProgressService(courses repository.CourseRepo) ProgressService {
	return &progressService{courses: courses}
}

func (s *progressService) Progress(ctx context.Context, ref string) (*CourseProgress, error) {
	c, err := resolveCourse(ctx, s.courses, ref)
	if err != nil {
		return nil, err
	}
	return courseProgress(c), nil
}

func courseProgress(c *domain.Course) *CourseProgress {
	out := &CourseProgress{
		Course: c,
		Total:  progress.Count(c.Lessons()),
	}
	for _, lp := range lessonPaths(c) {
		lp.Progress = progress.CountWithoutSubtasks([]*domain.Lesson{lp.Lesson})
		out.Lessons = append(out.Lessons, lp)
	}
	return out
}
