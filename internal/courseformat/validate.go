package courseformat

import (
	"fmt"
	"unicode/utf8"

	"github.com/alexanderramin/edutrack/internal/domain"
)

// ValidateTree checks a parsed course for errors before conversion and
// returns all of them.
func ValidateTree(tree *Tree) []error {
	var errs []error

	if tree.Course.Title == "" {
		errs = append(errs, fmt.Errorf("%s: title is required", CourseInfoFile))
	}
	if tree.Course.ProgrammingLanguage == "" {
		errs = append(errs, fmt.Errorf("%s: programming_language is required", CourseInfoFile))
	}
	if m := tree.Course.Mode; m != "" && m != string(domain.ModeStudy) && m != string(domain.ModeCourseCreator) {
		errs = append(errs, fmt.Errorf("%s: mode: invalid value %q", CourseInfoFile, m))
	}
	errs = append(errs, validateNames("content", names(tree.Items))...)

	for _, item := range tree.Items {
		switch item.Kind {
		case ItemMissing:
			errs = append(errs, fmt.Errorf("content %q: no %s or %s", item.Name, SectionInfoFile, LessonInfoFile))
		case ItemSection:
			errs = append(errs, validateNames(item.Name+": content", names(item.Lessons))...)
			for _, lesson := range item.Lessons {
				prefix := item.Name + "/" + lesson.Name
				if lesson.Kind != ItemLesson {
					errs = append(errs, fmt.Errorf("%s: no %s", prefix, LessonInfoFile))
					continue
				}
				errs = append(errs, validateLesson(prefix, lesson)...)
			}
		case ItemLesson:
			errs = append(errs, validateLesson(item.Name, item)...)
		}
	}
	return errs
}

func validateLesson(prefix string, lesson *ItemNode) []error {
	var errs []error
	taskNames := make([]string, 0, len(lesson.Tasks))
	for _, t := range lesson.Tasks {
		taskNames = append(taskNames, t.Name)
	}
	errs = append(errs, validateNames(prefix+": content", taskNames)...)
	for _, t := range lesson.Tasks {
		errs = append(errs, validateTask(prefix+"/"+t.Name, t)...)
	}
	return errs
}

func validateTask(prefix string, t *TaskNode) []error {
	if t.Info == nil {
		return []error{fmt.Errorf("%s: no %s", prefix, TaskInfoFile)}
	}
	var errs []error

	if !domain.ValidTaskKinds[t.Info.Type] {
		errs = append(errs, fmt.Errorf("%s: type: invalid value %q", prefix, t.Info.Type))
	}
	if t.Info.Type == string(domain.TaskSubtasks) && t.Info.Subtasks < 1 {
		errs = append(errs, fmt.Errorf("%s: subtasks must be positive for type %q", prefix, t.Info.Type))
	}

	seen := make(map[string]bool, len(t.Info.Files))
	for i, f := range t.Info.Files {
		fp := fmt.Sprintf("%s: files[%d]", prefix, i)
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", fp))
			continue
		}
		if err := domain.CheckFileName(f.Name); err != nil {
			errs = append(errs, fmt.Errorf("%s.name: %w", fp, err))
			continue
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate file %q", fp, f.Name))
			continue
		}
		seen[f.Name] = true

		text, ok := t.Texts[f.Name]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: file %q not found", fp, f.Name))
			continue
		}
		size := utf8.RuneCountInString(text)
		for j, p := range f.Placeholders {
			if p.Offset < 0 || p.Length < 0 || p.Offset+p.Length > size {
				errs = append(errs, fmt.Errorf("%s.placeholders[%d]: range [%d,%d) outside file of length %d",
					fp, j, p.Offset, p.Offset+p.Length, size))
			}
			if t.Info.Type == string(domain.TaskSubtasks) && p.Subtask >= t.Info.Subtasks {
				errs = append(errs, fmt.Errorf("%s.placeholders[%d].subtask: %d out of range", fp, j, p.Subtask))
			}
		}
	}
	for i, name := range t.Info.AdditionalFiles {
		fp := fmt.Sprintf("%s: additional_files[%d]", prefix, i)
		if err := domain.CheckFileName(name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", fp, err))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("%s: %q is already listed", fp, name))
			continue
		}
		seen[name] = true
		if _, ok := t.Texts[name]; !ok {
			errs = append(errs, fmt.Errorf("%s: file %q not found", fp, name))
		}
	}
	return errs
}

func validateNames(prefix string, list []string) []error {
	var errs []error
	seen := make(map[string]bool, len(list))
	for i, n := range list {
		if n == "" {
			errs = append(errs, fmt.Errorf("%s[%d]: empty name", prefix, i))
			continue
		}
		if err := domain.CheckItemName(n); err != nil {
			errs = append(errs, fmt.Errorf("%s[%d]: %w", prefix, i, err))
			continue
		}
		if seen[n] {
			errs = append(errs, fmt.Errorf("%s[%d]: duplicate name %q", prefix, i, n))
		}
		seen[n] = true
	}
	return errs
}

func names(items []*ItemNode) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}
