package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsafeName is returned for item or file names that would resolve
// outside the directory they are written into.
var ErrUnsafeName = errors.New("unsafe name")

// CheckItemName accepts a section, lesson or task name only when it is a
// single local path element.
func CheckItemName(name string) error {
	if name == "" || name == "." || strings.ContainsAny(name, `/\`) || !filepath.IsLocal(name) {
		return fmt.Errorf("%w: item %q", ErrUnsafeName, name)
	}
	return nil
}

// CheckFileName accepts a slash-separated task file path only when it stays
// inside the task directory.
func CheckFileName(name string) error {
	if name == "" || !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("%w: file %q", ErrUnsafeName, name)
	}
	return nil
}

// CheckNames validates the task name and every task, test and additional
// file name.
func (t *Task) CheckNames() error {
	if err := CheckItemName(t.Name); err != nil {
		return err
	}
	for _, group := range [][]string{keys(t.Files), keys(t.TestsText), keys(t.AdditionalFiles)} {
		for _, name := range group {
			if err := CheckFileName(name); err != nil {
				return fmt.Errorf("task %q: %w", t.Name, err)
			}
		}
	}
	return nil
}

// CheckNames validates every item, task and file name in the course tree.
func (c *Course) CheckNames() error {
	for _, item := range c.Items {
		switch it := item.(type) {
		case *Section:
			if err := CheckItemName(it.Name); err != nil {
				return err
			}
			for _, l := range it.Lessons {
				if err := l.CheckNames(); err != nil {
					return fmt.Errorf("section %q: %w", it.Name, err)
				}
			}
		case *Lesson:
			if err := it.CheckNames(); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckNames validates the lesson name and all of its tasks.
func (l *Lesson) CheckNames() error {
	if err := CheckItemName(l.Name); err != nil {
		return err
	}
	for _, t := range l.Tasks {
		if err := t.CheckNames(); err != nil {
			return fmt.Errorf("lesson %q: %w", l.Name, err)
		}
	}
	return nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
