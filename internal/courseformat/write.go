package courseformat

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/edutrack/internal/configurator"
	"github.com/alexanderramin/edutrack/internal/domain"
)

// ErrDirNotEmpty is returned by Write when the target directory already has
// entries.
var ErrDirNotEmpty = errors.New("directory is not empty")

// Write materializes course under dir: item directories, info files, task
// descriptions and every task, test and additional file. dir must be missing
// or empty. Names that would resolve outside dir are rejected before anything
// is written, and a failed write leaves dir as it was.
func Write(dir string, course *domain.Course) error {
	if err := course.CheckNames(); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("reading %s: %w", dir, err)
	case len(entries) > 0:
		return fmt.Errorf("%s: %w", dir, ErrDirNotEmpty)
	}
	created := err != nil

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating course dir: %w", err)
	}
	if err := writeCourse(dir, course); err != nil {
		return errors.Join(err, removePartial(dir, created))
	}
	return nil
}

// removePartial undoes a failed write into dir.
func removePartial(dir string, created bool) error {
	if created {
		return os.RemoveAll(dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func writeCourse(dir string, course *domain.Course) error {
	info := CourseInfo{
		Title:               course.Name,
		Summary:             course.Summary,
		Language:            course.HumanLanguage,
		ProgrammingLanguage: course.Language,
		Mode:                string(course.Mode),
	}
	for _, item := range course.Items {
		info.Content = append(info.Content, item.ItemName())
	}
	if err := writeYAML(filepath.Join(dir, CourseInfoFile), info); err != nil {
		return err
	}
	if course.Remote.ID != 0 {
		r := RemoteInfo{
			ID:               course.Remote.ID,
			UpdateDate:       course.Remote.UpdateDate,
			IsPublic:         course.Remote.IsPublic,
			IsAdaptive:       course.Remote.IsAdaptive,
			IsIdeaCompatible: course.Remote.IsIdeaCompatible,
			Sections:         course.Remote.SectionIDs,
		}
		if err := writeYAML(filepath.Join(dir, CourseRemoteInfoFile), r); err != nil {
			return err
		}
	}

	conf := configurator.ForLanguage(course.Language)
	for _, item := range course.Items {
		switch it := item.(type) {
		case *domain.Section:
			sub, err := joinItem(dir, it.Name)
			if err != nil {
				return err
			}
			if err := writeSection(sub, conf, it); err != nil {
				return err
			}
		case *domain.Lesson:
			sub, err := joinItem(dir, it.Name)
			if err != nil {
				return err
			}
			if err := writeLesson(sub, conf, it); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSection(dir string, conf *configurator.Configurator, s *domain.Section) error {
	info := ItemInfo{}
	for _, l := range s.Lessons {
		info.Content = append(info.Content, l.Name)
	}
	if err := writeItemInfo(dir, SectionInfoFile, SectionRemoteInfoFile, info, s.RemoteID); err != nil {
		return err
	}
	for _, l := range s.Lessons {
		sub, err := joinItem(dir, l.Name)
		if err != nil {
			return err
		}
		if err := writeLesson(sub, conf, l); err != nil {
			return err
		}
	}
	return nil
}

func writeLesson(dir string, conf *configurator.Configurator, l *domain.Lesson) error {
	info := ItemInfo{}
	for _, t := range l.Tasks {
		info.Content = append(info.Content, t.Name)
	}
	if err := writeItemInfo(dir, LessonInfoFile, LessonRemoteInfoFile, info, l.RemoteID); err != nil {
		return err
	}
	for _, t := range l.Tasks {
		sub, err := joinItem(dir, t.Name)
		if err != nil {
			return err
		}
		if err := writeTask(sub, conf, t); err != nil {
			return err
		}
	}
	return nil
}

func writeItemInfo(dir, infoFile, remoteFile string, info ItemInfo, remoteID int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := writeYAML(filepath.Join(dir, infoFile), info); err != nil {
		return err
	}
	if remoteID != 0 {
		return writeYAML(filepath.Join(dir, remoteFile), RemoteInfo{ID: remoteID})
	}
	return nil
}

func writeTask(dir string, conf *configurator.Configurator, t *domain.Task) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	info := TaskInfo{Type: string(t.Kind), AdditionalFiles: additionalFilesToPin(conf, t)}
	if t.HasSubtasks() {
		info.Subtasks = t.LastSubtaskIndex + 1
	}
	for _, name := range sortedKeys(t.Files) {
		tf := t.Files[name]
		entry := FileEntry{Name: name}
		if !tf.Visible {
			hidden := false
			entry.Visible = &hidden
		}
		for _, p := range tf.Placeholders {
			entry.Placeholders = append(entry.Placeholders, PlaceholderEntry{
				Offset:          p.Offset,
				Length:          p.Length,
				PlaceholderText: p.PlaceholderText,
				Subtask:         p.SubtaskIndex,
			})
		}
		info.Files = append(info.Files, entry)
		if err := writeFile(dir, name, tf.Text); err != nil {
			return err
		}
	}
	if err := writeYAML(filepath.Join(dir, TaskInfoFile), info); err != nil {
		return err
	}
	if t.RemoteID != 0 {
		if err := writeYAML(filepath.Join(dir, TaskRemoteInfoFile), RemoteInfo{ID: t.RemoteID}); err != nil {
			return err
		}
	}
	if t.Description != "" {
		if err := writeFile(dir, DescriptionFile, t.Description); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(t.TestsText) {
		if err := writeFile(dir, name, t.TestsText[name]); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(t.AdditionalFiles) {
		if err := writeFile(dir, name, t.AdditionalFiles[name]); err != nil {
			return err
		}
	}
	return nil
}

// additionalFilesToPin lists additional files the classifier would not
// recognize as additional on reload.
func additionalFilesToPin(conf *configurator.Configurator, t *domain.Task) []string {
	var out []string
	for _, name := range sortedKeys(t.AdditionalFiles) {
		if conf.IsTestFile(name) || conf.IsUnderSourceDir(name) {
			out = append(out, name)
		}
	}
	return out
}

func joinItem(dir, name string) (string, error) {
	if err := domain.CheckItemName(name); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func writeFile(dir, name, text string) error {
	if err := domain.CheckFileName(name); err != nil {
		return err
	}
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
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
