package courseformat

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/edutrack/internal/classifier"
	"github.com/alexanderramin/edutrack/internal/domain"
)

// ReadTree parses the YAML files of the course rooted at dir. Structural
// problems such as a content entry without an info file are left for
// ValidateTree; only I/O and YAML syntax errors are returned.
func ReadTree(dir string) (*Tree, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving course dir: %w", err)
	}
	tree := &Tree{Dir: abs}
	if err := readYAML(filepath.Join(abs, CourseInfoFile), &tree.Course); err != nil {
		return nil, err
	}
	if tree.Remote, err = readRemote(filepath.Join(abs, CourseRemoteInfoFile)); err != nil {
		return nil, err
	}

	for _, name := range tree.Course.Content {
		item, err := readItem(filepath.Join(abs, name), name, true)
		if err != nil {
			return nil, err
		}
		tree.Items = append(tree.Items, item)
	}
	return tree, nil
}

func readItem(dir, name string, allowSection bool) (*ItemNode, error) {
	item := &ItemNode{Name: name}
	if domain.CheckItemName(name) != nil {
		return item, nil
	}
	var info ItemInfo

	switch {
	case allowSection && exists(filepath.Join(dir, SectionInfoFile)):
		item.Kind = ItemSection
		if err := readYAML(filepath.Join(dir, SectionInfoFile), &info); err != nil {
			return nil, err
		}
		remote, err := readRemote(filepath.Join(dir, SectionRemoteInfoFile))
		if err != nil {
			return nil, err
		}
		item.Remote = remote
		for _, lessonName := range info.Content {
			lesson, err := readItem(filepath.Join(dir, lessonName), lessonName, false)
			if err != nil {
				return nil, err
			}
			item.Lessons = append(item.Lessons, lesson)
		}
	case exists(filepath.Join(dir, LessonInfoFile)):
		item.Kind = ItemLesson
		if err := readYAML(filepath.Join(dir, LessonInfoFile), &info); err != nil {
			return nil, err
		}
		remote, err := readRemote(filepath.Join(dir, LessonRemoteInfoFile))
		if err != nil {
			return nil, err
		}
		item.Remote = remote
		for _, taskName := range info.Content {
			task, err := readTask(filepath.Join(dir, taskName), taskName)
			if err != nil {
				return nil, err
			}
			item.Tasks = append(item.Tasks, task)
		}
	}
	return item, nil
}

func readTask(dir, name string) (*TaskNode, error) {
	node := &TaskNode{Name: name, Texts: make(map[string]string)}
	if domain.CheckItemName(name) != nil {
		return node, nil
	}
	infoPath := filepath.Join(dir, TaskInfoFile)
	if !exists(infoPath) {
		return node, nil
	}
	node.Info = &TaskInfo{}
	if err := readYAML(infoPath, node.Info); err != nil {
		return nil, err
	}
	remote, err := readRemote(filepath.Join(dir, TaskRemoteInfoFile))
	if err != nil {
		return nil, err
	}
	node.Remote = remote

	listed := make([]string, 0, len(node.Info.Files)+len(node.Info.AdditionalFiles))
	for _, f := range node.Info.Files {
		listed = append(listed, f.Name)
	}
	listed = append(listed, node.Info.AdditionalFiles...)
	for _, fileName := range listed {
		if domain.CheckFileName(fileName) != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(fileName)))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading task file %s/%s: %w", name, fileName, err)
		}
		node.Texts[fileName] = string(data)
	}

	for _, desc := range []string{"task.md", "task.html"} {
		data, err := os.ReadFile(filepath.Join(dir, desc))
		if err == nil {
			node.Description = string(data)
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading description of %s: %w", name, err)
		}
	}
	return node, nil
}

// Load reads, validates and converts the course rooted at dir. Test and
// additional files are discovered by classifying every file under the task
// directories.
func Load(dir string) (*domain.Course, error) {
	tree, err := ReadTree(dir)
	if err != nil {
		return nil, err
	}
	if errs := ValidateTree(tree); len(errs) > 0 {
		return nil, fmt.Errorf("invalid course %s: %w", tree.Dir, errors.Join(errs...))
	}
	course := ToCourse(tree)
	if err := discoverFiles(course); err != nil {
		return nil, err
	}
	return course, nil
}

// ToCourse converts a validated tree into a domain course.
func ToCourse(tree *Tree) *domain.Course {
	c := &domain.Course{
		Name:          tree.Course.Title,
		Summary:       tree.Course.Summary,
		Language:      tree.Course.ProgrammingLanguage,
		HumanLanguage: tree.Course.Language,
		Mode:          domain.CourseMode(tree.Course.Mode),
		Dir:           tree.Dir,
	}
	if c.Mode == "" {
		c.Mode = domain.ModeStudy
	}
	if r := tree.Remote; r != nil {
		c.Remote = domain.RemoteInfo{
			ID:               r.ID,
			IsPublic:         r.IsPublic,
			IsAdaptive:       r.IsAdaptive,
			IsIdeaCompatible: r.IsIdeaCompatible,
			UpdateDate:       r.UpdateDate,
			SectionIDs:       r.Sections,
		}
	}

	for i, item := range tree.Items {
		switch item.Kind {
		case ItemSection:
			s := &domain.Section{Name: item.Name, Index: i + 1, RemoteID: remoteID(item.Remote)}
			for j, l := range item.Lessons {
				s.Lessons = append(s.Lessons, toLesson(l, j+1))
			}
			c.Items = append(c.Items, s)
		case ItemLesson:
			c.Items = append(c.Items, toLesson(item, i+1))
		}
	}
	return c
}

func toLesson(item *ItemNode, index int) *domain.Lesson {
	l := &domain.Lesson{Name: item.Name, Index: index, RemoteID: remoteID(item.Remote)}
	for i, node := range item.Tasks {
		l.Tasks = append(l.Tasks, toTask(node, i+1))
	}
	return l
}

func toTask(node *TaskNode, index int) *domain.Task {
	t := domain.NewTask(node.Name, domain.TaskKind(node.Info.Type))
	t.Index = index
	t.RemoteID = remoteID(node.Remote)
	t.Description = node.Description
	if t.Kind == domain.TaskSubtasks && node.Info.Subtasks > 0 {
		t.LastSubtaskIndex = node.Info.Subtasks - 1
	}
	for _, f := range node.Info.Files {
		tf := t.AddTaskFile(f.Name)
		tf.Text = node.Texts[f.Name]
		tf.Visible = domain.BoolFromPtrWithDefault(true, f.Visible)
		for _, p := range f.Placeholders {
			tf.Placeholders = append(tf.Placeholders, domain.AnswerPlaceholder{
				Offset:          p.Offset,
				Length:          p.Length,
				PlaceholderText: p.PlaceholderText,
				SubtaskIndex:    p.Subtask,
			})
		}
	}
	for _, name := range node.Info.AdditionalFiles {
		t.AddAdditionalFile(name, node.Texts[name])
	}
	return t
}

func discoverFiles(course *domain.Course) error {
	project := classifier.NewProject(course.Dir, course)
	project.Student = false

	return filepath.WalkDir(course.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == classifier.GeneratedFilesFolder {
				return filepath.SkipDir
			}
			return nil
		}
		info, ok := classifier.Classify(project, classifier.Event{Path: path})
		if !ok {
			return nil
		}
		f, ok := info.(classifier.FileInTask)
		if !ok || f.Task.HasFile(f.PathInTask) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		classifier.Apply(project, f)
		switch f.Kind {
		case domain.KindTaskFile:
			f.Task.TaskFile(f.PathInTask).Text = string(data)
		case domain.KindTestFile:
			f.Task.TestsText[f.PathInTask] = string(data)
		case domain.KindAdditionalFile:
			f.Task.AdditionalFiles[f.PathInTask] = string(data)
		}
		return nil
	})
}

func remoteID(r *RemoteInfo) int {
	if r == nil {
		return 0
	}
	return r.ID
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func readRemote(path string) (*RemoteInfo, error) {
	if !exists(path) {
		return nil, nil
	}
	var r RemoteInfo
	if err := readYAML(path, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
