// Package courseformat reads and writes the on-disk course layout: a tree of
// section, lesson and task directories, each described by a YAML info file.
package courseformat

import "time"

const (
	CourseInfoFile  = "course-info.yaml"
	SectionInfoFile = "section-info.yaml"
	LessonInfoFile  = "lesson-info.yaml"
	TaskInfoFile    = "task-info.yaml"

	CourseRemoteInfoFile  = "course-remote-info.yaml"
	SectionRemoteInfoFile = "section-remote-info.yaml"
	LessonRemoteInfoFile  = "lesson-remote-info.yaml"
	TaskRemoteInfoFile    = "task-remote-info.yaml"

	DescriptionFile = "task.md"
)

// CourseInfo is the content of course-info.yaml.
type CourseInfo struct {
	Title               string   `yaml:"title"`
	Summary             string   `yaml:"summary,omitempty"`
	Language            string   `yaml:"language,omitempty"`
	ProgrammingLanguage string   `yaml:"programming_language"`
	Mode                string   `yaml:"mode,omitempty"`
	Content             []string `yaml:"content"`
}

// ItemInfo is the content of section-info.yaml and lesson-info.yaml.
type ItemInfo struct {
	Content []string `yaml:"content"`
}

type TaskInfo struct {
	Type     string      `yaml:"type"`
	Files    []FileEntry `yaml:"files,omitempty"`
	Subtasks int         `yaml:"subtasks,omitempty"`

	// AdditionalFiles pins files that would otherwise be classified as
	// task files.
	AdditionalFiles []string `yaml:"additional_files,omitempty"`
}

type FileEntry struct {
	Name         string             `yaml:"name"`
	Visible      *bool              `yaml:"visible,omitempty"`
	Placeholders []PlaceholderEntry `yaml:"placeholders,omitempty"`
}

type PlaceholderEntry struct {
	Offset          int    `yaml:"offset"`
	Length          int    `yaml:"length"`
	PlaceholderText string `yaml:"placeholder_text"`
	Subtask         int    `yaml:"subtask,omitempty"`
}

// RemoteInfo is the content of a *-remote-info.yaml file. Course flags and
// sections are only written for courses.
type RemoteInfo struct {
	ID               int        `yaml:"id"`
	UpdateDate       *time.Time `yaml:"update_date,omitempty"`
	IsPublic         bool       `yaml:"is_public,omitempty"`
	IsAdaptive       bool       `yaml:"is_adaptive,omitempty"`
	IsIdeaCompatible bool       `yaml:"is_idea_compatible,omitempty"`
	Sections         []int      `yaml:"sections,omitempty"`
}

// Tree is a parsed course directory before conversion to the domain model.
type Tree struct {
	Dir    string
	Course CourseInfo
	Remote *RemoteInfo
	Items  []*ItemNode
}

// ItemNode is a section or lesson directory named in a content list.
type ItemNode struct {
	Name    string
	Kind    ItemKind
	Remote  *RemoteInfo
	Lessons []*ItemNode // sections only
	Tasks   []*TaskNode // lessons only
}

type ItemKind int

const (
	ItemMissing ItemKind = iota
	ItemSection
	ItemLesson
)

type TaskNode struct {
	Name        string
	Info        *TaskInfo // nil when task-info.yaml is missing
	Remote      *RemoteInfo
	Description string
	// Texts holds the content of the files listed in Info.Files and
	// Info.AdditionalFiles. A listed file absent on disk has no entry.
	Texts map[string]string
}
