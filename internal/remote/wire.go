// Package remote talks to the remote learning platform: the JSON wire schema
// of courses, sections, lessons, steps and replies, and an HTTP client for
// its API.
package remote

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/edutrack/internal/domain"
)

// TimeLayout is the platform's timestamp format: seconds precision with a
// numeric zone offset.
const TimeLayout = "2006-01-02T15:04:05-0700"

// ReplyVersion is sent with every reply.
const ReplyVersion = 1

const (
	blockCode = "code"
	blockText = "text"
)

// Course is the wire form of a course.
type Course struct {
	ID                  int    `json:"id"`
	Title               string `json:"title"`
	Summary             string `json:"summary"`
	Language            string `json:"language"`
	ProgrammingLanguage string `json:"programming_language"`
	IsPublic            bool   `json:"is_public"`
	IsAdaptive          bool   `json:"is_adaptive"`
	IsIdeaCompatible    bool   `json:"is_idea_compatible"`
	UpdateDate          string `json:"update_date,omitempty"`
	Sections            []int  `json:"sections"`
}

type Section struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
	Lessons  []int  `json:"lessons"`
}

type Lesson struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Steps      []int  `json:"steps"`
	UpdateDate string `json:"update_date,omitempty"`
}

type Step struct {
	ID       int   `json:"id"`
	Position int   `json:"position"`
	Block    Block `json:"block"`
}

type Block struct {
	Name    string       `json:"name"`
	Text    string       `json:"text"`
	Options *StepOptions `json:"options,omitempty"`
}

// StepOptions carries the task itself.
type StepOptions struct {
	Title            string            `json:"title"`
	TaskType         string            `json:"task_type"`
	Files            []File            `json:"files"`
	Test             []TestFile        `json:"test,omitempty"`
	AdditionalFiles  map[string]string `json:"additional_files,omitempty"`
	LastSubtaskIndex int               `json:"last_subtask_index,omitempty"`
}

type File struct {
	Name         string        `json:"name"`
	Text         string        `json:"text"`
	Visible      *bool         `json:"visible,omitempty"`
	Placeholders []Placeholder `json:"placeholders,omitempty"`
}

type Placeholder struct {
	Offset          int    `json:"offset"`
	Length          int    `json:"length"`
	PlaceholderText string `json:"placeholder_text"`
	SubtaskIndex    int    `json:"subtask_index,omitempty"`
}

type TestFile struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Reply is a solution submitted for a step.
type Reply struct {
	Solution []TestFile `json:"solution"`
	Score    string     `json:"score"`
	EduTask  string     `json:"edu_task"`
	Version  int        `json:"version"`
}

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime parses a wire timestamp. RFC 3339 input is accepted as well.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err == nil {
		return t, nil
	}
	if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
		return t2, nil
	}
	return time.Time{}, fmt.Errorf("invalid update_date %q: %w", s, err)
}

// CourseFromDomain builds the wire course of c. Sections is never nil.
func CourseFromDomain(c *domain.Course) Course {
	wc := Course{
		ID:                  c.Remote.ID,
		Title:               c.Name,
		Summary:             c.Summary,
		Language:            c.HumanLanguage,
		ProgrammingLanguage: c.Language,
		IsPublic:            c.Remote.IsPublic,
		IsAdaptive:          c.Remote.IsAdaptive,
		IsIdeaCompatible:    c.Remote.IsIdeaCompatible,
		Sections:            c.Remote.SectionIDs,
	}
	if wc.Sections == nil {
		wc.Sections = []int{}
	}
	if c.Remote.UpdateDate != nil {
		wc.UpdateDate = FormatTime(*c.Remote.UpdateDate)
	}
	return wc
}

// MarshalCourse encodes c as an indented wire course object.
func MarshalCourse(c *domain.Course) ([]byte, error) {
	data, err := json.MarshalIndent(CourseFromDomain(c), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding course: %w", err)
	}
	return data, nil
}

// UnmarshalCourse decodes a wire course object. language fills the
// programming language when the payload leaves it empty.
func UnmarshalCourse(data []byte, language string) (*domain.Course, error) {
	var wc Course
	if err := json.Unmarshal(data, &wc); err != nil {
		return nil, fmt.Errorf("decoding course: %w", err)
	}
	return wc.ToDomain(language)
}

// ToDomain converts the wire course into a course without items.
func (wc Course) ToDomain(language string) (*domain.Course, error) {
	c := &domain.Course{
		Name:          wc.Title,
		Summary:       wc.Summary,
		Language:      domain.CoalesceStr(wc.ProgrammingLanguage, language),
		HumanLanguage: wc.Language,
		Mode:          domain.ModeStudy,
		Remote: domain.RemoteInfo{
			ID:               wc.ID,
			IsPublic:         wc.IsPublic,
			IsAdaptive:       wc.IsAdaptive,
			IsIdeaCompatible: wc.IsIdeaCompatible,
			SectionIDs:       wc.Sections,
		},
	}
	if c.Remote.SectionIDs == nil {
		c.Remote.SectionIDs = []int{}
	}
	if wc.UpdateDate != "" {
		t, err := ParseTime(wc.UpdateDate)
		if err != nil {
			return nil, err
		}
		c.Remote.UpdateDate = &t
	}
	return c, nil
}

// LessonFromDomain builds the wire lesson of l. Steps lists the remote ids
// of tasks already published.
func LessonFromDomain(l *domain.Lesson) Lesson {
	wl := Lesson{ID: l.RemoteID, Title: l.Name, Steps: []int{}}
	for _, t := range l.Tasks {
		if t.RemoteID != 0 {
			wl.Steps = append(wl.Steps, t.RemoteID)
		}
	}
	return wl
}

// StepFromTask builds the wire step of t at the given 1-based position.
func StepFromTask(t *domain.Task, position int) Step {
	step := Step{ID: t.RemoteID, Position: position, Block: Block{Text: t.Description}}
	if t.Kind == domain.TaskTheory {
		step.Block.Name = blockText
		return step
	}
	step.Block.Name = blockCode
	opts := OptionsFromTask(t)
	step.Block.Options = &opts
	return step
}

// OptionsFromTask builds the step options holding t's files.
func OptionsFromTask(t *domain.Task) StepOptions {
	opts := StepOptions{
		Title:    t.Name,
		TaskType: string(t.Kind),
		Files:    []File{},
	}
	if t.HasSubtasks() {
		opts.LastSubtaskIndex = t.LastSubtaskIndex
	}
	for _, name := range sortedKeys(t.Files) {
		tf := t.Files[name]
		f := File{Name: name, Text: tf.Text}
		if !tf.Visible {
			hidden := false
			f.Visible = &hidden
		}
		for _, p := range tf.Placeholders {
			f.Placeholders = append(f.Placeholders, Placeholder(p))
		}
		opts.Files = append(opts.Files, f)
	}
	for _, name := range sortedKeys(t.TestsText) {
		opts.Test = append(opts.Test, TestFile{Name: name, Text: t.TestsText[name]})
	}
	if len(t.AdditionalFiles) > 0 {
		opts.AdditionalFiles = make(map[string]string, len(t.AdditionalFiles))
		for k, v := range t.AdditionalFiles {
			opts.AdditionalFiles[k] = v
		}
	}
	return opts
}

// ToTask converts a step into a task. Steps without options become theory
// tasks. Task and file names that would leave the task directory are
// rejected with domain.ErrUnsafeName.
func (s Step) ToTask() (*domain.Task, error) {
	opts := s.Block.Options
	if opts == nil || s.Block.Name == blockText {
		t := domain.NewTask(fmt.Sprintf("task%d", s.Position), domain.TaskTheory)
		if opts != nil && opts.Title != "" {
			t.Name = opts.Title
		}
		t.RemoteID = s.ID
		t.Index = s.Position
		t.Description = s.Block.Text
		return checked(t)
	}

	kind := domain.TaskKind(opts.TaskType)
	if !domain.ValidTaskKinds[opts.TaskType] {
		kind = domain.TaskEdu
	}
	name := domain.CoalesceStr(opts.Title, fmt.Sprintf("task%d", s.Position))
	t := domain.NewTask(name, kind)
	t.RemoteID = s.ID
	t.Index = s.Position
	t.Description = s.Block.Text
	if kind == domain.TaskSubtasks {
		t.LastSubtaskIndex = opts.LastSubtaskIndex
	}
	for _, f := range opts.Files {
		tf := t.AddTaskFile(f.Name)
		tf.Text = f.Text
		tf.Visible = domain.BoolFromPtrWithDefault(true, f.Visible)
		for _, p := range f.Placeholders {
			tf.Placeholders = append(tf.Placeholders, domain.AnswerPlaceholder(p))
		}
	}
	for _, tf := range opts.Test {
		t.AddTestsText(tf.Name, tf.Text)
	}
	for path, text := range opts.AdditionalFiles {
		if !t.HasFile(path) {
			t.AddAdditionalFile(path, text)
		}
	}
	return checked(t)
}

func checked(t *domain.Task) (*domain.Task, error) {
	if err := t.CheckNames(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewReply builds the reply posted after checking t.
func NewReply(t *domain.Task, passed bool) (Reply, error) {
	eduTask, err := json.Marshal(OptionsFromTask(t))
	if err != nil {
		return Reply{}, fmt.Errorf("encoding task options: %w", err)
	}
	r := Reply{
		Solution: []TestFile{},
		Score:    "0",
		EduTask:  string(eduTask),
		Version:  ReplyVersion,
	}
	if passed {
		r.Score = "1"
	}
	for _, name := range sortedKeys(t.Files) {
		r.Solution = append(r.Solution, TestFile{Name: name, Text: t.Files[name].Text})
	}
	return r, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
