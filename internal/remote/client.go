package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/alexanderramin/edutrack/internal/domain"
)

// Client provides access to the platform's course API. Reads are retried
// on transport errors; writes are sent once.
type Client struct {
	cfg      Config
	http     *resty.Client
	writes   *resty.Client
	observer Observer
	lessons  *lru.Cache[int, Lesson]
}

// NewClient creates a Client for cfg. A nil observer discards call events.
func NewClient(cfg Config, observer Observer, logger *slog.Logger) (*Client, error) {
	if observer == nil {
		observer = NoopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	size := cfg.LessonCacheSize
	if size <= 0 {
		size = DefaultConfig().LessonCacheSize
	}
	cache, err := lru.New[int, Lesson](size)
	if err != nil {
		return nil, fmt.Errorf("creating lesson cache: %w", err)
	}

	hc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutMs)*time.Millisecond).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(100*time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("User-Agent", UserAgent(cfg.Version)).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{logger: logger})
	if cfg.Token != "" {
		hc.SetAuthToken(cfg.Token)
	}

	return &Client{
		cfg:      cfg,
		http:     hc,
		writes:   hc.Clone().SetRetryCount(0),
		observer: observer,
		lessons:  cache,
	}, nil
}

// UserAgent identifies the client and host OS to the platform.
func UserAgent(version string) string {
	return fmt.Sprintf("edutrack/version(%s)/%s", domain.CoalesceStr(version, "unknown"), runtime.GOOS)
}

// LoggedIn reports whether the client sends a user token.
func (c *Client) LoggedIn() bool {
	return c.cfg.LoggedIn()
}

// apiError is the body the platform sends with 4xx and 5xx responses.
type apiError struct {
	Detail string `json:"detail"`
}

type coursesEnvelope struct {
	Courses []Course `json:"courses"`
}

type sectionsEnvelope struct {
	Sections []Section `json:"sections"`
}

type lessonsEnvelope struct {
	Lessons []Lesson `json:"lessons"`
}

type stepsEnvelope struct {
	Steps []Step `json:"steps"`
}

type attemptRequest struct {
	Attempt struct {
		Step int `json:"step"`
	} `json:"attempt"`
}

type attemptsEnvelope struct {
	Attempts []struct {
		ID int `json:"id"`
	} `json:"attempts"`
}

type submissionRequest struct {
	Submission struct {
		Attempt int   `json:"attempt"`
		Reply   Reply `json:"reply"`
	} `json:"submission"`
}

func (c *Client) GetCourse(ctx context.Context, id int) (Course, error) {
	var env coursesEnvelope
	if err := c.get(ctx, "get_course", "/api/courses/"+strconv.Itoa(id), nil, &env); err != nil {
		return Course{}, err
	}
	if len(env.Courses) == 0 {
		return Course{}, fmt.Errorf("course %d: %w", id, ErrNotFound)
	}
	return env.Courses[0], nil
}

// GetSections returns the sections with the given ids, ordered by position.
func (c *Client) GetSections(ctx context.Context, ids []int) ([]Section, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var env sectionsEnvelope
	if err := c.get(ctx, "get_sections", "/api/sections", idsQuery(ids), &env); err != nil {
		return nil, err
	}
	sort.SliceStable(env.Sections, func(i, j int) bool { return env.Sections[i].Position < env.Sections[j].Position })
	return env.Sections, nil
}

// GetLessons returns the lessons in ids order. Lessons are cached by id;
// only uncached ones are requested.
func (c *Client) GetLessons(ctx context.Context, ids []int) ([]Lesson, error) {
	var missing []int
	for _, id := range ids {
		if _, ok := c.lessons.Get(id); !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		var env lessonsEnvelope
		if err := c.get(ctx, "get_lessons", "/api/lessons", idsQuery(missing), &env); err != nil {
			return nil, err
		}
		for _, l := range env.Lessons {
			c.lessons.Add(l.ID, l)
		}
	}

	out := make([]Lesson, 0, len(ids))
	for _, id := range ids {
		l, ok := c.lessons.Get(id)
		if !ok {
			return nil, fmt.Errorf("lesson %d: %w", id, ErrNotFound)
		}
		out = append(out, l)
	}
	return out, nil
}

// GetSteps returns the steps with the given ids, ordered by position.
func (c *Client) GetSteps(ctx context.Context, ids []int) ([]Step, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var env stepsEnvelope
	if err := c.get(ctx, "get_steps", "/api/steps", idsQuery(ids), &env); err != nil {
		return nil, err
	}
	sort.SliceStable(env.Steps, func(i, j int) bool { return env.Steps[i].Position < env.Steps[j].Position })
	return env.Steps, nil
}

// PostSolution creates an attempt for the task's step and submits the
// task's files as its reply.
func (c *Client) PostSolution(ctx context.Context, task *domain.Task, passed bool) error {
	if task.RemoteID == 0 {
		return fmt.Errorf("task %q has no remote step", task.Name)
	}
	reply, err := NewReply(task, passed)
	if err != nil {
		return err
	}

	var attemptReq attemptRequest
	attemptReq.Attempt.Step = task.RemoteID
	var attempts attemptsEnvelope
	if err := c.post(ctx, "post_attempt", "/api/attempts", attemptReq, &attempts); err != nil {
		return err
	}
	if len(attempts.Attempts) == 0 {
		return fmt.Errorf("posting attempt for step %d: empty response", task.RemoteID)
	}

	var sub submissionRequest
	sub.Submission.Attempt = attempts.Attempts[0].ID
	sub.Submission.Reply = reply
	return c.post(ctx, "post_submission", "/api/submissions", sub, nil)
}

// FetchCourse downloads a course with all its sections, lessons and steps.
// A section titled like the course holds top-level lessons.
func (c *Client) FetchCourse(ctx context.Context, id int, language string) (*domain.Course, error) {
	wc, err := c.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	course, err := wc.ToDomain(language)
	if err != nil {
		return nil, err
	}

	sections, err := c.GetSections(ctx, wc.Sections)
	if err != nil {
		return nil, err
	}
	for _, ws := range sections {
		lessons, err := c.fetchLessons(ctx, ws.Lessons)
		if err != nil {
			return nil, err
		}
		if ws.Title == wc.Title {
			for _, l := range lessons {
				course.Items = append(course.Items, l)
			}
			continue
		}
		course.Items = append(course.Items, &domain.Section{
			Name:     ws.Title,
			RemoteID: ws.ID,
			Lessons:  lessons,
		})
	}
	if err := course.CheckNames(); err != nil {
		return nil, err
	}
	return course, nil
}

func (c *Client) fetchLessons(ctx context.Context, ids []int) ([]*domain.Lesson, error) {
	wls, err := c.GetLessons(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Lesson, 0, len(wls))
	for _, wl := range wls {
		steps, err := c.GetSteps(ctx, wl.Steps)
		if err != nil {
			return nil, err
		}
		l := &domain.Lesson{Name: wl.Title, RemoteID: wl.ID}
		for _, s := range steps {
			t, err := s.ToTask()
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", s.ID, err)
			}
			l.Tasks = append(l.Tasks, t)
		}
		out = append(out, l)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	req := newRequest(ctx, c.http, out)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	start := time.Now()
	resp, err := req.Get(path)
	return c.finish(op, path, start, resp, err)
}

func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	start := time.Now()
	resp, err := newRequest(ctx, c.writes, out).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	return c.finish(op, path, start, resp, err)
}

// newRequest prepares a call whose JSON result, if any, is decoded into out.
func newRequest(ctx context.Context, hc *resty.Client, out any) *resty.Request {
	req := hc.R().SetContext(ctx).SetError(&apiError{})
	if out != nil {
		req.SetResult(out).ForceContentType("application/json")
	}
	return req
}

func (c *Client) finish(op, path string, start time.Time, resp *resty.Response, err error) error {
	event := CallEvent{Op: op, Path: path}
	if resp != nil {
		event.Status = resp.StatusCode()
	}

	if err != nil && resp != nil && resp.RawResponse != nil && resp.IsSuccess() {
		err = fmt.Errorf("decoding %s response: %w", op, err)
	} else {
		err = classify(resp, err)
	}

	event.LatencyMs = time.Since(start).Milliseconds()
	event.Success = err == nil
	event.ErrorCode = errorCode(err)
	c.observer.OnCallComplete(event)
	return err
}

// classify maps transport failures and non-success statuses to the
// package's sentinel errors.
func classify(resp *resty.Response, err error) error {
	if err != nil {
		if isTimeout(err) {
			return ErrTimeout
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	switch code := resp.StatusCode(); {
	case code == http.StatusOK || code == http.StatusCreated:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		if e, ok := resp.Error().(*apiError); ok && e.Detail != "" {
			return fmt.Errorf("remote returned status %d: %s", code, e.Detail)
		}
		return fmt.Errorf("remote returned status %d: %s", code, resp.String())
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

func idsQuery(ids []int) url.Values {
	q := url.Values{}
	for _, id := range ids {
		q.Add("ids[]", strconv.Itoa(id))
	}
	return q
}
