package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/alexanderramin/edutrack/internal/classifier"
	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/progress"
	"github.com/alexanderramin/edutrack/internal/repository"
)

type watchService struct {
	courses repository.CourseRepo
	files   repository.TaskFileRepo
}

func NewWatchService(courses repository.CourseRepo, files repository.TaskFileRepo) WatchService {
	return &watchService{courses: courses, files: files}
}

// watchSession is one running watch over a course directory.
type watchSession struct {
	project *classifier.Project
	watcher *fsnotify.Watcher
	files   repository.TaskFileRepo
}

func (s *watchService) Watch(ctx context.Context, ref string, events chan<- WatchEvent) error {
	defer close(events)
	ws, err := s.start(ctx, ref)
	if err != nil {
		return err
	}
	defer ws.close()
	return ws.run(ctx, events)
}

func (s *watchService) start(ctx context.Context, ref string) (*watchSession, error) {
	c, err := resolveCourse(ctx, s.courses, ref)
	if err != nil {
		return nil, err
	}
	if c.Dir == "" {
		return nil, fmt.Errorf("course %q has no directory", c.Name)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	ws := &watchSession{
		project: classifier.NewProject(c.Dir, c),
		watcher: w,
		files:   s.files,
	}
	if err := ws.addTree(c.Dir); err != nil {
		w.Close()
		return nil, err
	}
	return ws, nil
}

func (ws *watchSession) close() {
	ws.project.Disposed = true
	ws.watcher.Close()
}

func (ws *watchSession) run(ctx context.Context, events chan<- WatchEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ws.watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) {
				continue
			}
			for _, out := range ws.handleCreate(ctx, ev.Name) {
				if !send(ctx, events, out) {
					return nil
				}
			}
		case err, ok := <-ws.watcher.Errors:
			if !ok {
				return nil
			}
			if !send(ctx, events, WatchEvent{Err: err}) {
				return nil
			}
		}
	}
}

// handleCreate classifies a created path. A new directory is watched and
// its existing content classified too, since files may land in it before the
// watch is registered.
func (ws *watchSession) handleCreate(ctx context.Context, path string) []WatchEvent {
	st, err := os.Stat(path)
	if err != nil {
		// Removed again before we got to it.
		return nil
	}

	var out []WatchEvent
	if !st.IsDir() {
		if ev, ok := ws.classify(ctx, path, false); ok {
			out = append(out, ev)
		}
		return out
	}

	if err := ws.addTree(path); err != nil {
		out = append(out, WatchEvent{Path: path, Err: err})
	}
	return append(out, ws.scan(ctx, path, os.DirFS(path))...)
}

// scan classifies everything under root, read through fsys. A read error
// ends the scan and is reported as the last event.
func (ws *watchSession) scan(ctx context.Context, root string, fsys fs.FS) []WatchEvent {
	var out []WatchEvent
	err := fs.WalkDir(fsys, ".", func(rel string, d fs.DirEntry, err error) error {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err != nil {
			return fmt.Errorf("scanning %s: %w", p, err)
		}
		if d.IsDir() && d.Name() == classifier.GeneratedFilesFolder {
			return fs.SkipDir
		}
		if ev, ok := ws.classify(ctx, p, d.IsDir()); ok {
			out = append(out, ev)
		}
		return nil
	})
	if err != nil {
		out = append(out, WatchEvent{Path: root, Err: err})
	}
	return out
}

// classify applies a creation to the in-memory course and persists any new
// file entry.
func (ws *watchSession) classify(ctx context.Context, path string, isDir bool) (WatchEvent, bool) {
	info, inserted := classifier.FileCreated(ws.project, classifier.Event{Path: path, IsDir: isDir})
	if info == nil {
		return WatchEvent{}, false
	}
	ev := WatchEvent{Path: path, Info: info, Inserted: inserted}
	if f, ok := info.(classifier.FileInTask); ok && inserted {
		ev.Err = ws.persist(ctx, f)
	}
	ev.Progress = progress.Count(ws.project.Course.Lessons())
	return ev, true
}

func (ws *watchSession) persist(ctx context.Context, f classifier.FileInTask) error {
	tf := &domain.TaskFile{Name: f.PathInTask, Visible: true}
	if f.Kind == domain.KindTaskFile {
		tf = f.Task.TaskFile(f.PathInTask)
	}
	if _, err := ws.files.Insert(ctx, f.Task.ID, f.Kind, tf); err != nil {
		return fmt.Errorf("storing %s: %w", f.PathInTask, err)
	}
	return nil
}

// addTree watches dir and every subdirectory the configurator keeps.
func (ws *watchSession) addTree(dir string) error {
	conf := ws.project.Configurator
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == classifier.GeneratedFilesFolder {
			return filepath.SkipDir
		}
		// A directory is skipped when anything inside it would be excluded.
		if rel, err := filepath.Rel(ws.project.CourseDir, p); err == nil && rel != "." && conf != nil &&
			conf.ExcludeFromArchive(filepath.ToSlash(rel)+"/_") {
			return filepath.SkipDir
		}
		if err := ws.watcher.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}

func send(ctx context.Context, events chan<- WatchEvent, ev WatchEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
