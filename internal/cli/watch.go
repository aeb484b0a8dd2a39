package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

// burstDelay is how long the watcher waits after the last event before
// rendering, so that an editor's write+chmod+rename sequence renders once.
const burstDelay = 16 * time.Millisecond

// watcher re-renders inputs when they change on disk. Directories are
// watched rather than files because editors commonly replace a file on
// save, which drops a file-level watch.
type watcher struct {
	fw     *fsnotify.Watcher
	jobs   map[string]renderJob
	render func(ctx context.Context, jobs []renderJob)
	burst  time.Duration
}

func newWatcher(jobs []renderJob, render func(context.Context, []renderJob)) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &watcher{
		fw:     fw,
		jobs:   make(map[string]renderJob, len(jobs)),
		render: render,
		burst:  burstDelay,
	}

	dirs := make(map[string]bool)
	for _, job := range jobs {
		abs, err := filepath.Abs(job.input)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.jobs[abs] = job
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "watch %s", dir)
		}
	}
	return w, nil
}

func (w *watcher) Close() error { return w.fw.Close() }

// run renders every job once, then again for each burst of changes until
// ctx is done.
func (w *watcher) run(ctx context.Context) error {
	all := make([]renderJob, 0, len(w.jobs))
	for _, job := range w.jobs {
		all = append(all, job)
	}
	sortJobs(all)
	w.render(ctx, all)

	burst := time.NewTimer(0)
	<-burst.C
	changed := make(map[string]bool)

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			// Chmod, Remove and Rename carry no new content. A save by
			// rename shows up as Create on the tracked name.
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, tracked := w.jobs[abs]; !tracked {
				continue
			}
			changed[abs] = true
			burst.Reset(w.burst)
		case <-burst.C:
			if len(changed) == 0 {
				continue
			}
			batch := make([]renderJob, 0, len(changed))
			for abs := range changed {
				batch = append(batch, w.jobs[abs])
				delete(changed, abs)
			}
			sortJobs(batch)
			w.render(ctx, batch)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			loggerFromContext(ctx).Error("watch error", "err", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func sortJobs(jobs []renderJob) {
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].input < jobs[j].input })
}

// watch renders jobs and keeps re-rendering them until interrupted. Render
// failures are reported but do not stop the watcher.
func (c *CLI) watch(ctx context.Context, r *renderer, jobs []renderJob) error {
	w, err := newWatcher(jobs, func(ctx context.Context, batch []renderJob) {
		if err := c.renderAll(ctx, r, batch); err != nil && ctx.Err() == nil {
			loggerFromContext(ctx).Debug("render failed", "err", err)
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	printInfo("Watching %s (ctrl+c to stop)", plural(len(jobs), "file", "files"))
	return w.run(ctx)
}
