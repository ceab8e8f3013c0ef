// Package agent runs the report pipeline:
// fetch, classify, summarize, write, and optionally notify.
package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kbreport/internal/classify"
	"kbreport/internal/config"
	"kbreport/internal/mail"
	"kbreport/internal/report"
	"kbreport/internal/service"
)

// Runner owns one run of the pipeline. All collaborators are injected;
// the notifier is nil when email is disabled and is then never invoked.
type Runner struct {
	cfg        *config.Config
	source     service.TaskSource
	summarizer service.Summarizer
	writer     report.Writer
	notifier   service.Notifier
	log        *slog.Logger

	// now and newRunID are overridable for tests.
	now      func() time.Time
	newRunID func() string
}

// New creates a Runner. notifier may be nil.
func New(cfg *config.Config, source service.TaskSource, summarizer service.Summarizer,
	writer report.Writer, notifier service.Notifier, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		source:     source,
		summarizer: summarizer,
		writer:     writer,
		notifier:   notifier,
		log:        logger,
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
}

// Result is what a completed run produced.
type Result struct {
	Report  report.Report
	Path    string
	Emailed bool
}

// Collect fetches and classifies the project's tasks and assembles the
// report skeleton. Used alone by the preview commands; Run builds on it.
func (r *Runner) Collect(ctx context.Context) (report.Report, error) {
	runID := r.newRunID()
	log := r.log.With("run_id", runID, "project_id", r.cfg.Kanboard.ProjectID)

	tasks, err := r.source.ListTasks(ctx, r.cfg.Kanboard.ProjectID)
	if err != nil {
		return report.Report{}, err
	}
	log.Info("tasks fetched", "count", len(tasks))

	buckets := classify.Split(tasks, r.cfg.StatusInProgress, r.cfg.StatusBlocked)
	log.Info("tasks classified",
		"in_progress", len(buckets.InProgress),
		"blocked", len(buckets.Blocked),
		"other", len(buckets.Other))

	return report.Report{
		ProjectID:   r.cfg.Kanboard.ProjectID,
		RunID:       runID,
		GeneratedAt: r.now(),
		Buckets:     buckets,
	}, nil
}

// RunDry fetches, classifies, and summarizes without touching disk or
// sending email. Used by the run command's --dry-run flag.
func (r *Runner) RunDry(ctx context.Context) (report.Report, error) {
	rep, err := r.Collect(ctx)
	if err != nil {
		return report.Report{}, err
	}
	summary, err := r.summarizer.Summarize(ctx, rep.Prompt())
	if err != nil {
		return report.Report{}, err
	}
	rep.Summary = &summary
	return rep, nil
}

// Run executes the full pipeline. The first failing step aborts the
// run: no file is written if summarization fails, and no email is sent
// if the write fails.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	rep, err := r.Collect(ctx)
	if err != nil {
		return Result{}, err
	}
	log := r.log.With("run_id", rep.RunID, "project_id", rep.ProjectID)

	summary, err := r.summarizer.Summarize(ctx, rep.Prompt())
	if err != nil {
		return Result{}, err
	}
	rep.Summary = &summary
	log.Info("summary generated", "model", summary.Model)

	body := rep.Render()
	path, err := r.writer.Write(body, rep.GeneratedAt)
	if err != nil {
		return Result{}, err
	}

	result := Result{Report: rep, Path: path}
	if r.notifier != nil {
		if err := r.notifier.Notify(ctx, mail.Subject(rep.ProjectID), body); err != nil {
			return result, err
		}
		result.Emailed = true
	}
	log.Info("run complete", "path", path, "emailed", result.Emailed)
	return result, nil
}
