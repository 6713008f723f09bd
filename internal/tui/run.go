package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"syncphotos/internal/domain"
)

// Job performs a sync, reporting the scan total and per-file progress
// through the callbacks.
type Job func(ctx context.Context, onScan func(total int), onProgress func(current, total int, file string)) (domain.Counters, error)

// Run drives job under the progress view. Quitting the view cancels the job.
func Run(ctx context.Context, cfg Config, job Job, opts ...tea.ProgramOption) (domain.Counters, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(cfg), opts...)

	var (
		counters domain.Counters
		jobErr   error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		counters, jobErr = job(ctx,
			func(total int) {
				p.Send(ScanDoneMsg{Total: total})
			},
			func(current, total int, file string) {
				p.Send(SyncProgressMsg{Current: current, Total: total, File: file})
			},
		)
		if jobErr != nil {
			p.Send(ErrorMsg{Err: jobErr})
			return
		}
		p.Send(SyncDoneMsg{Counters: counters})
	}()

	_, err := p.Run()
	cancel()
	<-done

	if jobErr != nil {
		return counters, jobErr
	}
	return counters, err
}
