package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"syncphotos/internal/domain"
	appErrors "syncphotos/internal/errors"
	"syncphotos/internal/logging"
)

// ScanFunc is called once scanning found all candidates.
type ScanFunc func(total int)

// ProgressFunc is called after each candidate has been processed.
type ProgressFunc func(current, total int, name string)

// Syncer walks a source tree and copies every image it finds into a
// model/date layout below the target directory, one file at a time.
type Syncer struct {
	FS         FileSystem
	Exif       MetadataReader
	Copier     Copier
	Logger     logging.Logger
	DryRun     bool
	Purge      bool
	Verbose    bool
	Now        func() time.Time
	OnScan     ScanFunc
	OnProgress ProgressFunc
}

func (s *Syncer) Run(ctx context.Context, sourceDir, targetDir string) (domain.Counters, error) {
	if s.FS == nil || s.Exif == nil || s.Copier == nil {
		return domain.Counters{}, errors.New("syncer requires FS, Exif and Copier")
	}

	start := time.Now()
	stop := s.Logger.Measure("Sync")
	defer stop()

	s.Logger.Verbosef("Source dir = %s", sourceDir)
	s.Logger.Verbosef("  Dest dir = %s", targetDir)

	candidates, dirs, err := s.scan(ctx, sourceDir)
	if err != nil {
		return domain.Counters{}, err
	}
	if s.OnScan != nil {
		s.OnScan(len(candidates))
	}

	counters := domain.Counters{
		Candidates:  len(candidates),
		DirsScanned: dirs,
	}
	for i, candidate := range candidates {
		select {
		case <-ctx.Done():
			counters.Elapsed = time.Since(start)
			return counters, ctx.Err()
		default:
		}

		counters.Record(s.process(ctx, candidate, targetDir, &counters))

		if s.OnProgress != nil {
			s.OnProgress(i+1, len(candidates), candidate.RelativePath)
		}
	}

	counters.Elapsed = time.Since(start)
	s.Logger.Debugf("Processed %d candidates: %d copied, %d up to date, %d failed", counters.Candidates, counters.Copied, counters.UpToDate, counters.Failed)
	return counters, nil
}

type walkState struct {
	sourceDir  string
	visited    []fs.FileInfo
	dirs       int
	candidates []domain.Candidate
}

// seen reports whether the directory was already walked. Directories can be
// reached twice through symbolic links.
func (w *walkState) seen(info fs.FileInfo) bool {
	for _, v := range w.visited {
		if os.SameFile(v, info) {
			return true
		}
	}
	w.visited = append(w.visited, info)
	return false
}

func (s *Syncer) scan(ctx context.Context, sourceDir string) ([]domain.Candidate, int, error) {
	stop := s.Logger.Measure("Scanning source directory")
	defer stop()

	state := &walkState{sourceDir: sourceDir}
	if err := s.walk(ctx, state, sourceDir); err != nil {
		if isContextErr(err) {
			return nil, 0, err
		}
		return nil, 0, appErrors.Wrap(appErrors.IOFailure, "scan", sourceDir, err)
	}
	s.Logger.Verbosef("Found %d candidate files in %d directories below %s", len(state.candidates), state.dirs, sourceDir)
	return state.candidates, state.dirs, nil
}

func (s *Syncer) walk(ctx context.Context, state *walkState, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := s.FS.Stat(dir)
	if err != nil {
		return err
	}
	if state.seen(info) {
		s.Logger.Debugf("Skipping %s, already visited", dir)
		return nil
	}
	state.dirs++

	entries, err := s.FS.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		mode := entry.Type()

		if mode&fs.ModeSymlink != 0 {
			target, statErr := s.FS.Stat(path)
			if statErr != nil {
				s.Logger.Warnf("Skipping broken link %s: %v", path, statErr)
				continue
			}
			mode = target.Mode().Type()
		}

		switch {
		case mode.IsDir():
			if err := s.walk(ctx, state, path); err != nil {
				if isContextErr(err) {
					return err
				}
				s.Logger.Warnf("Skipping directory %s: %v", path, err)
			}
		case mode.IsRegular():
			if !domain.IsImageName(entry.Name()) {
				continue
			}
			fileInfo, statErr := s.FS.Stat(path)
			if statErr != nil {
				s.Logger.Warnf("Skipping %s: %v", path, statErr)
				continue
			}
			rel, relErr := filepath.Rel(state.sourceDir, path)
			if relErr != nil {
				rel = entry.Name()
			}
			state.candidates = append(state.candidates, domain.NewCandidate(path, rel, fileInfo.Size()))
		}
	}
	return nil
}

func (s *Syncer) process(ctx context.Context, candidate domain.Candidate, targetDir string, counters *domain.Counters) domain.SyncItem {
	item := domain.SyncItem{
		Candidate: candidate,
		Outcome:   domain.OutcomeFailed,
	}

	meta, err := s.Exif.Read(ctx, candidate.SourcePath)
	if err != nil {
		s.fail(&item, appErrors.Wrap(appErrors.ExifFailure, "exif", candidate.SourcePath, err))
		return item
	}

	now := s.now()
	subdir, fallback := Classify(meta, now)
	item.DateFallback = fallback
	if fallback {
		item.TakenAt = now
		s.Logger.Warnf("No exif date/time data for %s, using now", candidate.RelativePath)
	} else {
		item.TakenAt = *meta.TakenAt
	}

	dir := filepath.Join(targetDir, subdir)
	if err := s.ensureDir(dir, counters); err != nil {
		s.fail(&item, appErrors.Wrap(appErrors.IOFailure, "mkdir", dir, err))
		return item
	}

	item.TargetPath = filepath.Join(dir, candidate.TargetName())
	outcome, err := s.Copier.Copy(ctx, candidate.SourcePath, item.TargetPath, domain.CopyOptions{
		DryRun:  s.DryRun,
		Verbose: s.Verbose,
	})
	if err != nil {
		s.fail(&item, appErrors.Wrap(appErrors.CopyFailure, "copy", candidate.SourcePath, err))
		return item
	}
	item.Outcome = outcome
	s.Logger.Verbosef("%s %s -> %s", outcome, candidate.RelativePath, item.TargetPath)

	if s.Purge {
		item.Purged = s.purge(candidate.SourcePath, counters)
	}
	return item
}

func (s *Syncer) fail(item *domain.SyncItem, err error) {
	item.Outcome = domain.OutcomeFailed
	item.Err = err.Error()
	s.Logger.Errorf("%s", appErrors.UserMessage(err))
}

func (s *Syncer) ensureDir(dir string, counters *domain.Counters) error {
	exists, err := s.FS.Exists(dir)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if s.DryRun {
		s.Logger.Verbosef("Would create %s", dir)
		return nil
	}
	s.Logger.Verbosef("Creating %s", dir)
	if err := s.FS.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	counters.DirsCreated++
	return nil
}

// purge removes the source after a successful copy. Failures are reported
// but do not fail the file.
func (s *Syncer) purge(path string, counters *domain.Counters) bool {
	if s.DryRun {
		s.Logger.Verbosef("Would remove %s", path)
		return false
	}
	if err := s.FS.Remove(path); err != nil {
		counters.PurgeFailures++
		s.Logger.Errorf("%s", appErrors.UserMessage(appErrors.Wrap(appErrors.IOFailure, "remove", path, fmt.Errorf("purge source: %w", err))))
		return false
	}
	s.Logger.Verbosef("Removed %s", path)
	return true
}

func (s *Syncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
