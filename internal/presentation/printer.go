package presentation

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"syncphotos/internal/domain"
)

type Printer struct {
	Writer  io.Writer
	Verbose bool
}

// PrintSummary reports the outcome of a run. Verbose printers also list the
// processed files.
func (p Printer) PrintSummary(counters domain.Counters, dryRun bool) {
	if p.Verbose && len(counters.Items) > 0 {
		fmt.Fprintln(p.Writer, "Files:")
		fmt.Fprintln(p.Writer)
		for _, line := range formatItemLines(counters.Items) {
			fmt.Fprintln(p.Writer, line)
		}
		fmt.Fprintln(p.Writer)
	}

	if dryRun {
		fmt.Fprintf(p.Writer, "Would copy %d of %d photos (%s).\n", counters.WouldCopy, counters.Candidates, humanize.Bytes(uint64(counters.Bytes)))
	} else {
		fmt.Fprintf(p.Writer, "Copied %d of %d photos (%s).\n", counters.Copied, counters.Candidates, humanize.Bytes(uint64(counters.Bytes)))
	}
	fmt.Fprintf(p.Writer, "%d already up to date, %d failed.\n", counters.UpToDate, counters.Failed)
	fmt.Fprintf(p.Writer, "Scanned %d directories, created %d.\n", counters.DirsScanned, counters.DirsCreated)

	if counters.MissingMetadata > 0 {
		fmt.Fprintf(p.Writer, "%d photos had no exif date and were filed under the run date.\n", counters.MissingMetadata)
	}
	if counters.Purged > 0 || counters.PurgeFailures > 0 {
		fmt.Fprintf(p.Writer, "Purged %d source files, %d could not be removed.\n", counters.Purged, counters.PurgeFailures)
	}
	fmt.Fprintf(p.Writer, "Finished in %s.\n", formatElapsed(counters.Elapsed))

	if p.Verbose && counters.Failed > 0 {
		fmt.Fprintln(p.Writer)
		fmt.Fprintln(p.Writer, "Failures:")
		for _, item := range counters.Items {
			if item.Outcome == domain.OutcomeFailed {
				fmt.Fprintln(p.Writer, "- "+item.Err)
			}
		}
	}
}

func formatItemLines(items []domain.SyncItem) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, formatItem(item))
	}

	if len(lines) <= 4 {
		return lines
	}
	head := lines[:2]
	tail := lines[len(lines)-2:]
	return append(append(head[:2:2], fmt.Sprintf("... %d more ...", len(lines)-4)), tail...)
}

func formatItem(item domain.SyncItem) string {
	if item.Outcome == domain.OutcomeFailed {
		return fmt.Sprintf("Fail %s", item.Candidate.RelativePath)
	}
	date := item.TakenAt.Format("2006-01-02 15:04")
	return fmt.Sprintf("%s %s  %s", verb(item.Outcome), item.Candidate.RelativePath, date)
}

func verb(outcome domain.Outcome) string {
	switch outcome {
	case domain.OutcomeCopied:
		return "Copy"
	case domain.OutcomeWouldCopy:
		return "Would copy"
	case domain.OutcomeUpToDate:
		return "Keep"
	default:
		return string(outcome)
	}
}

func formatElapsed(elapsed time.Duration) string {
	if elapsed < time.Second {
		return elapsed.Round(time.Millisecond).String()
	}
	return elapsed.Round(time.Second).String()
}
