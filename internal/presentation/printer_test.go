package presentation

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"syncphotos/internal/domain"
)

func TestFormatItemLinesTruncates(t *testing.T) {
	items := make([]domain.SyncItem, 0, 6)
	for i := 0; i < 6; i++ {
		items = append(items, domain.SyncItem{
			Candidate: domain.Candidate{RelativePath: fmt.Sprintf("DCIM/IMG_000%d.JPG", i)},
			TakenAt:   time.Date(2024, 10, 2, 10+i, 0, 0, 0, time.Local),
			Outcome:   domain.OutcomeCopied,
		})
	}

	lines := formatItemLines(items)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if lines[2] != "... 2 more ..." {
		t.Fatalf("expected ellipsis, got %q", lines[2])
	}
	if lines[4] != "Copy DCIM/IMG_0005.JPG  2024-10-02 15:00" {
		t.Fatalf("unexpected last line %q", lines[4])
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printer := Printer{Writer: &buf, Verbose: true}

	now := time.Date(2021, 3, 5, 10, 30, 0, 0, time.Local)
	counters := domain.Counters{
		Items: []domain.SyncItem{
			{Candidate: domain.Candidate{RelativePath: "IMG_0001.JPG"}, TakenAt: now, Outcome: domain.OutcomeCopied},
			{Candidate: domain.Candidate{RelativePath: "broken.jpg"}, Outcome: domain.OutcomeFailed, Err: "exif: broken.jpg: corrupt"},
		},
		Candidates:  2,
		Copied:      1,
		Failed:      1,
		Bytes:       2_500_000,
		DirsScanned: 3,
		DirsCreated: 4,
		Elapsed:     1500 * time.Millisecond,
	}

	printer.PrintSummary(counters, false)
	output := buf.String()
	for _, want := range []string{
		"Copy IMG_0001.JPG  2021-03-05 10:30",
		"Fail broken.jpg",
		"Copied 1 of 2 photos (2.5 MB).",
		"0 already up to date, 1 failed.",
		"Scanned 3 directories, created 4.",
		"Failures:",
		"- exif: broken.jpg: corrupt",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestPrintSummaryDryRun(t *testing.T) {
	var buf bytes.Buffer
	Printer{Writer: &buf}.PrintSummary(domain.Counters{Candidates: 3, WouldCopy: 2, UpToDate: 1, Purged: 0}, true)

	output := buf.String()
	if !strings.Contains(output, "Would copy 2 of 3 photos") {
		t.Fatalf("expected dry run line, got:\n%s", output)
	}
	if strings.Contains(output, "Files:") {
		t.Fatalf("non-verbose printer must not list files")
	}
	if strings.Contains(output, "Purged") {
		t.Fatalf("did not expect purge line")
	}
}
