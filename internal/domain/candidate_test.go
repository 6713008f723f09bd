package domain

import (
	"testing"
	"time"
)

func TestIsImageName(t *testing.T) {
	cases := map[string]bool{
		"IMG_0001.JPG":  true,
		"img_0001.jpeg": true,
		"screen.PnG":    true,
		".jpg":          true,
		"clip.mov":      false,
		"notes.jpg.txt": false,
		"IMG_0001":      false,
		"archive.jpgx":  false,
		"thumb.Jpeg":    true,
	}
	for name, want := range cases {
		if got := IsImageName(name); got != want {
			t.Errorf("IsImageName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestCandidateTargetName(t *testing.T) {
	c := NewCandidate("/src/DCIM/IMG_0001.JPG", "DCIM/IMG_0001.JPG", 10)
	if c.Name != "IMG_0001.JPG" {
		t.Fatalf("unexpected name %q", c.Name)
	}
	if c.TargetName() != "img_0001.jpg" {
		t.Fatalf("unexpected target name %q", c.TargetName())
	}
}

func TestCountersRecord(t *testing.T) {
	var c Counters
	now := time.Now()
	c.Record(SyncItem{Candidate: Candidate{Size: 100}, TakenAt: now, Outcome: OutcomeCopied, Purged: true})
	c.Record(SyncItem{Candidate: Candidate{Size: 50}, TakenAt: now, Outcome: OutcomeUpToDate, DateFallback: true})
	c.Record(SyncItem{Candidate: Candidate{Size: 70}, Outcome: OutcomeFailed})

	if c.Copied != 1 || c.UpToDate != 1 || c.Failed != 1 {
		t.Fatalf("unexpected outcome counts: %+v", c)
	}
	if c.Bytes != 100 {
		t.Fatalf("expected 100 bytes, got %d", c.Bytes)
	}
	if c.Purged != 1 || c.MissingMetadata != 1 {
		t.Fatalf("unexpected purge/metadata counts: %+v", c)
	}
	if len(c.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(c.Items))
	}
}
