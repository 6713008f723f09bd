package domain

import "time"

type Outcome string

const (
	OutcomeCopied    Outcome = "copied"
	OutcomeUpToDate  Outcome = "up-to-date"
	OutcomeWouldCopy Outcome = "would-copy"
	OutcomeFailed    Outcome = "failed"
)

type SyncItem struct {
	Candidate    Candidate
	TargetPath   string
	TakenAt      time.Time
	Outcome      Outcome
	DateFallback bool
	Purged       bool
	Err          string
}

// Counters are accumulated over a single run.
type Counters struct {
	Items           []SyncItem
	Candidates      int
	Copied          int
	UpToDate        int
	WouldCopy       int
	Failed          int
	Purged          int
	PurgeFailures   int
	MissingMetadata int
	Bytes           int64
	DirsCreated     int
	DirsScanned     int
	Elapsed         time.Duration
}

func (c *Counters) Record(item SyncItem) {
	c.Items = append(c.Items, item)
	switch item.Outcome {
	case OutcomeCopied:
		c.Copied++
		c.Bytes += item.Candidate.Size
	case OutcomeUpToDate:
		c.UpToDate++
	case OutcomeWouldCopy:
		c.WouldCopy++
		c.Bytes += item.Candidate.Size
	case OutcomeFailed:
		c.Failed++
	}
	if item.DateFallback {
		c.MissingMetadata++
	}
	if item.Purged {
		c.Purged++
	}
}

type CopyOptions struct {
	DryRun  bool
	Verbose bool
}
