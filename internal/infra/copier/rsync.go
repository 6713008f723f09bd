package copier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"syncphotos/internal/domain"
	"syncphotos/internal/logging"
)

// Rsync delegates the transfer to the rsync binary in archive mode, which
// preserves attributes and skips files that are already up to date. Source
// symlinks are dereferenced.
type Rsync struct {
	Binary string
	Runner Runner
	Logger logging.Logger
}

func NewRsync(binary string, logger logging.Logger) Rsync {
	return Rsync{
		Binary: binary,
		Runner: Runner{Logger: logger},
		Logger: logger,
	}
}

func (r Rsync) Copy(ctx context.Context, src, dst string, opts domain.CopyOptions) (domain.Outcome, error) {
	// rsync would copy into a directory at dst instead of failing
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		return domain.OutcomeFailed, fmt.Errorf("destination %s is a directory", dst)
	}
	if opts.DryRun {
		if _, err := os.Stat(filepath.Dir(dst)); os.IsNotExist(err) {
			r.Logger.Verbosef("Would copy %s to %s", src, dst)
			return domain.OutcomeWouldCopy, nil
		}
	}

	out, err := r.Runner.Run(ctx, r.binary(), rsyncArgs(src, dst, opts)...)
	if err != nil {
		return domain.OutcomeFailed, err
	}
	if opts.Verbose && strings.TrimSpace(out) != "" {
		r.Logger.Infof("%s", strings.TrimSpace(out))
	}
	return parseItemized(out, opts.DryRun), nil
}

func (r Rsync) binary() string {
	if r.Binary == "" {
		return "rsync"
	}
	return r.Binary
}

func rsyncArgs(src, dst string, opts domain.CopyOptions) []string {
	flags := "-a"
	if opts.Verbose {
		flags += "v"
	}
	// --copy-links transfers the file a source symlink points to
	args := []string{flags, "--copy-links", "--itemize-changes"}
	if opts.DryRun {
		args = append(args, "--dry-run")
	}
	return append(args, "--", src, dst)
}

// parseItemized maps rsync --itemize-changes output to an outcome. A line
// starting with ">f" means the file was (or would be) transferred.
func parseItemized(out string, dryRun bool) domain.Outcome {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, ">f") {
			if dryRun {
				return domain.OutcomeWouldCopy
			}
			return domain.OutcomeCopied
		}
	}
	return domain.OutcomeUpToDate
}

func (r Rsync) String() string {
	return fmt.Sprintf("rsync (%s)", r.binary())
}
