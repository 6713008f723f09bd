package copier

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"syncphotos/internal/domain"
	"syncphotos/internal/logging"
)

const (
	Auto       = "auto"
	RsyncName  = "rsync"
	NativeName = "native"
)

// Copier is implemented by Rsync and Native.
type Copier interface {
	Copy(ctx context.Context, src, dst string, opts domain.CopyOptions) (domain.Outcome, error)
	String() string
}

var lookPath = exec.LookPath

func Names() []string {
	return []string{Auto, RsyncName, NativeName}
}

// New returns the copier registered under name. Auto prefers rsync and falls
// back to the native copier when rsync is not installed.
func New(name string, logger logging.Logger) (Copier, error) {
	switch strings.ToLower(name) {
	case "", Auto:
		if path, err := lookPath("rsync"); err == nil {
			return NewRsync(path, logger), nil
		}
		logger.Warnf("rsync not found on PATH, using native copy")
		return Native{Logger: logger}, nil
	case RsyncName:
		path, err := lookPath("rsync")
		if err != nil {
			return nil, fmt.Errorf("rsync not found: %w", err)
		}
		return NewRsync(path, logger), nil
	case NativeName:
		return Native{Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown copier %q, one of [%s]", name, strings.Join(Names(), ","))
	}
}
