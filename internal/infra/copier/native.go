package copier

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/djherbis/times.v1"

	"syncphotos/internal/domain"
	"syncphotos/internal/logging"
)

// Native copies files in-process. Like rsync's quick check, a destination
// with the same size and modification time is left alone.
type Native struct {
	Logger logging.Logger
}

func (n Native) Copy(ctx context.Context, src, dst string, opts domain.CopyOptions) (domain.Outcome, error) {
	select {
	case <-ctx.Done():
		return domain.OutcomeFailed, ctx.Err()
	default:
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return domain.OutcomeFailed, err
	}
	if !srcInfo.Mode().IsRegular() {
		return domain.OutcomeFailed, fmt.Errorf("%s is not a regular file", src)
	}

	dstInfo, err := os.Stat(dst)
	switch {
	case err == nil:
		if dstInfo.IsDir() {
			return domain.OutcomeFailed, fmt.Errorf("destination %s is a directory", dst)
		}
		if upToDate(srcInfo, dstInfo) {
			n.Logger.Verbosef("%s is up to date", dst)
			return domain.OutcomeUpToDate, nil
		}
	case !os.IsNotExist(err):
		return domain.OutcomeFailed, err
	}

	if opts.DryRun {
		n.Logger.Verbosef("Would copy %s to %s", src, dst)
		return domain.OutcomeWouldCopy, nil
	}

	if err := copyFile(src, dst, srcInfo); err != nil {
		return domain.OutcomeFailed, err
	}
	n.Logger.Verbosef("Copied %s to %s", src, dst)
	return domain.OutcomeCopied, nil
}

func (Native) String() string {
	return NativeName
}

func upToDate(src, dst fs.FileInfo) bool {
	return src.Size() == dst.Size() &&
		src.ModTime().Truncate(time.Second).Equal(dst.ModTime().Truncate(time.Second))
}

// copyFile writes into a temporary file beside dst and renames it into place
// so an interrupted copy never leaves a truncated file at dst.
func copyFile(src, dst string, srcInfo fs.FileInfo) (err error) {
	accessTime := srcInfo.ModTime()
	if ts, statErr := times.Stat(src); statErr == nil {
		accessTime = ts.AccessTime()
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), srcInfo.Mode().Perm()); err != nil {
		return err
	}
	if err = os.Chtimes(tmp.Name(), accessTime, srcInfo.ModTime()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
