package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	appErrors "syncphotos/internal/errors"
)

const (
	AppName        = "sync-photos"
	EnvDestination = "SYNC_PHOTOS"
)

// Options is the effective configuration of a single run.
type Options struct {
	Source      string
	Destination string
	DryRun      bool
	Verbose     bool
	Quiet       bool
	Debug       bool
	Progress    bool
	Purge       bool
	Yes         bool
	Log         string
	Copier      string
	Profile     string
}

func DefaultOptions() Options {
	user := currentUser()
	return Options{
		Source:      defaultSource(user, runtime.GOOS),
		Destination: defaultDestination(user),
		Copier:      "auto",
	}
}

// DefaultConfigPath is sync-photos.json beside the executable.
func DefaultConfigPath() string {
	exe, err := os.Executable()
	if err != nil {
		return AppName + ".json"
	}
	return filepath.Join(filepath.Dir(exe), AppName+".json")
}

// Overrides holds the command-line values that were explicitly set.
type Overrides struct {
	Source      *string
	Destination *string
	Log         *string
	Copier      *string
	DryRun      *bool
	Verbose     *bool
	Quiet       *bool
	Debug       *bool
	Progress    *bool
	Purge       *bool
	Yes         *bool
}

func (o Overrides) Apply(opts *Options) {
	setString(&opts.Source, o.Source)
	setString(&opts.Destination, o.Destination)
	setString(&opts.Log, o.Log)
	setString(&opts.Copier, o.Copier)
	setBool(&opts.DryRun, o.DryRun)
	setBool(&opts.Debug, o.Debug)
	setBool(&opts.Progress, o.Progress)
	setBool(&opts.Purge, o.Purge)
	setBool(&opts.Yes, o.Yes)
	if o.Quiet != nil {
		opts.Quiet = *o.Quiet
		if opts.Quiet {
			opts.Verbose = false
		}
	}
	if o.Verbose != nil {
		opts.Verbose = *o.Verbose
		if opts.Verbose {
			opts.Quiet = false
		}
	}
}

// Resolve merges the defaults, the named profile (if any) and the overrides,
// validates the result and creates the destination directory.
func Resolve(defaults Options, profiles Profiles, profile string, overrides Overrides) (Options, error) {
	opts := defaults
	if profile != "" {
		if err := profiles.Apply(profile, &opts); err != nil {
			return Options{}, appErrors.Wrap(appErrors.InvalidConfig, "config", profile, err)
		}
	}
	overrides.Apply(&opts)

	if err := normalize(&opts); err != nil {
		return Options{}, appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
	}

	info, err := os.Stat(opts.Source)
	if err != nil {
		return Options{}, appErrors.Wrap(appErrors.NotFound, "stat", opts.Source, err)
	}
	if !info.IsDir() {
		return Options{}, appErrors.Wrap(appErrors.InvalidConfig, "config", opts.Source, fmt.Errorf("source %s is not a directory", opts.Source))
	}

	if err := os.MkdirAll(opts.Destination, 0o755); err != nil {
		return Options{}, appErrors.Wrap(appErrors.IOFailure, "mkdir", opts.Destination, err)
	}
	return opts, nil
}

func normalize(opts *Options) error {
	if strings.TrimSpace(opts.Source) == "" {
		return errors.New("source directory not set")
	}
	if strings.TrimSpace(opts.Destination) == "" {
		return errors.New("destination directory not set")
	}

	var err error
	if opts.Source, err = absPath(opts.Source); err != nil {
		return err
	}
	if opts.Destination, err = absPath(opts.Destination); err != nil {
		return err
	}
	if opts.Log != "" {
		if opts.Log, err = absPath(opts.Log); err != nil {
			return err
		}
	}
	if opts.Quiet && opts.Verbose {
		opts.Quiet = false
	}
	return nil
}

func absPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

func currentUser() string {
	for _, key := range []string{"USER", "LOGNAME"} {
		if user := envOrEmpty(key); user != "" {
			return user
		}
	}
	return "unknown"
}

func defaultSource(user, goos string) string {
	if goos == "darwin" {
		return "/Volumes"
	}
	return filepath.Join("/run/media", user)
}

func defaultDestination(user string) string {
	if dst := envOrEmpty(EnvDestination); dst != "" {
		return dst
	}
	base := "/var/tmp"
	if runtime.GOOS == "windows" {
		base = os.TempDir()
	}
	return filepath.Join(base, AppName, user, "backup")
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

func setBool(dst *bool, value *bool) {
	if value != nil {
		*dst = *value
	}
}

func envOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
