package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"syncphotos/internal/app"
	"syncphotos/internal/config"
	"syncphotos/internal/domain"
	appErrors "syncphotos/internal/errors"
	"syncphotos/internal/infra/copier"
	"syncphotos/internal/infra/exif"
	"syncphotos/internal/infra/fs"
	"syncphotos/internal/logging"
	"syncphotos/internal/presentation"
	"syncphotos/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap := logging.New(os.Stderr, logging.Options{})
	profiles, err := config.LoadProfiles(config.DefaultConfigPath(), bootstrap)
	if err != nil {
		exitWithError(appErrors.Wrap(appErrors.InvalidConfig, "config", "", err))
	}

	cmd := newRootCommand(profiles, func(opts config.Options) error {
		return run(ctx, profiles, opts)
	})
	if err := cmd.Execute(); err != nil {
		exitWithError(err)
	}
}

type flagValues struct {
	profile  string
	source   string
	dest     string
	log      string
	copier   string
	yes      bool
	dryRun   bool
	progress bool
	purge    bool
	noPurge  bool
	quiet    bool
	verbose  bool
	debug    bool
}

func newRootCommand(profiles config.Profiles, runFn func(config.Options) error) *cobra.Command {
	var values flagValues

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Sync photos from a camera card into a model/date layout",
		Long: `Copies every .jpg, .jpeg and .png below the source directory to
<dest>/<camera model>/<YYYY>/<MM>/<DD>/<lowercased name>, using the exif
capture date when present and the current date otherwise. Files that are
already up to date are left alone, so repeated runs are cheap.

Environment:
  ` + config.EnvDestination + `  default destination directory`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := config.Resolve(config.DefaultOptions(), profiles, values.profile, overridesFrom(cmd.Flags(), values))
			if err != nil {
				return err
			}
			return runFn(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&values.profile, "config", "c", "", configHelp(profiles))
	flags.StringVarP(&values.source, "src", "s", "", "source directory")
	flags.StringVarP(&values.dest, "dst", "d", "", "destination directory")
	flags.BoolVarP(&values.yes, "yes", "y", false, "answer yes to prompts")
	flags.BoolVarP(&values.dryRun, "dry-run", "n", false, "show what would be copied without copying")
	flags.BoolVarP(&values.progress, "progress", "p", false, "show a progress view")
	flags.BoolVar(&values.purge, "purge", false, "remove source files after a successful copy")
	flags.BoolVar(&values.noPurge, "no-purge", false, "keep source files")
	flags.BoolVarP(&values.quiet, "quiet", "q", false, "only report warnings and errors")
	flags.BoolVarP(&values.verbose, "verbose", "v", false, "report every file and command")
	flags.BoolVarP(&values.debug, "debug", "D", false, "debug logging")
	flags.StringVarP(&values.log, "log", "L", "", "append the log to this file")
	flags.StringVar(&values.copier, "copier", "", "copy backend, one of "+strings.Join(copier.Names(), ", "))

	cmd.MarkFlagsMutuallyExclusive("purge", "no-purge")
	cmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	return cmd
}

func configHelp(profiles config.Profiles) string {
	names := profiles.Names()
	if len(names) == 0 {
		return "named config to apply"
	}
	return "named config to apply, one of " + strings.Join(names, ", ")
}

// overridesFrom keeps only the flags the user actually set, so unset flags
// never mask profile values.
func overridesFrom(flags *pflag.FlagSet, values flagValues) config.Overrides {
	var o config.Overrides
	if flags.Changed("src") {
		o.Source = &values.source
	}
	if flags.Changed("dst") {
		o.Destination = &values.dest
	}
	if flags.Changed("log") {
		o.Log = &values.log
	}
	if flags.Changed("copier") {
		o.Copier = &values.copier
	}
	if flags.Changed("yes") {
		o.Yes = &values.yes
	}
	if flags.Changed("dry-run") {
		o.DryRun = &values.dryRun
	}
	if flags.Changed("progress") {
		o.Progress = &values.progress
	}
	if flags.Changed("quiet") {
		o.Quiet = &values.quiet
	}
	if flags.Changed("verbose") {
		o.Verbose = &values.verbose
	}
	if flags.Changed("debug") {
		o.Debug = &values.debug
	}
	if flags.Changed("purge") {
		o.Purge = &values.purge
	}
	if flags.Changed("no-purge") {
		purge := !values.noPurge
		o.Purge = &purge
	}
	return o
}

func run(ctx context.Context, profiles config.Profiles, opts config.Options) error {
	var (
		logOut   io.Writer = os.Stderr
		buffered *bytes.Buffer
	)
	if opts.Log != "" {
		file, err := logging.OpenFile(opts.Log)
		if err != nil {
			return appErrors.Wrap(appErrors.IOFailure, "open", opts.Log, err)
		}
		defer file.Close()
		logOut = file
	} else if opts.Progress {
		// The progress view owns the terminal; hold log lines until it exits.
		buffered = &bytes.Buffer{}
		logOut = buffered
	}

	logger := logging.New(logOut, logging.Options{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
		Debug:   opts.Debug,
	})
	if opts.Profile != "" {
		profiles.Log(opts.Profile, logger)
	}

	backend, err := copier.New(opts.Copier, logger)
	if err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "copier", opts.Copier, err)
	}
	logger.Debugf("Copying with %s", backend)

	syncer := &app.Syncer{
		FS:      fs.OSFS{},
		Exif:    exif.Reader{Logger: logger},
		Copier:  backend,
		Logger:  logger,
		DryRun:  opts.DryRun,
		Purge:   opts.Purge,
		Verbose: opts.Verbose,
	}

	var counters domain.Counters
	if opts.Progress {
		counters, err = tui.Run(ctx, tui.Config{
			SourceDir: opts.Source,
			TargetDir: opts.Destination,
			DryRun:    opts.DryRun,
			Purge:     opts.Purge,
		}, func(ctx context.Context, onScan func(int), onProgress func(int, int, string)) (domain.Counters, error) {
			syncer.OnScan = onScan
			syncer.OnProgress = onProgress
			return syncer.Run(ctx, opts.Source, opts.Destination)
		})
		if buffered != nil {
			_, _ = io.Copy(os.Stderr, buffered)
		}
	} else {
		counters, err = syncer.Run(ctx, opts.Source, opts.Destination)
	}
	if err != nil {
		if appErrors.KindOf(err) == appErrors.Internal {
			err = appErrors.Wrap(appErrors.Internal, "sync", opts.Source, err)
		}
		return err
	}

	if !opts.Quiet && !opts.Progress {
		printer := presentation.Printer{Writer: os.Stdout, Verbose: opts.Verbose}
		printer.PrintSummary(counters, opts.DryRun)
	}
	return nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, appErrors.UserMessage(err))
	os.Exit(1)
}
