package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"syncphotos/internal/logging"
)

// Profiles are the named partial option sets of the configuration file:
//
//	{ "configs": { "<name>": { "<key>": <value>, ... }, ... } }
//
// Names and keys are case-insensitive.
type Profiles struct {
	path     string
	profiles map[string]map[string]any
}

type setter func(opts *Options, value any) error

var setters = map[string]setter{
	"src":      stringSetter(func(o *Options, v string) { o.Source = v }),
	"dst":      stringSetter(func(o *Options, v string) { o.Destination = v }),
	"log":      stringSetter(func(o *Options, v string) { o.Log = v }),
	"copier":   stringSetter(func(o *Options, v string) { o.Copier = v }),
	"dryrun":   boolSetter(func(o *Options, v bool) { o.DryRun = v }),
	"verbose":  boolSetter(func(o *Options, v bool) { o.Verbose = v }),
	"quiet":    boolSetter(func(o *Options, v bool) { o.Quiet = v }),
	"debug":    boolSetter(func(o *Options, v bool) { o.Debug = v }),
	"progress": boolSetter(func(o *Options, v bool) { o.Progress = v }),
	"purge":    boolSetter(func(o *Options, v bool) { o.Purge = v }),
	"yes":      boolSetter(func(o *Options, v bool) { o.Yes = v }),
}

// Keys lists the option keys a profile may set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for key := range setters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// LoadProfiles reads the profile document at path. A missing or unreadable
// file yields no profiles; malformed JSON is an error.
func LoadProfiles(path string, logger logging.Logger) (Profiles, error) {
	empty := Profiles{path: path}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		var parseErr viper.ConfigParseError
		if errors.As(err, &parseErr) {
			return empty, fmt.Errorf("failed to parse json config: %s [%w]", path, err)
		}
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debugf("No json config at %s", path)
		} else {
			logger.Errorf("reading json config: %s [%v]", path, err)
		}
		return empty, nil
	}

	profiles := map[string]map[string]any{}
	for name, raw := range v.GetStringMap("configs") {
		values, err := cast.ToStringMapE(raw)
		if err != nil {
			return empty, fmt.Errorf("config %s in %s is not an object", name, path)
		}
		profiles[strings.ToLower(name)] = values
	}
	return Profiles{path: path, profiles: profiles}, nil
}

// Names returns the profile names in sorted order.
func (p Profiles) Names() []string {
	names := make([]string, 0, len(p.profiles))
	for name := range p.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply copies the values of the named profile into opts. Nothing is applied
// when the name or any of its keys is unknown.
func (p Profiles) Apply(name string, opts *Options) error {
	profile, ok := p.profiles[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown config name %s", name)
	}

	keys := make([]string, 0, len(profile))
	for key := range profile {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := setters[strings.ToLower(key)]; !ok {
			return fmt.Errorf("unknown config value %s in %s, one of [%s]", key, name, strings.Join(Keys(), ","))
		}
	}

	next := *opts
	for _, key := range keys {
		if err := setters[strings.ToLower(key)](&next, profile[key]); err != nil {
			return fmt.Errorf("config value %s in %s: %w", key, name, err)
		}
	}
	next.Profile = name
	*opts = next
	return nil
}

// Log reports the values the named profile sets. It runs once the run's
// logger exists, so quiet and debug apply to it.
func (p Profiles) Log(name string, logger logging.Logger) {
	profile, ok := p.profiles[strings.ToLower(name)]
	if !ok {
		return
	}
	logger.Infof("Setting config values for %s", name)
	keys := make([]string, 0, len(profile))
	for key := range profile {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		logger.Debugf("opts[%s]=%v", key, profile[key])
	}
}

func stringSetter(set func(*Options, string)) setter {
	return func(opts *Options, value any) error {
		str, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		set(opts, str)
		return nil
	}
}

func boolSetter(set func(*Options, bool)) setter {
	return func(opts *Options, value any) error {
		b, err := cast.ToBoolE(value)
		if err != nil {
			return err
		}
		set(opts, b)
		return nil
	}
}
