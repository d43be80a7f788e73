package nextver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys. They double as flag names and, upper-cased with a
// NEXTVER_ prefix, as environment variables.
const (
	KeyPrefix             = "prefix"
	KeyEnforce            = "enforce"
	KeyRequire            = "require"
	KeyCheck              = "check"
	KeyForce              = "force"
	KeyFirst              = "first"
	KeyScope              = "scope"
	KeyPackage            = "package"
	KeyNumber             = "number"
	KeyNoBump             = "no-bump"
	KeySetEnv             = "set-env"
	KeyFormat             = "format"
	KeyFailBelowThreshold = "fail-below-threshold"
)

// ConfigFileName is the configuration file looked up in the repository root.
const ConfigFileName = ".nextver"

// EnvPrefix prefixes environment overrides, e.g. NEXTVER_PREFIX.
const EnvPrefix = "NEXTVER"

// Options is the flat, string-typed view of all settings as merged from
// flags, environment and the config file.
type Options struct {
	Prefix             string
	Enforce            string
	Require            []string
	Check              string
	Force              string
	First              bool
	Scope              string
	Package            string
	Number             bool
	NoBump             bool
	SetEnv             string
	Format             string
	FailBelowThreshold bool
}

// NewViper returns a viper instance reading NEXTVER_* variables and the
// config file. An explicit configFile must exist; otherwise .nextver.yaml
// is looked up in each of dirs and may be absent.
func NewViper(configFile string, dirs ...string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyPrefix, DefaultPrefix)
	v.SetDefault(KeyEnforce, LevelFeature.String())
	v.SetDefault(KeyFormat, string(FormatText))

	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigFileName)
		for _, d := range dirs {
			v.AddConfigPath(d)
		}
	}
	if configFile == "" && len(dirs) == 0 {
		return v, nil
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return v, nil
}

// LoadOptions reads all keys from v.
func LoadOptions(v *viper.Viper) Options {
	return Options{
		Prefix:             v.GetString(KeyPrefix),
		Enforce:            v.GetString(KeyEnforce),
		Require:            v.GetStringSlice(KeyRequire),
		Check:              v.GetString(KeyCheck),
		Force:              v.GetString(KeyForce),
		First:              v.GetBool(KeyFirst),
		Scope:              v.GetString(KeyScope),
		Package:            v.GetString(KeyPackage),
		Number:             v.GetBool(KeyNumber),
		NoBump:             v.GetBool(KeyNoBump),
		SetEnv:             v.GetString(KeySetEnv),
		Format:             v.GetString(KeyFormat),
		FailBelowThreshold: v.GetBool(KeyFailBelowThreshold),
	}
}

// Config converts the options into a calculation config. The package
// option is not resolved here; see ResolvePackage.
func (o Options) Config() (Config, error) {
	cfg := DefaultConfig()
	if o.Prefix != "" {
		cfg.Prefix = o.Prefix
	}
	if o.Enforce != "" {
		l, err := ParseLevel(o.Enforce)
		if err != nil {
			return Config{}, fmt.Errorf("enforce: %w", err)
		}
		cfg.EnforceLevel = l
	}
	for _, r := range o.Require {
		if r = strings.TrimSpace(r); r != "" {
			cfg.RequiredFiles = append(cfg.RequiredFiles, r)
		}
	}
	if o.Check != "" && o.Check != LevelNone.String() {
		l, err := ParseLevel(o.Check)
		if err != nil {
			return Config{}, fmt.Errorf("check: %w", err)
		}
		cfg.CheckLevel = &l
	}
	if o.Force != "" {
		k, err := ParseForceKind(o.Force)
		if err != nil {
			return Config{}, err
		}
		d := ForceDirective{Kind: k}
		if _, isPre := k.label(); isPre {
			d.AsFirst = o.First
		} else if o.First && k != ForceFirst {
			return Config{}, fmt.Errorf("--first cannot be combined with --force %s", k)
		}
		cfg.Force = &d
	} else {
		cfg.FirstVersion = o.First
	}
	cfg.ScopeFilter = o.Scope
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReportOptions returns the output settings.
func (o Options) ReportOptions() (ReportOptions, error) {
	format, err := ParseFormat(o.Format)
	if err != nil {
		return ReportOptions{}, err
	}
	return ReportOptions{
		Format: format,
		Bump:   !o.NoBump,
		Number: o.Number,
		SetEnv: o.SetEnv,
	}, nil
}
