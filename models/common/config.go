package common

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/op/go-logging"
	"github.com/spf13/viper"
	"gitlab.gbv.de/nationallizenzen/nl-export/constants"
	"gitlab.gbv.de/nationallizenzen/nl-export/util"
	"gopkg.in/ini.v1"
)

// Config holds the settings from the nl-export INI file. Only the
// [plone] section is required. The [redis], [s3] and [nsq] sections
// switch on optional features when present.
type Config struct {
	AccessToken    string
	BaseURL        string
	ConfigFile     string
	LogDir         string
	LogLevel       logging.Level
	NSQTopic       string
	NSQdAddress    string
	RedisDB        int
	RedisPassword  string
	RedisTTL       time.Duration
	RedisURL       string
	RequestTimeout time.Duration
	S3Bucket       string
	S3Host         string
	S3KeyID        string
	S3Prefix       string
	S3Region       string
	S3SecretKey    string
	S3Secure       bool
	Workers        int
}

var logLevels = map[string]logging.Level{
	"CRITICAL": logging.CRITICAL,
	"ERROR":    logging.ERROR,
	"WARNING":  logging.WARNING,
	"NOTICE":   logging.NOTICE,
	"INFO":     logging.INFO,
	"DEBUG":    logging.DEBUG,
}

// DefaultConfigPath returns the path of the config file to use when
// the user did not name one on the command line. The env var
// NL_EXPORT_CONFIG takes precedence over the per-user config dir.
func DefaultConfigPath() string {
	if path := os.Getenv(constants.EnvConfigFile); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, constants.AppName, constants.ConfigFileName)
}

// LoadConfig reads the INI file at configFile. Settings in the
// environment override settings in the file. For example,
// NL_EXPORT_PLONE_ACCESS_TOKEN overrides access-token in [plone].
//
// This returns an error wrapping ErrConfigMissing if the file does
// not exist.
func LoadConfig(configFile string) (*Config, error) {
	if configFile == "" {
		configFile = DefaultConfigPath()
	}
	configFile, err := util.ExpandTilde(configFile)
	if err != nil {
		return nil, err
	}
	if !util.FileExists(configFile) {
		return nil, fmt.Errorf("%w: %s", ErrConfigMissing, configFile)
	}
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("ini")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", configFile, err)
	}
	logLevel, ok := logLevels[strings.ToUpper(v.GetString("export.log-level"))]
	if !ok {
		logLevel = logging.WARNING
	}
	logDir, err := util.ExpandTilde(v.GetString("export.log-dir"))
	if err != nil {
		return nil, err
	}
	return &Config{
		AccessToken:    strings.TrimSpace(v.GetString("plone.access-token")),
		BaseURL:        strings.TrimRight(strings.TrimSpace(v.GetString("plone.base-url")), "/"),
		ConfigFile:     configFile,
		LogDir:         logDir,
		LogLevel:       logLevel,
		NSQTopic:       v.GetString("nsq.topic"),
		NSQdAddress:    v.GetString("nsq.nsqd"),
		RedisDB:        v.GetInt("redis.db"),
		RedisPassword:  v.GetString("redis.password"),
		RedisTTL:       v.GetDuration("redis.ttl"),
		RedisURL:       v.GetString("redis.url"),
		RequestTimeout: v.GetDuration("plone.timeout"),
		S3Bucket:       v.GetString("s3.bucket"),
		S3Host:         v.GetString("s3.host"),
		S3KeyID:        v.GetString("s3.key-id"),
		S3Prefix:       strings.Trim(v.GetString("s3.prefix"), "/"),
		S3Region:       v.GetString("s3.region"),
		S3SecretKey:    v.GetString("s3.secret-key"),
		S3Secure:       v.GetBool("s3.secure"),
		Workers:        v.GetInt("export.workers"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("export.log-level", "WARNING")
	v.SetDefault("export.workers", constants.DefaultWorkers)
	v.SetDefault("nsq.topic", constants.DefaultNSQTopic)
	v.SetDefault("plone.timeout", constants.DefaultRequestTimeout)
	v.SetDefault("redis.ttl", constants.DefaultRedisTTL)
	v.SetDefault("s3.region", constants.DefaultS3Region)
	v.SetDefault("s3.secure", true)
}

// Validate makes sure the settings the exporter cannot run without
// are present and sane.
func (c *Config) Validate() error {
	errs := make([]string, 0)
	if c.AccessToken == "" {
		errs = append(errs, "access-token is missing in [plone]")
	}
	if c.BaseURL == "" {
		errs = append(errs, "base-url is missing in [plone]")
	} else if u, err := url.Parse(c.BaseURL); err != nil || u.Host == "" {
		errs = append(errs, fmt.Sprintf("base-url '%s' is not an absolute URL", c.BaseURL))
	}
	if c.Workers < 1 {
		errs = append(errs, "workers in [export] must be at least 1")
	}
	if c.S3Enabled() && c.S3Bucket == "" {
		errs = append(errs, "bucket is missing in [s3]")
	}
	if len(errs) > 0 {
		return NewError(
			fmt.Sprintf("invalid configuration in %s", c.ConfigFile),
			fmt.Errorf("%s", strings.Join(errs, "; ")),
			true)
	}
	return nil
}

// RedisEnabled returns true if the state title cache should be shared
// through Redis.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

// S3Enabled returns true if exported artifacts should be uploaded.
func (c *Config) S3Enabled() bool {
	return c.S3Host != ""
}

// NSQEnabled returns true if export events should be published.
func (c *Config) NSQEnabled() bool {
	return c.NSQdAddress != ""
}

// WriteConfig creates a new config file containing the [plone] section.
// It refuses to overwrite an existing file.
func WriteConfig(configFile, accessToken, baseURL string) error {
	if util.FileExists(configFile) {
		return fmt.Errorf("config file %s already exists", configFile)
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}
	cfg := ini.Empty()
	section, err := cfg.NewSection("plone")
	if err != nil {
		return err
	}
	if _, err = section.NewKey("access-token", strings.TrimSpace(accessToken)); err != nil {
		return err
	}
	if _, err = section.NewKey("base-url", strings.TrimSpace(baseURL)); err != nil {
		return err
	}
	return cfg.SaveTo(configFile)
}
