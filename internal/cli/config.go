package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/taskdesk/internal/paths"
	"github.com/mesh-intelligence/taskdesk/internal/screen"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "TASKDESK"

	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyAuthSecret  = "auth.secret"
	cfgKeyNoticeDelay = "notice.delay"
	cfgKeyTimezone    = "timezone"
)

// configFile is the structure written to config.yaml on first run.
type configFile struct {
	Backend string `yaml:"backend"`
	DataDir string `yaml:"data_dir,omitempty"`
	Auth    struct {
		Secret string `yaml:"secret"`
	} `yaml:"auth"`
	Notice struct {
		Delay string `yaml:"delay"`
	} `yaml:"notice"`
	Timezone string `yaml:"timezone,omitempty"`
}

// settings is the resolved configuration of one command run.
type settings struct {
	configDir string
	store     types.Config
	secret    []byte
	delay     time.Duration
	location  *time.Location
}

// loadSettings resolves the directories, creates config.yaml on first run,
// and reads it with Viper. TASKDESK_* environment variables override file
// values.
func loadSettings() (settings, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt)); err != nil {
		return settings{}, fmt.Errorf("write config: %w", err)
	}

	v, err := readConfig(configDir)
	if err != nil {
		return settings{}, err
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w", err)
	}

	s := settings{
		configDir: configDir,
		store:     types.Config{Backend: v.GetString(cfgKeyBackend), DataDir: dataDir},
		secret:    []byte(v.GetString(cfgKeyAuthSecret)),
		delay:     v.GetDuration(cfgKeyNoticeDelay),
		location:  time.Local,
	}
	if err := s.store.Validate(); err != nil {
		return settings{}, fmt.Errorf("config %s: %w", cfgKeyBackend, err)
	}
	if tz := v.GetString(cfgKeyTimezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return settings{}, fmt.Errorf("config %s: %w", cfgKeyTimezone, err)
		}
		s.location = loc
	}
	return s, nil
}

func readConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyNoticeDelay, screen.DefaultNoticeDelay)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with defaults and a fresh session
// secret. An existing file is left alone.
func writeConfigIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	cfg := configFile{Backend: types.BackendSQLite}
	cfg.Auth.Secret = strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	cfg.Notice.Delay = screen.DefaultNoticeDelay.String()

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
