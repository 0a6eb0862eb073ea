package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	EngineTesseract = "tesseract"
	EngineVision    = "vision"
	EngineLibrary   = "library"

	DefaultLangs         = "eng"
	DefaultOCRTimeout    = 5 * time.Second
	DefaultHideSettle    = 150 * time.Millisecond
	DefaultStopHotkey    = "Ctrl+Alt+Q"
	DefaultVisionBaseURL = "https://openrouter.ai/api/v1"
	DefaultAPIKeyPath    = "/run/secrets/api_keys/openrouter"

	APIKeyPathEnvVar = "OPENROUTER_API_KEY_FILE"
	ConfigFileEnvVar = "TEXTSHOT_CONFIG"
	EnvFileEnvVar    = "TEXTSHOT_ENV"
)

type LoadOptions struct {
	// ConfigFile is a TOML file; when empty $TEXTSHOT_CONFIG is consulted.
	ConfigFile         string
	APIKeyPathOverride string
}

type Config struct {
	Engine            string
	TesseractPath     string
	OCRTimeout        time.Duration
	Langs             string
	Interval          time.Duration
	IntervalSet       bool
	StopHotkey        string
	HideSettle        time.Duration
	Notifications     bool
	EnableFileLogging bool
	LogLevel          string

	APIKey        string
	APIKeyPath    string
	VisionModel   string
	VisionBaseURL string
}

// IntervalMode reports whether an interval was given at all. A zero
// interval still selects interval mode.
func (c *Config) IntervalMode() bool { return c.IntervalSet }

// SetInterval selects interval mode with period d.
func (c *Config) SetInterval(d time.Duration) {
	c.Interval = d
	c.IntervalSet = true
}

type fileConfig struct {
	OCR struct {
		Engine        string `toml:"engine"`
		TesseractPath string `toml:"tesseract_path"`
		TimeoutMS     int    `toml:"timeout_ms"`
		Langs         string `toml:"langs"`
	} `toml:"ocr"`
	Capture struct {
		IntervalMS   *int   `toml:"interval_ms"`
		HideSettleMS int    `toml:"hide_settle_ms"`
		StopHotkey   string `toml:"stop_hotkey"`
	} `toml:"capture"`
	Vision struct {
		Model      string `toml:"model"`
		BaseURL    string `toml:"base_url"`
		APIKeyFile string `toml:"api_key_file"`
	} `toml:"vision"`
	Log struct {
		File  *bool  `toml:"file"`
		Level string `toml:"level"`
	} `toml:"log"`
	Notifications *bool `toml:"notifications"`
}

func defaults() *Config {
	return &Config{
		Engine:        EngineTesseract,
		OCRTimeout:    DefaultOCRTimeout,
		Langs:         DefaultLangs,
		StopHotkey:    DefaultStopHotkey,
		HideSettle:    DefaultHideSettle,
		Notifications: true,
		LogLevel:      "info",
		VisionBaseURL: DefaultVisionBaseURL,
		APIKeyPath:    DefaultAPIKeyPath,
	}
}

// LoadWithOptions resolves configuration in increasing priority:
// built-in defaults, the TOML file, then environment variables (a .env
// beside the executable, or the file named by $TEXTSHOT_ENV, is loaded into
// the environment first without overriding variables already set).
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	cfg := defaults()

	if path := resolveConfigFile(opts); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	envPath := resolveEnvPath()
	dotenvValues := readDotenvValues(envPath)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.APIKeyPath = resolveAPIKeyPath(cfg.APIKeyPath, opts, dotenvValues)
	cfg.APIKey = resolveAPIKey(cfg.APIKeyPath)
	cfg.Engine = strings.ToLower(strings.TrimSpace(cfg.Engine))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later in a confusing way.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineTesseract, EngineVision, EngineLibrary:
	default:
		return fmt.Errorf("unknown OCR engine %q (want %s, %s or %s)", c.Engine, EngineTesseract, EngineVision, EngineLibrary)
	}
	if c.OCRTimeout <= 0 {
		return fmt.Errorf("OCR timeout must be positive, got %s", c.OCRTimeout)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %s", c.Interval)
	}
	return nil
}

func resolveConfigFile(opts LoadOptions) string {
	if p := strings.TrimSpace(opts.ConfigFile); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv(ConfigFileEnvVar))
}

func applyFile(cfg *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	setString(&cfg.Engine, fc.OCR.Engine)
	setString(&cfg.TesseractPath, fc.OCR.TesseractPath)
	setMillis(&cfg.OCRTimeout, fc.OCR.TimeoutMS)
	setString(&cfg.Langs, fc.OCR.Langs)
	if fc.Capture.IntervalMS != nil {
		cfg.SetInterval(time.Duration(*fc.Capture.IntervalMS) * time.Millisecond)
	}
	setMillis(&cfg.HideSettle, fc.Capture.HideSettleMS)
	setString(&cfg.StopHotkey, fc.Capture.StopHotkey)
	setString(&cfg.VisionModel, fc.Vision.Model)
	setString(&cfg.VisionBaseURL, fc.Vision.BaseURL)
	setString(&cfg.APIKeyPath, fc.Vision.APIKeyFile)
	setString(&cfg.LogLevel, fc.Log.Level)
	if fc.Log.File != nil {
		cfg.EnableFileLogging = *fc.Log.File
	}
	if fc.Notifications != nil {
		cfg.Notifications = *fc.Notifications
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Engine, os.Getenv("OCR_ENGINE"))
	setString(&cfg.TesseractPath, os.Getenv("TESSERACT_PATH"))
	setString(&cfg.Langs, os.Getenv("LANGS"))
	setString(&cfg.StopHotkey, os.Getenv("STOP_HOTKEY"))
	setString(&cfg.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&cfg.VisionModel, os.Getenv("VISION_MODEL"))
	setString(&cfg.VisionBaseURL, os.Getenv("VISION_BASE_URL"))

	for key, dst := range map[string]*time.Duration{
		"OCR_TIMEOUT_MS": &cfg.OCRTimeout,
		"HIDE_SETTLE_MS": &cfg.HideSettle,
	} {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer number of milliseconds: %w", key, err)
		}
		*dst = time.Duration(n) * time.Millisecond
	}

	if v := strings.TrimSpace(os.Getenv("INTERVAL_MS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("INTERVAL_MS must be an integer number of milliseconds: %w", err)
		}
		cfg.SetInterval(time.Duration(n) * time.Millisecond)
	}

	if v := os.Getenv("ENABLE_FILE_LOGGING"); v != "" {
		cfg.EnableFileLogging = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("NOTIFICATIONS"); v != "" {
		cfg.Notifications = !strings.EqualFold(v, "false")
	}
	return nil
}

func resolveEnvPath() string {
	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvFileEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func readDotenvValues(envPath string) map[string]string {
	if envPath == "" {
		return map[string]string{}
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		return map[string]string{}
	}

	return values
}

func resolveAPIKeyPath(current string, opts LoadOptions, dotenvValues map[string]string) string {
	keyPath := current

	if envPath := strings.TrimSpace(os.Getenv(APIKeyPathEnvVar)); envPath != "" {
		keyPath = envPath
	}

	if dotenvPath := strings.TrimSpace(dotenvValues[APIKeyPathEnvVar]); dotenvPath != "" {
		keyPath = dotenvPath
	}

	if overridePath := strings.TrimSpace(opts.APIKeyPathOverride); overridePath != "" {
		keyPath = overridePath
	}

	return keyPath
}

func resolveAPIKey(keyPath string) string {
	if data, err := os.ReadFile(keyPath); err == nil {
		if fileKey := strings.TrimSpace(string(data)); fileKey != "" {
			return fileKey
		}
	}

	return os.Getenv("OPENROUTER_API_KEY")
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setMillis(dst *time.Duration, ms int) {
	if ms > 0 {
		*dst = time.Duration(ms) * time.Millisecond
	}
}
