package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
)

const DefaultConfigPath = "configs/config.yaml"

type Config struct {
	Backend   BackendConfig   `yaml:"backend"`
	State     StateConfig     `yaml:"state"`
	Studio    StudioConfig    `yaml:"studio"`
	Timing    TimingConfig    `yaml:"timing"`
	Templates TemplateConfig  `yaml:"templates"`
	Export    ExportConfig    `yaml:"export"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
	Unidoc    UnidocConfig    `yaml:"unidoc"`
}

type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type StateConfig struct {
	// Driver is "file" (single user, local) or "redis" (shared by studio replicas).
	Driver      string `yaml:"driver"`
	Dir         string `yaml:"dir"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
}

type StudioConfig struct {
	// Host is the studio's bind address. It defaults to loopback; set it to
	// 0.0.0.0 (or another interface) to expose the studio on the network.
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	// AllowedOrigins lists extra browser origins, such as a dev frontend, that
	// may call the studio besides its own.
	AllowedOrigins []string `yaml:"allowed_origins"`
	// CallbackAddr is where `resumectl login` listens for the OAuth redirect.
	CallbackAddr string `yaml:"callback_addr"`
}

type TimingConfig struct {
	AdminPoll   time.Duration `yaml:"admin_poll"`
	Autosave    time.Duration `yaml:"autosave"`
	AutoCompile time.Duration `yaml:"auto_compile"`
}

type TemplateConfig struct {
	Generation string `yaml:"generation"`
	Latex      string `yaml:"latex"`
}

type ExportConfig struct {
	// Sink is "local", "gcs", "minio" or "none".
	Sink string      `yaml:"sink"`
	Dir  string      `yaml:"dir"`
	GCS  GCSConfig   `yaml:"gcs"`
	S3   MinioConfig `yaml:"minio"`
	// InstallBrowser lets the PDF renderer download Chromium on first use.
	InstallBrowser bool `yaml:"install_browser"`
}

type GCSConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
}

type TelemetryConfig struct {
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	ServiceName  string  `yaml:"service_name"`
	Environment  string  `yaml:"environment"`
	SampleRatio  float64 `yaml:"sample_ratio"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type UnidocConfig struct {
	LicenseKey string `yaml:"license_key"`
}

// Load reads .env, then the YAML file named by RESUMECRAFT_CONFIG (optional),
// then environment overrides, then fills defaults and validates.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("RESUMECRAFT_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}
	return LoadFile(path, explicit)
}

// LoadFile is Load without .env. A missing file is an error only when required.
func LoadFile(path string, required bool) (*Config, error) {
	cfg := &Config{}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Backend.URL, "BACKEND_URL")
	setString(&c.State.Driver, "STATE_DRIVER")
	setString(&c.State.Dir, "STATE_DIR")
	setString(&c.State.RedisAddr, "REDIS_ADDR", "REDIS_URI", "REDIS_URL")
	setString(&c.State.RedisPrefix, "REDIS_PREFIX")
	setString(&c.Studio.Host, "STUDIO_HOST")
	setString(&c.Studio.Port, "PORT")
	if v := os.Getenv("STUDIO_ALLOWED_ORIGINS"); v != "" {
		c.Studio.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Studio.AllowedOrigins = append(c.Studio.AllowedOrigins, o)
			}
		}
	}
	setString(&c.Studio.CallbackAddr, "CALLBACK_ADDR")
	setString(&c.Templates.Generation, "DEFAULT_TEMPLATE")
	setString(&c.Templates.Latex, "DEFAULT_LATEX_TEMPLATE")
	setString(&c.Export.Sink, "EXPORT_SINK")
	setString(&c.Export.Dir, "EXPORT_DIR")
	setString(&c.Export.GCS.Bucket, "GCS_BUCKET")
	setString(&c.Export.GCS.Prefix, "GCS_PREFIX")
	setString(&c.Export.S3.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Export.S3.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Export.S3.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Export.S3.Bucket, "MINIO_BUCKET")
	setString(&c.Export.S3.Prefix, "MINIO_PREFIX")
	setString(&c.Export.S3.Region, "MINIO_REGION")
	setString(&c.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&c.Telemetry.ServiceName, "OTEL_SERVICE_NAME")
	setString(&c.Telemetry.Environment, "APP_ENV")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Unidoc.LicenseKey, "UNIDOC_LICENSE_API_KEY")

	durations := []struct {
		dst *time.Duration
		key string
	}{
		{&c.Backend.Timeout, "REQUEST_TIMEOUT"},
		{&c.Timing.AdminPoll, "ADMIN_POLL_INTERVAL"},
		{&c.Timing.Autosave, "AUTOSAVE_DELAY"},
		{&c.Timing.AutoCompile, "AUTOCOMPILE_DELAY"},
	}
	for _, d := range durations {
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", d.key, err)
			}
			*d.dst = parsed
		}
	}

	bools := []struct {
		dst *bool
		key string
	}{
		{&c.Export.S3.UseSSL, "MINIO_USE_SSL"},
		{&c.Export.InstallBrowser, "PLAYWRIGHT_INSTALL"},
	}
	for _, b := range bools {
		if v := os.Getenv(b.key); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", b.key, err)
			}
			*b.dst = parsed
		}
	}

	if v := os.Getenv("OTEL_SAMPLE_RATIO"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("OTEL_SAMPLE_RATIO: %w", err)
		}
		c.Telemetry.SampleRatio = parsed
	}
	return nil
}

// setString takes the first non-empty variable among keys.
func setString(dst *string, keys ...string) {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			*dst = v
			return
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Backend.URL == "" {
		c.Backend.URL = "http://localhost:8081"
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 120 * time.Second
	}
	if c.State.Driver == "" {
		c.State.Driver = "file"
	}
	if c.State.Dir == "" {
		c.State.Dir = defaultStateDir()
	}
	if c.State.RedisPrefix == "" {
		c.State.RedisPrefix = "resumecraft:"
	}
	if c.Studio.Host == "" {
		c.Studio.Host = "127.0.0.1"
	}
	if c.Studio.Port == "" {
		c.Studio.Port = "8080"
	}
	if c.Studio.CallbackAddr == "" {
		c.Studio.CallbackAddr = "127.0.0.1:5173"
	}
	if c.Timing.AdminPoll == 0 {
		c.Timing.AdminPoll = 30 * time.Second
	}
	if c.Timing.Autosave == 0 {
		c.Timing.Autosave = 800 * time.Millisecond
	}
	if c.Timing.AutoCompile == 0 {
		c.Timing.AutoCompile = time.Second
	}
	if c.Templates.Generation == "" {
		c.Templates.Generation = models.DefaultGenerationTemplate
	}
	if c.Templates.Latex == "" {
		c.Templates.Latex = models.DefaultLatexTemplate
	}
	if c.Export.Sink == "" {
		c.Export.Sink = "local"
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "exports"
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "resumecraft"
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = "development"
	}
	if c.Telemetry.SampleRatio == 0 {
		c.Telemetry.SampleRatio = 1
	}
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "resumecraft")
	}
	return ".resumecraft"
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend url %q must be an absolute http(s) URL", c.Backend.URL)
	}
	if c.Backend.Timeout < 0 || c.Timing.AdminPoll <= 0 || c.Timing.Autosave < 0 || c.Timing.AutoCompile < 0 {
		return errors.New("durations must not be negative and the admin poll interval must be positive")
	}

	switch c.State.Driver {
	case "file":
	case "redis":
		if c.State.RedisAddr == "" {
			return errors.New("REDIS_ADDR (or REDIS_URI/REDIS_URL) is required for the redis state driver")
		}
	default:
		return fmt.Errorf("unknown state driver %q (file|redis)", c.State.Driver)
	}

	switch c.Export.Sink {
	case "local", "none":
	case "gcs":
		if c.Export.GCS.Bucket == "" {
			return errors.New("GCS_BUCKET is required for the gcs export sink")
		}
	case "minio":
		if c.Export.S3.Endpoint == "" || c.Export.S3.Bucket == "" {
			return errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required for the minio export sink")
		}
	default:
		return fmt.Errorf("unknown export sink %q (local|gcs|minio|none)", c.Export.Sink)
	}

	if _, ok := models.NormalizeTemplate(c.Templates.Generation, models.DefaultGenerationTemplate, models.GenerationTemplates); !ok {
		return fmt.Errorf("unknown generation template %q", c.Templates.Generation)
	}
	if _, ok := models.NormalizeTemplate(c.Templates.Latex, models.DefaultLatexTemplate, models.LatexTemplates); !ok {
		return fmt.Errorf("unknown LaTeX template %q", c.Templates.Latex)
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return errors.New("sample ratio must be within 0..1")
	}
	return nil
}

// Addr is the studio listen address.
func (s StudioConfig) Addr() string { return net.JoinHostPort(s.Host, s.Port) }
