// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/ports"
)

// Config es la configuración completa de un run de reconciliación.
// Precedencia: defaults -> archivo YAML -> ENV (BARRACKS_*) -> flags.
type Config struct {
	// App
	SnapshotDir  string
	ReportDir    string
	Workers      int
	TimeoutS     int // segundos (0 = sin timeout)
	Refresh      bool
	PrintVersion bool

	// Outputs
	JSONStdout bool
	Quiet      bool // sin presenter de terminal

	// Sources: mapa dinámico de configuraciones por fuente
	// Key = nombre de la fuente (ej: "gamepress", "game8", "fandom")
	Sources map[string]ports.SourceConfig

	// HTTP
	UserAgent string
	ProxyURL  string

	// Cache de páginas
	Cache Cache

	// Resilience
	Resilience Resilience
}

type Cache struct {
	Capacity int
	TTL      time.Duration
}

type Resilience struct {
	MaxRetries        int
	BackoffBase       time.Duration
	BackoffMultiplier float64

	CircuitBreakerEnabled     bool
	CircuitBreakerThreshold   int
	CircuitBreakerTimeout     time.Duration
	CircuitBreakerHalfOpenMax int
}

// fileConfig es la forma del archivo YAML opcional. Solo los campos
// presentes sobreescriben los defaults.
type fileConfig struct {
	SnapshotDir *string `yaml:"snapshot_dir"`
	ReportDir   *string `yaml:"report_dir"`
	Workers     *int    `yaml:"workers"`
	TimeoutS    *int    `yaml:"timeout_seconds"`
	UserAgent   *string `yaml:"user_agent"`
	ProxyURL    *string `yaml:"proxy_url"`

	Cache      *fileCacheConfig      `yaml:"cache"`
	Resilience *fileResilienceConfig `yaml:"resilience"`

	Sources map[string]fileSourceConfig `yaml:"sources"`
}

// Las duraciones del archivo van en segundos planos, no en sintaxis de
// time.Duration.
type fileCacheConfig struct {
	Capacity *int `yaml:"capacity"`
	TTLS     *int `yaml:"ttl_seconds"`
}

type fileResilienceConfig struct {
	MaxRetries        *int     `yaml:"max_retries"`
	BackoffBaseS      *int     `yaml:"backoff_base_seconds"`
	BackoffMultiplier *float64 `yaml:"backoff_multiplier"`

	CircuitBreakerEnabled   *bool `yaml:"circuit_breaker_enabled"`
	CircuitBreakerThreshold *int  `yaml:"circuit_breaker_threshold"`
	CircuitBreakerTimeoutS  *int  `yaml:"circuit_breaker_timeout_seconds"`
}

type fileSourceConfig struct {
	Enabled   *bool    `yaml:"enabled"`
	BaseURL   *string  `yaml:"base_url"`
	TimeoutS  *int     `yaml:"timeout_seconds"`
	Retries   *int     `yaml:"retries"`
	RateLimit *float64 `yaml:"rate_limit"`
	Refresh   *bool    `yaml:"refresh"`
}

// DefaultConfig retorna la configuración por defecto.
func DefaultConfig() Config {
	gamepress := ports.DefaultSourceConfig()
	gamepress.BaseURL = "https://gamepress.gg"

	game8 := ports.DefaultSourceConfig()
	game8.BaseURL = "https://game8.co"

	fandom := ports.DefaultSourceConfig()
	fandom.BaseURL = "https://feheroes.fandom.com"
	fandom.RateLimit = 1.0

	return Config{
		SnapshotDir: "data",
		ReportDir:   "reports",
		Workers:     3,
		TimeoutS:    120,

		Sources: map[string]ports.SourceConfig{
			"gamepress": gamepress,
			"game8":     game8,
			"fandom":    fandom,
		},

		UserAgent: "barracks-reconcile/1.0",

		Cache: Cache{
			Capacity: 128,
			TTL:      15 * time.Minute,
		},

		Resilience: Resilience{
			MaxRetries:                3,
			BackoffBase:               1 * time.Second,
			BackoffMultiplier:         2.0,
			CircuitBreakerEnabled:     true,
			CircuitBreakerThreshold:   5,
			CircuitBreakerTimeout:     60 * time.Second,
			CircuitBreakerHalfOpenMax: 3,
		},
	}
}

// Load construye la configuración aplicando las capas en orden.
// args son los argumentos de CLI sin el nombre del binario.
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	// El archivo se localiza antes de aplicar ENV y flags para que
	// ambos puedan sobreescribir lo que venga de él.
	path := configFilePath(args)
	if path != "" {
		if err := loadFromFile(&cfg, path); err != nil {
			return cfg, err
		}
	}

	loadFromEnv(&cfg)

	if err := loadFromFlags(&cfg, args); err != nil {
		return cfg, err
	}

	normalize(&cfg)
	return cfg, nil
}

// configFilePath localiza el archivo de configuración: flag --config,
// luego BARRACKS_CONFIG, luego barracks.yaml si existe.
func configFilePath(args []string) string {
	for i, a := range args {
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(a, "--config=") {
			return strings.TrimPrefix(a, "--config=")
		}
	}
	if v := os.Getenv("BARRACKS_CONFIG"); v != "" {
		return v
	}
	if _, err := os.Stat("barracks.yaml"); err == nil {
		return "barracks.yaml"
	}
	return ""
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.SnapshotDir != nil {
		cfg.SnapshotDir = *fc.SnapshotDir
	}
	if fc.ReportDir != nil {
		cfg.ReportDir = *fc.ReportDir
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.TimeoutS != nil {
		cfg.TimeoutS = *fc.TimeoutS
	}
	if fc.UserAgent != nil {
		cfg.UserAgent = *fc.UserAgent
	}
	if fc.ProxyURL != nil {
		cfg.ProxyURL = *fc.ProxyURL
	}
	if fc.Cache != nil {
		if fc.Cache.Capacity != nil {
			cfg.Cache.Capacity = *fc.Cache.Capacity
		}
		if fc.Cache.TTLS != nil {
			cfg.Cache.TTL = time.Duration(*fc.Cache.TTLS) * time.Second
		}
	}
	if fc.Resilience != nil {
		if fc.Resilience.MaxRetries != nil {
			cfg.Resilience.MaxRetries = *fc.Resilience.MaxRetries
		}
		if fc.Resilience.BackoffBaseS != nil {
			cfg.Resilience.BackoffBase = time.Duration(*fc.Resilience.BackoffBaseS) * time.Second
		}
		if fc.Resilience.BackoffMultiplier != nil {
			cfg.Resilience.BackoffMultiplier = *fc.Resilience.BackoffMultiplier
		}
		if fc.Resilience.CircuitBreakerEnabled != nil {
			cfg.Resilience.CircuitBreakerEnabled = *fc.Resilience.CircuitBreakerEnabled
		}
		if fc.Resilience.CircuitBreakerThreshold != nil {
			cfg.Resilience.CircuitBreakerThreshold = *fc.Resilience.CircuitBreakerThreshold
		}
		if fc.Resilience.CircuitBreakerTimeoutS != nil {
			cfg.Resilience.CircuitBreakerTimeout = time.Duration(*fc.Resilience.CircuitBreakerTimeoutS) * time.Second
		}
	}

	for name, fsc := range fc.Sources {
		sc, ok := cfg.Sources[name]
		if !ok {
			sc = ports.DefaultSourceConfig()
		}
		if fsc.Enabled != nil {
			sc.Enabled = *fsc.Enabled
		}
		if fsc.BaseURL != nil {
			sc.BaseURL = *fsc.BaseURL
		}
		if fsc.TimeoutS != nil {
			sc.Timeout = time.Duration(*fsc.TimeoutS) * time.Second
		}
		if fsc.Retries != nil {
			sc.Retries = *fsc.Retries
		}
		if fsc.RateLimit != nil {
			sc.RateLimit = *fsc.RateLimit
		}
		if fsc.Refresh != nil {
			sc.Refresh = *fsc.Refresh
		}
		cfg.Sources[name] = sc
	}

	return nil
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config) {
	if v := getenv("BARRACKS_SNAPSHOT_DIR", ""); v != "" {
		cfg.SnapshotDir = v
	}
	if v := getenv("BARRACKS_REPORT_DIR", ""); v != "" {
		cfg.ReportDir = v
	}
	if v := getenv("BARRACKS_WORKERS", ""); v != "" {
		cfg.Workers = parseInt(v, cfg.Workers)
	}
	if v := getenv("BARRACKS_TIMEOUT", ""); v != "" {
		cfg.TimeoutS = parseInt(v, cfg.TimeoutS)
	}
	if v := getenv("BARRACKS_REFRESH", ""); v != "" {
		cfg.Refresh = parseBool(v)
	}
	if v := getenv("BARRACKS_USER_AGENT", ""); v != "" {
		cfg.UserAgent = v
	}
	if v := getenv("BARRACKS_PROXY_URL", ""); v != "" {
		cfg.ProxyURL = v
	}

	// Sources desde ENV.
	// Formato: BARRACKS_SOURCES_GAME8_ENABLED=true
	//          BARRACKS_SOURCES_GAME8_BASE_URL=http://mirror.local
	for name := range cfg.Sources {
		prefix := fmt.Sprintf("BARRACKS_SOURCES_%s_", strings.ToUpper(name))

		sc := cfg.Sources[name]
		if v := getenv(prefix+"ENABLED", ""); v != "" {
			sc.Enabled = parseBool(v)
		}
		if v := getenv(prefix+"BASE_URL", ""); v != "" {
			sc.BaseURL = v
		}
		if v := getenv(prefix+"TIMEOUT", ""); v != "" {
			sc.Timeout = time.Duration(parseInt(v, int(sc.Timeout.Seconds()))) * time.Second
		}
		if v := getenv(prefix+"RETRIES", ""); v != "" {
			sc.Retries = parseInt(v, sc.Retries)
		}
		if v := getenv(prefix+"RATELIMIT", ""); v != "" {
			sc.RateLimit = parseFloat(v, sc.RateLimit)
		}
		cfg.Sources[name] = sc
	}

	// Resilience
	if v := getenv("BARRACKS_RESILIENCE_MAX_RETRIES", ""); v != "" {
		cfg.Resilience.MaxRetries = parseInt(v, cfg.Resilience.MaxRetries)
	}
	if v := getenv("BARRACKS_RESILIENCE_CB_ENABLED", ""); v != "" {
		cfg.Resilience.CircuitBreakerEnabled = parseBool(v)
	}
	if v := getenv("BARRACKS_RESILIENCE_CB_THRESHOLD", ""); v != "" {
		cfg.Resilience.CircuitBreakerThreshold = parseInt(v, cfg.Resilience.CircuitBreakerThreshold)
	}
}

// loadFromFlags parsea flags de CLI (máxima precedencia).
func loadFromFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("reconcile", pflag.ContinueOnError)

	fs.String("config", "", "Ruta del archivo de configuración YAML")
	fs.StringVar(&cfg.SnapshotDir, "snapshot-dir", cfg.SnapshotDir, "Directorio del snapshot JSON")
	fs.StringVar(&cfg.ReportDir, "report-dir", cfg.ReportDir, "Directorio de informes de run")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrencia máxima de fuentes")
	fs.IntVar(&cfg.TimeoutS, "timeout", cfg.TimeoutS, "Timeout global en segundos (0 = sin timeout)")
	fs.BoolVar(&cfg.Refresh, "refresh", cfg.Refresh, "Pase de refresco: puede reemplazar tags placeholder")
	fs.BoolVar(&cfg.PrintVersion, "version", false, "Imprimir versión y salir")
	fs.BoolVar(&cfg.JSONStdout, "json", cfg.JSONStdout, "Emitir el informe del run como JSON por stdout")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "Sin salida decorada de terminal")
	fs.StringVar(&cfg.ProxyURL, "proxy", cfg.ProxyURL, "Proxy HTTP(S) para peticiones salientes (opcional)")

	// Habilitación de fuentes via flags; el resto via YAML o ENV.
	enabled := make(map[string]*bool, len(cfg.Sources))
	for name := range cfg.Sources {
		sc := cfg.Sources[name]
		enabled[name] = fs.Bool(fmt.Sprintf("src.%s", name), sc.Enabled,
			fmt.Sprintf("Habilitar fuente %s", name))
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	for name, v := range enabled {
		sc := cfg.Sources[name]
		sc.Enabled = *v
		cfg.Sources[name] = sc
	}

	return nil
}

func normalize(c *Config) {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.TimeoutS < 0 {
		c.TimeoutS = 0
	}
	if c.SnapshotDir == "" {
		c.SnapshotDir = "data"
	}
	if c.ReportDir == "" {
		c.ReportDir = "reports"
	}
	if c.Cache.Capacity <= 0 {
		c.Cache.Capacity = 128
	}
	if c.Resilience.BackoffBase <= 0 {
		c.Resilience.BackoffBase = 1 * time.Second
	}
	if c.Resilience.BackoffMultiplier < 1.0 {
		c.Resilience.BackoffMultiplier = 2.0
	}
}

// ToJSON serializa la configuración (útil para debugging).
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Timeout devuelve el timeout global como duración.
func (c Config) Timeout() time.Duration {
	if c.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutS) * time.Second
}

// EnabledSources retorna los nombres de las fuentes habilitadas.
func (c Config) EnabledSources() []string {
	names := make([]string, 0, len(c.Sources))
	for name, sc := range c.Sources {
		if sc.Enabled {
			names = append(names, name)
		}
	}
	return names
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}
