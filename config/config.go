package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Modos de estimación de liquidez soportados.
const (
	LiquidityQuoted = "quoted" // min(bidSize, askSize) de las quotes del ciclo
	LiquidityDepth  = "depth"  // caminar el orderbook hasta book_depth niveles
)

// Config es la configuración completa del scanner.
type Config struct {
	Scanner ScannerConfig `yaml:"scanner"`
	Audit   AuditConfig   `yaml:"audit"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ScannerConfig controla el comportamiento del scanner.
type ScannerConfig struct {
	Settlement      string   `yaml:"settlement"`       // asset de settlement objetivo (ej. USDT)
	MinDelta        float64  `yaml:"min_delta"`        // umbral de profit como fracción (0.03 = 3%)
	IntervalSeconds int      `yaml:"interval_seconds"` // pausa entre ciclos
	LiquidityMode   string   `yaml:"liquidity_mode"`   // quoted | depth
	BookDepth       int      `yaml:"book_depth"`       // niveles máximos en modo depth
	MinVenues       int      `yaml:"min_venues"`       // venues mínimos por instrumento
	Venues          []string `yaml:"venues"`           // venues a usar, en orden fijo
	ExclusionsFile  string   `yaml:"exclusions_file"`  // ruta al archivo de exclusiones
}

// AuditConfig controla el audit log de oportunidades.
type AuditConfig struct {
	Path string `yaml:"path"` // ruta al archivo append-only, vacío = deshabilitado
}

// StorageConfig controla dónde se persiste el histórico de ciclos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite o ":memory:", vacío = deshabilitado
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate comprueba los errores de configuración fatales: sin venues no hay
// nada que comparar, y un modo de liquidez desconocido fallaría recién en
// mitad de un ciclo si no lo rechazamos acá.
func (c *Config) Validate() error {
	if len(c.Scanner.Venues) == 0 {
		return fmt.Errorf("config.Validate: no venues configured")
	}
	switch c.Scanner.LiquidityMode {
	case LiquidityQuoted, LiquidityDepth:
	default:
		return fmt.Errorf("config.Validate: unknown liquidity_mode %q (want %q or %q)",
			c.Scanner.LiquidityMode, LiquidityQuoted, LiquidityDepth)
	}
	return nil
}

// ScanInterval devuelve el intervalo entre ciclos como time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Scanner.IntervalSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("ARBSCAN_SETTLEMENT"); v != "" {
		cfg.Scanner.Settlement = v
	}
}

// setDefaults asegura que los valores opcionales tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Scanner.Settlement == "" {
		cfg.Scanner.Settlement = "USDT"
	}
	if cfg.Scanner.MinDelta <= 0 {
		cfg.Scanner.MinDelta = 0.03 // 3%
	}
	if cfg.Scanner.IntervalSeconds <= 0 {
		cfg.Scanner.IntervalSeconds = 2
	}
	if cfg.Scanner.LiquidityMode == "" {
		cfg.Scanner.LiquidityMode = LiquidityQuoted
	}
	if cfg.Scanner.BookDepth <= 0 {
		cfg.Scanner.BookDepth = 10
	}
	if cfg.Scanner.MinVenues < 2 {
		cfg.Scanner.MinVenues = 2
	}
	if cfg.Scanner.ExclusionsFile == "" {
		cfg.Scanner.ExclusionsFile = "exceptions.txt"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
