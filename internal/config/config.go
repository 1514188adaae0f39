// Package config loads bioalign settings from bioalign.yaml, BIOALIGN_*
// environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/aria-lang/bioalign-go/internal/poa"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName = "bioalign"
	// FileName is the config file looked up in the working directory.
	FileName         = configBaseName + ".yaml"
	configFolderPath = "."

	envPrefix = "BIOALIGN"
)

// Config keys. Flags bind to these.
const (
	KeyMatch     = "scoring.match"
	KeyMismatch  = "scoring.mismatch"
	KeyGapOpen   = "scoring.gap_open"
	KeyGapExtend = "scoring.gap_extend"
	KeyMatrix    = "scoring.matrix"

	KeyMode      = "align.mode"
	KeyBandwidth = "align.bandwidth"

	KeyWorkers = "batch.workers"

	KeyPoaMatch    = "poa.match"
	KeyPoaMismatch = "poa.mismatch"
	KeyPoaGap      = "poa.gap"

	KeyServerHost    = "server.host"
	KeyServerPort    = "server.port"
	KeyServerTimeout = "server.timeout"

	KeyLogFilename   = "log.filename"
	KeyLogLevel      = "log.level"
	KeyLogMaxSize    = "log.max_size"
	KeyLogMaxBackups = "log.max_backups"
	KeyLogMaxAge     = "log.max_age"
	KeyLogCompress   = "log.compress"
)

const (
	defaultMode           = "global"
	defaultServerHost     = "0.0.0.0"
	defaultServerPort     = 8080
	defaultServerTimeout  = 60 * time.Second
	defaultLogFilename    = ".bioalign.log"
	defaultLogLevel       = "info"
	defaultLogMaxSize     = 10
	defaultLogMaxBackups  = 3
	defaultLogMaxAge      = 28
	defaultLogCompress    = true
	maxPort               = 65535
	defaultBatchWorkers   = 0
	defaultAlignBandwidth = 0
)

// Config is the validated view of all settings.
type Config struct {
	Scoring ScoringConfig
	Align   AlignConfig
	Batch   BatchConfig
	POA     poa.Scoring
	Server  ServerConfig
	Log     LogConfig
}

// ScoringConfig selects either a named substitution matrix or the simple
// match/mismatch scheme. Gap penalties apply to both.
type ScoringConfig struct {
	Match     int
	Mismatch  int
	GapOpen   int
	GapExtend int
	Matrix    string
}

// AlignConfig holds the default mode and bandwidth. A bandwidth of 0 means
// unbanded.
type AlignConfig struct {
	Mode      alignment.Mode
	Bandwidth int
}

// BatchConfig sizes the batch worker pool; 0 means GOMAXPROCS.
type BatchConfig struct {
	Workers int
}

// ServerConfig is the HTTP listener configuration.
type ServerConfig struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	Filename   string
	Level      string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// New returns a viper instance with defaults, env binding and the config
// file location set. It does not read the file.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName(configBaseName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configFolderPath)
	v.SetConfigFile(filepath.Join(configFolderPath, FileName))
	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	SetDefaults(v)
	return v
}

// SetDefaults registers every key with its default value. The gap keys
// have none: their default depends on whether a matrix is selected.
func SetDefaults(v *viper.Viper) {
	dna := alignment.DefaultDNA()
	v.SetDefault(configVersionKey, currentConfigVersion)

	v.SetDefault(KeyMatch, dna.MatchScore)
	v.SetDefault(KeyMismatch, dna.MismatchPenalty)
	v.SetDefault(KeyMatrix, "")

	v.SetDefault(KeyMode, defaultMode)
	v.SetDefault(KeyBandwidth, defaultAlignBandwidth)
	v.SetDefault(KeyWorkers, defaultBatchWorkers)

	ps := poa.DefaultScoring()
	v.SetDefault(KeyPoaMatch, ps.Match)
	v.SetDefault(KeyPoaMismatch, ps.Mismatch)
	v.SetDefault(KeyPoaGap, ps.Gap)

	v.SetDefault(KeyServerHost, defaultServerHost)
	v.SetDefault(KeyServerPort, defaultServerPort)
	v.SetDefault(KeyServerTimeout, defaultServerTimeout.String())

	v.SetDefault(KeyLogFilename, defaultLogFilename)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyLogMaxSize, defaultLogMaxSize)
	v.SetDefault(KeyLogMaxBackups, defaultLogMaxBackups)
	v.SetDefault(KeyLogMaxAge, defaultLogMaxAge)
	v.SetDefault(KeyLogCompress, defaultLogCompress)
}

// ReadFile reads the config file if it exists. A missing file is not an
// error.
func ReadFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("read config: %w", err)
}

// Load builds a Config from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	mode, err := alignment.ParseMode(v.GetString(KeyMode))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyMode, err)
	}

	timeout, err := time.ParseDuration(v.GetString(KeyServerTimeout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyServerTimeout, err)
	}

	matrix := strings.TrimSpace(v.GetString(KeyMatrix))
	gapOpen, gapExtend := defaultGaps(matrix)
	if v.IsSet(KeyGapOpen) {
		gapOpen = v.GetInt(KeyGapOpen)
	}
	if v.IsSet(KeyGapExtend) {
		gapExtend = v.GetInt(KeyGapExtend)
	}

	cfg := &Config{
		Scoring: ScoringConfig{
			Match:     v.GetInt(KeyMatch),
			Mismatch:  v.GetInt(KeyMismatch),
			GapOpen:   gapOpen,
			GapExtend: gapExtend,
			Matrix:    matrix,
		},
		Align: AlignConfig{
			Mode:      mode,
			Bandwidth: v.GetInt(KeyBandwidth),
		},
		Batch: BatchConfig{Workers: v.GetInt(KeyWorkers)},
		POA: poa.Scoring{
			Match:    v.GetInt(KeyPoaMatch),
			Mismatch: v.GetInt(KeyPoaMismatch),
			Gap:      v.GetInt(KeyPoaGap),
		},
		Server: ServerConfig{
			Host:    v.GetString(KeyServerHost),
			Port:    v.GetInt(KeyServerPort),
			Timeout: timeout,
		},
		Log: LogConfig{
			Filename:   v.GetString(KeyLogFilename),
			Level:      v.GetString(KeyLogLevel),
			MaxSize:    v.GetInt(KeyLogMaxSize),
			MaxBackups: v.GetInt(KeyLogMaxBackups),
			MaxAge:     v.GetInt(KeyLogMaxAge),
			Compress:   v.GetBool(KeyLogCompress),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultGaps returns the matrix's own gap penalties, or the DNA defaults.
// An unknown matrix is reported later by Validate.
func defaultGaps(matrix string) (open, extend int) {
	if matrix != "" {
		if s, err := alignment.NewSubstitutionScheme(matrix); err == nil {
			return s.GapOpen(), s.GapExtend()
		}
	}
	dna := alignment.DefaultDNA()
	return dna.GapOpen(), dna.GapExtend()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := c.Scheme(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := c.POA.Validate(); err != nil {
		return fmt.Errorf("poa: %w", err)
	}
	if c.Align.Bandwidth < 0 {
		return fmt.Errorf("%s must be >= 0, got %d", KeyBandwidth, c.Align.Bandwidth)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("%s must be >= 0, got %d", KeyWorkers, c.Batch.Workers)
	}
	if c.Server.Port <= 0 || c.Server.Port > maxPort {
		return fmt.Errorf("%s out of range: %d", KeyServerPort, c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyServerTimeout)
	}
	return nil
}

// Scheme resolves the configured scoring scheme. A named matrix takes
// precedence over the simple scores.
func (c *Config) Scheme() (alignment.Scheme, error) {
	s := c.Scoring
	if s.Matrix != "" {
		return alignment.NewSubstitutionSchemeWithGaps(s.Matrix, s.GapOpen, s.GapExtend)
	}
	return alignment.NewScoringMatrix(s.Match, s.Mismatch, s.GapOpen, s.GapExtend)
}
