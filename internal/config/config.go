// Package config loads run settings from built-in defaults, an optional YAML
// file and the environment, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/photo-field-ocr/internal/imaging"
	"github.com/ironsheep/photo-field-ocr/internal/ocr"
	"github.com/ironsheep/photo-field-ocr/internal/report"
)

// ErrInvalidConfig wraps every validation and parse failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment variables.
const (
	EnvConfigFile     = "PHOTO_OCR_CONFIG"
	EnvLanguage       = "PHOTO_OCR_LANGUAGE"
	EnvTessdataPrefix = "PHOTO_OCR_TESSDATA_PREFIX"
	EnvOutputMode     = "PHOTO_OCR_OUTPUT_MODE"
	EnvLogLevel       = "PHOTO_OCR_LOG_LEVEL"
)

// DefaultEnvFile is loaded from the working directory when present.
const DefaultEnvFile = ".env"

// Config holds everything a run needs besides the operator's answers.
type Config struct {
	// Tesseract
	Language       string
	TessdataPrefix string

	// Output. An empty OutputMode means the tool's own default.
	OutputMode    report.OutputMode
	OutputDirName string

	// Tuning previews
	DebugCropPath    string
	DebugOverlayPath string
	OverlayColor     string

	Region     imaging.RegionSpec
	Preprocess imaging.Preprocess

	LogLevel string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Language:         ocr.DefaultLanguage,
		OutputDirName:    report.DefaultOutputDirName,
		DebugCropPath:    "debug_cropped_region.png",
		DebugOverlayPath: "debug_region_overlay.png",
		OverlayColor:     imaging.DefaultOverlayColor,
		Region:           imaging.DefaultRegion(),
	}
}

// Load builds the run configuration: defaults, then the YAML file named by
// PHOTO_OCR_CONFIG, then environment variables. envFile is loaded into the
// environment first if it exists; variables already set are kept.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, envFile, err)
		}
	}

	cfg := Default()

	if path := os.Getenv(EnvConfigFile); path != "" {
		file, err := parseFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
		if err := cfg.apply(file); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail per photo.
func (c *Config) Validate() error {
	if c.OutputMode != "" {
		if _, err := report.ParseOutputMode(string(c.OutputMode)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if strings.ContainsAny(c.OutputDirName, `/\`) || c.OutputDirName == "" {
		return fmt.Errorf("%w: output_dir_name must be a single directory name, got %q", ErrInvalidConfig, c.OutputDirName)
	}
	if err := c.Region.Validate(); err != nil {
		return fmt.Errorf("%w: region: %v", ErrInvalidConfig, err)
	}
	if err := c.Preprocess.Validate(); err != nil {
		return fmt.Errorf("%w: preprocess: %v", ErrInvalidConfig, err)
	}
	if _, err := imaging.ParseColor(c.OverlayColor); err != nil {
		return fmt.Errorf("%w: overlay_color: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// OutputModeOr returns the configured output mode, or fallback when unset.
func (c *Config) OutputModeOr(fallback report.OutputMode) report.OutputMode {
	if c.OutputMode == "" {
		return fallback
	}
	return c.OutputMode
}

// OCROptions returns the recognizer options derived from c.
func (c *Config) OCROptions() ocr.Options {
	return ocr.Options{
		Language:       c.Language,
		TessdataPrefix: c.TessdataPrefix,
		Preprocess:     c.Preprocess,
	}
}

// Dump writes the effective settings to the debug log.
func (c *Config) Dump() {
	log.Printf("Config: language=%s tessdata=%q output_mode=%q output_dir=%s region=%s",
		c.Language, c.TessdataPrefix, c.OutputMode, c.OutputDirName, c.Region)
	if c.Preprocess.Enabled() {
		log.Printf("Config: preprocess=%+v", c.Preprocess)
	} else {
		log.Printf("Config: preprocess off")
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	c.Language = getEnvOrDefault(getenv, EnvLanguage, c.Language)
	c.TessdataPrefix = getEnvOrDefault(getenv, EnvTessdataPrefix, c.TessdataPrefix)
	c.OutputMode = report.OutputMode(getEnvOrDefault(getenv, EnvOutputMode, string(c.OutputMode)))
	c.LogLevel = getEnvOrDefault(getenv, EnvLogLevel, c.LogLevel)
}

func getEnvOrDefault(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

type configFile struct {
	Language       string `yaml:"language"`
	TessdataPrefix string `yaml:"tessdata_prefix"`

	OutputMode    string `yaml:"output_mode"`
	OutputDirName string `yaml:"output_dir_name"`

	DebugCropPath    string `yaml:"debug_crop_path"`
	DebugOverlayPath string `yaml:"debug_overlay_path"`
	OverlayColor     string `yaml:"overlay_color"`

	Region     *regionConfig       `yaml:"region"`
	Preprocess *imaging.Preprocess `yaml:"preprocess"`

	LogLevel string `yaml:"log_level"`
}

type regionConfig struct {
	Preset            string  `yaml:"preset"`
	PercentFromBottom float64 `yaml:"percent_from_bottom"`
	Pixels            []int   `yaml:"pixels"`
}

func (r *regionConfig) spec() (imaging.RegionSpec, error) {
	set := 0
	if r.Preset != "" {
		set++
	}
	if r.PercentFromBottom != 0 {
		set++
	}
	if r.Pixels != nil {
		set++
	}
	if set > 1 {
		return imaging.RegionSpec{}, fmt.Errorf("region: set only one of preset, percent_from_bottom, pixels")
	}

	switch {
	case r.Preset != "":
		return imaging.PresetRegion(r.Preset), nil
	case r.PercentFromBottom != 0:
		return imaging.PercentFromBottomRegion(r.PercentFromBottom), nil
	case r.Pixels != nil:
		if len(r.Pixels) != 4 {
			return imaging.RegionSpec{}, fmt.Errorf("region: pixels needs 4 values [left, top, right, bottom], got %d", len(r.Pixels))
		}
		p := r.Pixels
		return imaging.PixelRegion(p[0], p[1], p[2], p[3]), nil
	default:
		return imaging.DefaultRegion(), nil
	}
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var file configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&file); err != nil {
		return nil, err
	}

	return &file, nil
}

func (c *Config) apply(f *configFile) error {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&c.Language, f.Language)
	set(&c.TessdataPrefix, f.TessdataPrefix)
	set(&c.OutputDirName, f.OutputDirName)
	set(&c.DebugCropPath, f.DebugCropPath)
	set(&c.DebugOverlayPath, f.DebugOverlayPath)
	set(&c.OverlayColor, f.OverlayColor)
	set(&c.LogLevel, f.LogLevel)

	if f.OutputMode != "" {
		c.OutputMode = report.OutputMode(f.OutputMode)
	}

	if f.Region != nil {
		spec, err := f.Region.spec()
		if err != nil {
			return err
		}
		c.Region = spec
	}

	if f.Preprocess != nil {
		c.Preprocess = *f.Preprocess
	}

	return nil
}
