package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/LdDl/caiosm"
	"github.com/go-playground/validator/v10"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const databaseURLEnv = "CAIOSM_DATABASE_URL"

type DatabaseConfig struct {
	Driver      string `yaml:"driver" validate:"omitempty,oneof=postgres postgresql postgis sqlite sqlite3"`
	DSN         string `yaml:"dsn"`
	TablePrefix string `yaml:"table_prefix"`
}

type Config struct {
	Input        string         `yaml:"input" validate:"required"`
	Out          string         `yaml:"out"`
	Format       string         `yaml:"format" validate:"omitempty,oneof=csv geojson shapefile"`
	Mode         string         `yaml:"mode" validate:"omitempty,oneof=infomont passthrough"`
	EPSG         int            `yaml:"epsg" validate:"gte=0"`
	Prefix       string         `yaml:"prefix"`
	Encoding     string         `yaml:"encoding"`
	Separator    string         `yaml:"separator" validate:"omitempty,len=1"`
	Geo          bool           `yaml:"geo"`
	Indent       bool           `yaml:"indent"`
	Unit         string         `yaml:"unit" validate:"omitempty,oneof=m km"`
	LengthEPSG   int            `yaml:"length_epsg" validate:"gte=0"`
	AllRelations bool           `yaml:"all_relations"`
	Verbose      bool           `yaml:"verbose"`
	Database     DatabaseConfig `yaml:"database"`
}

func defaultConfig() Config {
	return Config{
		Out:        "output",
		Format:     caiosm.FORMAT_SHAPEFILE.String(),
		Mode:       caiosm.MODE_INFOMONT.String(),
		EPSG:       caiosm.DEFAULT_EXPORT_EPSG,
		Encoding:   caiosm.DEFAULT_EXPORT_ENCODING,
		Separator:  ",",
		Unit:       caiosm.UNIT_METERS.String(),
		LengthEPSG: caiosm.DEFAULT_LENGTH_SRS,
		Database: DatabaseConfig{
			Driver: caiosm.DIALECT_POSTGRES.String(),
		},
	}
}

// loadConfig reads YAML file over defaults. Empty filename gives defaults.
func loadConfig(filename string) (Config, error) {
	cfg := defaultConfig()
	if filename == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, errors.Wrap(err, "Can't read config")
	}
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, errors.Wrap(err, "Can't parse config")
	}
	return cfg, nil
}

// applyFlags overrides config values with flags set explicitly in command line
func applyFlags(cmd *cobra.Command, cfg *Config, flags *Config) {
	overrides := map[string]func(){
		"input":         func() { cfg.Input = flags.Input },
		"out":           func() { cfg.Out = flags.Out },
		"format":        func() { cfg.Format = flags.Format },
		"mode":          func() { cfg.Mode = flags.Mode },
		"epsg":          func() { cfg.EPSG = flags.EPSG },
		"prefix":        func() { cfg.Prefix = flags.Prefix },
		"encoding":      func() { cfg.Encoding = flags.Encoding },
		"separator":     func() { cfg.Separator = flags.Separator },
		"geo":           func() { cfg.Geo = flags.Geo },
		"indent":        func() { cfg.Indent = flags.Indent },
		"unit":          func() { cfg.Unit = flags.Unit },
		"length-epsg":   func() { cfg.LengthEPSG = flags.LengthEPSG },
		"all-relations": func() { cfg.AllRelations = flags.AllRelations },
		"verbose":       func() { cfg.Verbose = flags.Verbose },
		"driver":        func() { cfg.Database.Driver = flags.Database.Driver },
		"dsn":           func() { cfg.Database.DSN = flags.Database.DSN },
		"table-prefix":  func() { cfg.Database.TablePrefix = flags.Database.TablePrefix },
	}
	for name, override := range overrides {
		if cmd.Flags().Changed(name) {
			override()
		}
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = os.Getenv(databaseURLEnv)
	}
}

func validateConfig(cfg Config) error {
	return validator.New().Struct(cfg)
}

func (cfg Config) exportOptions() (caiosm.ExportOptions, error) {
	format, err := caiosm.ParseFormat(cfg.Format)
	if err != nil {
		return caiosm.ExportOptions{}, err
	}
	opts := caiosm.DefaultExportOptions()
	opts.Format = format
	opts.EPSG = cfg.EPSG
	opts.Encoding = cfg.Encoding
	opts.Indent = cfg.Indent
	if cfg.Separator != "" {
		opts.Separator = []rune(cfg.Separator)[0]
	}
	return opts, nil
}

func (cfg Config) sessionOptions() ([]func(*caiosm.Session), error) {
	mode, err := caiosm.ParseClassifierMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	unit, err := caiosm.ParseUnit(cfg.Unit)
	if err != nil {
		return nil, err
	}
	proj, err := caiosm.ProjectionByEPSG(cfg.LengthEPSG)
	if err != nil {
		return nil, err
	}
	options := []func(*caiosm.Session){
		caiosm.WithMode(mode),
		caiosm.WithPrefix(cfg.Prefix),
		caiosm.WithUnit(unit),
		caiosm.WithLengthProjection(proj),
	}
	if cfg.AllRelations {
		options = append(options, caiosm.WithRouteFilter(nil))
	}
	return options, nil
}

// parsePoint parses 'lon,lat'
func parsePoint(str string) (orb.Point, error) {
	parts := strings.Split(str, ",")
	if len(parts) != 2 {
		return orb.Point{}, errors.Errorf("point '%s' must be 'lon,lat'", str)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return orb.Point{}, errors.Wrapf(err, "bad longitude in '%s'", str)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return orb.Point{}, errors.Wrapf(err, "bad latitude in '%s'", str)
	}
	return orb.Point{lon, lat}, nil
}
