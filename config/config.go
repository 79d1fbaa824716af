// Package config loads recognizer settings from YAML and the environment.
package config

import (
	"io/ioutil"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/mathboard/mathboard/log"
	"github.com/mathboard/mathboard/raster"
	"github.com/mathboard/mathboard/segment"
)

const (
	EnvConfig         = "MATHBOARD_CONFIG"
	EnvClassifierURL  = "MATHBOARD_CLASSIFIER_URL"
	EnvClassifierKey  = "MATHBOARD_CLASSIFIER_KEY"
	EnvClassifierHmac = "MATHBOARD_CLASSIFIER_HMAC"
)

// ErrInvalid is returned for a configuration that cannot drive a search.
var ErrInvalid = errors.New("config: invalid configuration")

// Point is a board coordinate.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Board describes the writing surface and its grid.
type Board struct {
	// TopLeft and BottomRight bound the board. When both are zero the
	// extent of the ink is used.
	TopLeft     Point   `yaml:"top_left"`
	BottomRight Point   `yaml:"bottom_right"`
	CellWidth   float64 `yaml:"cell_width"`
	CellHeight  float64 `yaml:"cell_height"`
}

// Search tunes the segmentation search.
type Search struct {
	GroupThreshold float64 `yaml:"group_threshold"`
	MaxCandidates  int     `yaml:"max_candidates"`
	Reuse          string  `yaml:"reuse"`
	Concurrency    int     `yaml:"concurrency"`
	// Cache memoizes predictions within one request.
	Cache bool `yaml:"cache"`
}

// Raster controls ingestion and classifier input.
type Raster struct {
	MNISTSize  int     `yaml:"mnist_size"`
	BrushScale float64 `yaml:"brush_scale"`
	MinWidth   float64 `yaml:"min_width"`
}

// Classifier points at the inference service.
type Classifier struct {
	URL            string        `yaml:"url"`
	ApplicationKey string        `yaml:"application_key"`
	HmacKey        string        `yaml:"hmac_key"`
	Timeout        time.Duration `yaml:"timeout"`
}

// Server holds the API listener settings.
type Server struct {
	// Addr is host:port or unix:<path>.
	Addr string `yaml:"addr"`
	// MaxPatchPixels bounds the size of one uploaded stroke image.
	MaxPatchPixels int `yaml:"max_patch_pixels"`
}

type Config struct {
	Board      Board      `yaml:"board"`
	Search     Search     `yaml:"search"`
	Raster     Raster     `yaml:"raster"`
	Classifier Classifier `yaml:"classifier"`
	Server     Server     `yaml:"server"`
}

// Default returns the built-in settings.
func Default() Config {
	ingest := raster.DefaultIngestOptions()
	return Config{
		Board: Board{
			CellWidth:  64,
			CellHeight: 64,
		},
		Search: Search{
			GroupThreshold: segment.DefaultGroupThreshold,
			MaxCandidates:  segment.DefaultMaxCandidates,
			Reuse:          segment.ReuseShared.String(),
			Concurrency:    4,
			Cache:          true,
		},
		Raster: Raster{
			MNISTSize:  raster.MNISTSize,
			BrushScale: ingest.BrushScale,
			MinWidth:   ingest.MinWidth,
		},
		Classifier: Classifier{
			Timeout: 10 * time.Second,
		},
		Server: Server{
			Addr:           "localhost:8080",
			MaxPatchPixels: 1 << 20,
		},
	}
}

// Load reads path over the defaults. Fields missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to read config")
	}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}
	log.Trace.Printf("config loaded from %s", path)
	return cfg, cfg.Validate()
}

// Resolve loads the file named by path, or by MATHBOARD_CONFIG when path is
// empty, then applies environment overrides. Without a file the defaults
// are used.
func Resolve(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}
	cfg = FromEnv(cfg)
	return cfg, cfg.Validate()
}

// FromEnv overrides the classifier settings from the environment.
func FromEnv(cfg Config) Config {
	if v := os.Getenv(EnvClassifierURL); v != "" {
		cfg.Classifier.URL = v
	}
	if v := os.Getenv(EnvClassifierKey); v != "" {
		cfg.Classifier.ApplicationKey = v
	}
	if v := os.Getenv(EnvClassifierHmac); v != "" {
		cfg.Classifier.HmacKey = v
	}
	return cfg
}

// Validate checks values the search depends on.
func (c Config) Validate() error {
	if !(c.Board.CellWidth > 0) || !(c.Board.CellHeight > 0) {
		return errors.Wrapf(ErrInvalid, "cell size %vx%v", c.Board.CellWidth, c.Board.CellHeight)
	}
	if c.HasBoard() && (c.Board.BottomRight.X <= c.Board.TopLeft.X || c.Board.BottomRight.Y <= c.Board.TopLeft.Y) {
		return errors.Wrap(ErrInvalid, "board bottom right must lie below and right of top left")
	}
	if c.Search.GroupThreshold < 0 || c.Search.GroupThreshold > 1 {
		return errors.Wrapf(ErrInvalid, "group threshold %v outside [0,1]", c.Search.GroupThreshold)
	}
	if c.Search.MaxCandidates < 1 || c.Search.MaxCandidates > 20 {
		return errors.Wrapf(ErrInvalid, "max candidates %d outside [1,20]", c.Search.MaxCandidates)
	}
	if _, ok := segment.ParseReuse(c.Search.Reuse); !ok {
		return errors.Wrapf(ErrInvalid, "unknown reuse policy %q", c.Search.Reuse)
	}
	if c.Search.Concurrency < 0 {
		return errors.Wrapf(ErrInvalid, "concurrency %d", c.Search.Concurrency)
	}
	if c.Server.MaxPatchPixels <= 0 {
		return errors.Wrapf(ErrInvalid, "max patch pixels %d", c.Server.MaxPatchPixels)
	}
	if c.Raster.MNISTSize <= 0 {
		return errors.Wrapf(ErrInvalid, "mnist size %d", c.Raster.MNISTSize)
	}
	return nil
}

// HasBoard reports whether explicit board corners are configured.
func (c Config) HasBoard() bool {
	return c.Board.TopLeft != (Point{}) || c.Board.BottomRight != (Point{})
}

// ReusePolicy returns the parsed reuse policy.
func (c Config) ReusePolicy() segment.Reuse {
	r, _ := segment.ParseReuse(c.Search.Reuse)
	return r
}

// IngestOptions returns the rasterization settings.
func (c Config) IngestOptions() raster.IngestOptions {
	return raster.IngestOptions{BrushScale: c.Raster.BrushScale, MinWidth: c.Raster.MinWidth}
}
