// Package recognize runs one recognition request end to end: it indexes the
// strokes, searches for segmentations and picks the best one.
package recognize

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mathboard/mathboard/classifier"
	"github.com/mathboard/mathboard/config"
	"github.com/mathboard/mathboard/encoding/rm"
	"github.com/mathboard/mathboard/grid"
	"github.com/mathboard/mathboard/log"
	"github.com/mathboard/mathboard/raster"
	"github.com/mathboard/mathboard/segment"
	"github.com/mathboard/mathboard/stroke"
)

// Result is the outcome of one request.
type Result struct {
	RequestID string
	Arena     stroke.Arena
	// Groups are every segmentation the search produced, in pass order.
	Groups []segment.Group
	Best   segment.Group
	Score  float64
	// Pairs are the stroke pairs sharing a grid cell.
	Pairs []grid.Pair
	Text  string
	// CacheHits and CacheMisses count classifier cache use.
	CacheHits   int
	CacheMisses int
}

// Recognizer holds the long-lived classifier and settings shared by every
// request. Per-request state is rebuilt on each call.
type Recognizer struct {
	cfg        config.Config
	classifier classifier.Classifier

	// Merge composes classifier input. It defaults to the MNIST composer.
	Merge segment.MergeFunc
}

// New creates a Recognizer.
func New(cfg config.Config, c classifier.Classifier) *Recognizer {
	return &Recognizer{
		cfg:        cfg,
		classifier: c,
		Merge:      raster.Composer{Size: cfg.Raster.MNISTSize}.Compose,
	}
}

// NewClassifier builds the remote classifier described by cfg.
func NewClassifier(cfg config.Classifier) (classifier.Classifier, error) {
	if cfg.URL == "" {
		return nil, errors.Wrapf(config.ErrInvalid, "no classifier url, set %s", config.EnvClassifierURL)
	}
	return classifier.NewRemote(cfg.URL, cfg.ApplicationKey, cfg.HmacKey, cfg.Timeout), nil
}

// Config returns the settings the recognizer runs with.
func (r *Recognizer) Config() config.Config {
	return r.cfg
}

// Recognize segments the arena. When the search yields nothing the partial
// result is returned with segment.ErrNoSegmentation.
func (r *Recognizer) Recognize(ctx context.Context, arena stroke.Arena) (*Result, error) {
	res := &Result{
		RequestID: uuid.New().String(),
		Arena:     arena,
		Score:     math.Inf(-1),
	}
	if len(arena) == 0 {
		return res, errors.Wrap(segment.ErrNoStrokes, res.RequestID)
	}
	if err := arena.Validate(); err != nil {
		return res, errors.Wrap(err, res.RequestID)
	}

	topLeft, bottomRight := r.board(arena)
	idx, err := grid.Build(arena, topLeft, bottomRight, stroke.Size{
		Width:  r.cfg.Board.CellWidth,
		Height: r.cfg.Board.CellHeight,
	})
	if err != nil {
		return res, errors.Wrap(err, "failed to build grid")
	}
	res.Pairs = idx.Pairs()
	log.Trace.Printf("[%s] %d strokes, %dx%d grid, %d pairs", res.RequestID, len(arena), idx.Rows(), idx.Columns(), len(res.Pairs))

	var cache *classifier.Cache
	c := r.classifier
	if r.cfg.Search.Cache {
		cache = classifier.NewCache(c)
		c = cache
	}

	searcher := &segment.Searcher{
		Ranker: &segment.Ranker{
			Classifier:     c,
			Merge:          r.Merge,
			GroupThreshold: r.cfg.Search.GroupThreshold,
			Concurrency:    r.cfg.Search.Concurrency,
		},
		Index:         idx,
		MaxCandidates: r.cfg.Search.MaxCandidates,
		Reuse:         r.cfg.ReusePolicy(),
	}
	res.Groups, err = searcher.Run(ctx, arena)
	if cache != nil {
		res.CacheHits, res.CacheMisses = cache.Stats()
	}
	if err != nil {
		return res, errors.Wrapf(err, "[%s] search failed", res.RequestID)
	}

	res.Best, res.Score, err = segment.SelectBest(res.Groups)
	if err != nil {
		return res, errors.Wrap(err, res.RequestID)
	}
	res.Text = res.Best.Text()
	log.Trace.Printf("[%s] %d groups, best %q score %.4f, cache %d/%d", res.RequestID, len(res.Groups), res.Text, res.Score, res.CacheHits, res.CacheHits+res.CacheMisses)
	return res, nil
}

// RecognizePage rasterizes a notebook page and segments it.
func (r *Recognizer) RecognizePage(ctx context.Context, page *rm.Rm) (*Result, error) {
	arena, err := raster.FromRm(page, r.cfg.IngestOptions())
	if err != nil {
		return nil, errors.Wrap(err, "failed to ingest page")
	}
	return r.Recognize(ctx, arena)
}

// board returns the configured board corners, or the ink extent grown to
// whole pixels.
func (r *Recognizer) board(arena stroke.Arena) (stroke.Point, stroke.Point) {
	if r.cfg.HasBoard() {
		b := r.cfg.Board
		return stroke.Point{X: b.TopLeft.X, Y: b.TopLeft.Y}, stroke.Point{X: b.BottomRight.X, Y: b.BottomRight.Y}
	}
	ext := arena.Bounds()
	return stroke.Point{X: math.Floor(ext.Min.X), Y: math.Floor(ext.Min.Y)},
		stroke.Point{X: math.Floor(ext.Max.X) + 1, Y: math.Floor(ext.Max.Y) + 1}
}
