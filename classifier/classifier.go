// Package classifier is the gateway to the symbol classifier. The
// segmentation core only needs Predict; the model behind it lives elsewhere.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// ErrBadPrediction is returned when a classifier answers with a confidence
// outside [0,1] or with an unknown label.
var ErrBadPrediction = errors.New("classifier: invalid prediction")

// Label is a recognized single-character symbol.
type Label rune

// Digits are the labels the board recognizes.
var Digits = []Label{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}

// Valid reports whether l is one of the recognized labels.
func (l Label) Valid() bool {
	for _, d := range Digits {
		if l == d {
			return true
		}
	}
	return false
}

func (l Label) String() string {
	if l == 0 {
		return ""
	}
	return string(rune(l))
}

// Prediction is the classifier verdict for one raster.
type Prediction struct {
	Confidence float64
	Label      Label
}

// Check validates the prediction range and label.
func (p Prediction) Check() error {
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of range", ErrBadPrediction, p.Confidence)
	}
	if !p.Label.Valid() {
		return fmt.Errorf("%w: unknown label %q", ErrBadPrediction, rune(p.Label))
	}
	return nil
}

// Classifier scores a merged stroke raster. Implementations must be safe for
// concurrent use and deterministic for a given raster.
type Classifier interface {
	Predict(ctx context.Context, raster image.Image) (Prediction, error)
}

// Func adapts a function to the Classifier interface.
type Func func(ctx context.Context, raster image.Image) (Prediction, error)

// Predict calls f.
func (f Func) Predict(ctx context.Context, raster image.Image) (Prediction, error) {
	return f(ctx, raster)
}

// FromScores turns a probability vector indexed by digit into a prediction.
func FromScores(scores []float64) (Prediction, error) {
	if len(scores) == 0 || len(scores) > len(Digits) {
		return Prediction{}, fmt.Errorf("%w: %d scores", ErrBadPrediction, len(scores))
	}
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	p := Prediction{Confidence: scores[best], Label: Digits[best]}
	return p, p.Check()
}
