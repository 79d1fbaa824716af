package classifier

// Wire models of the inference service.

// PredictRequest carries one normalized raster, row-major, values in [0,1].
type PredictRequest struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Pixels []float32 `json:"pixels"`
}

// PredictResponse holds either a direct verdict or the per-digit scores.
type PredictResponse struct {
	Label      string    `json:"label,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	Scores     []float64 `json:"scores,omitempty"`
}
