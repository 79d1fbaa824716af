package classifier

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"

	"github.com/mathboard/mathboard/log"
)

const tokenLifetime = time.Minute

// ErrUnavailable marks failures to reach the inference service or a non-200
// answer from it.
var ErrUnavailable = errors.New("classifier API error")

// Remote is a Classifier backed by an HTTP inference service.
type Remote struct {
	Endpoint       string
	ApplicationKey string
	HmacKey        string
	Client         *http.Client

	now func() time.Time
}

// NewRemote creates a Remote classifier with its own http.Client.
func NewRemote(endpoint, applicationKey, hmacKey string, timeout time.Duration) *Remote {
	return &Remote{
		Endpoint:       endpoint,
		ApplicationKey: applicationKey,
		HmacKey:        hmacKey,
		Client:         &http.Client{Timeout: timeout},
		now:            time.Now,
	}
}

// Predict sends raster to the inference service.
func (r *Remote) Predict(ctx context.Context, raster image.Image) (Prediction, error) {
	data, err := json.Marshal(encodeRaster(raster))
	if err != nil {
		return Prediction{}, err
	}

	body, err := r.send(ctx, data)
	if err != nil {
		return Prediction{}, err
	}

	var resp PredictResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Prediction{}, errors.Wrap(err, "failed to decode prediction")
	}

	if len(resp.Scores) > 0 {
		return FromScores(resp.Scores)
	}
	runes := []rune(resp.Label)
	if len(runes) != 1 {
		return Prediction{}, fmt.Errorf("%w: label %q", ErrBadPrediction, resp.Label)
	}
	p := Prediction{Confidence: resp.Confidence, Label: Label(runes[0])}
	return p, p.Check()
}

func (r *Remote) send(ctx context.Context, data []byte) ([]byte, error) {
	fullkey := r.ApplicationKey + r.HmacKey
	mac := hmac.New(sha512.New, []byte(fullkey))
	mac.Write(data)
	signature := hex.EncodeToString(mac.Sum(nil))

	token, err := r.token()
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign token")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("applicationKey", r.ApplicationKey)
	req.Header.Set("hmac", signature)
	req.Header.Set("Authorization", "Bearer "+token)

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if res.StatusCode != http.StatusOK {
		log.Trace.Printf("Remote: status %d, body %q", res.StatusCode, body)
		return nil, fmt.Errorf("%w: Status %d, Response: %s", ErrUnavailable, res.StatusCode, string(body))
	}
	return body, nil
}

func (r *Remote) token() (string, error) {
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	t := now()
	claims := jwt.StandardClaims{
		Issuer:    r.ApplicationKey,
		IssuedAt:  t.Unix(),
		ExpiresAt: t.Add(tokenLifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(r.HmacKey))
}

func encodeRaster(img image.Image) PredictRequest {
	b := img.Bounds()
	req := PredictRequest{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: make([]float32, 0, b.Dx()*b.Dy()),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			req.Pixels = append(req.Pixels, float32(g.Y)/255)
		}
	}
	return req
}
