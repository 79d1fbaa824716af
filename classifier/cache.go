package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"image"
	"sync"
)

// Cache memoizes predictions by raster content. Search passes classify the
// same combinations over and over, and classification is deterministic.
type Cache struct {
	next Classifier

	mu     sync.Mutex
	hits   int
	misses int
	byHash map[[sha256.Size]byte]Prediction
}

// NewCache wraps c.
func NewCache(c Classifier) *Cache {
	return &Cache{next: c, byHash: make(map[[sha256.Size]byte]Prediction)}
}

// Predict returns the cached prediction for raster or asks the wrapped
// classifier. Errors are not cached.
func (c *Cache) Predict(ctx context.Context, raster image.Image) (Prediction, error) {
	key := hashRaster(raster)

	c.mu.Lock()
	p, ok := c.byHash[key]
	if ok {
		c.hits++
	}
	c.mu.Unlock()
	if ok {
		return p, nil
	}

	p, err := c.next.Predict(ctx, raster)
	if err != nil {
		return p, err
	}

	c.mu.Lock()
	c.misses++
	c.byHash[key] = p
	c.mu.Unlock()
	return p, nil
}

// Stats returns the number of cache hits and misses.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func hashRaster(img image.Image) [sha256.Size]byte {
	h := sha256.New()
	b := img.Bounds()
	var dims [16]byte
	binary.LittleEndian.PutUint32(dims[0:], uint32(b.Min.X))
	binary.LittleEndian.PutUint32(dims[4:], uint32(b.Min.Y))
	binary.LittleEndian.PutUint32(dims[8:], uint32(b.Dx()))
	binary.LittleEndian.PutUint32(dims[12:], uint32(b.Dy()))
	h.Write(dims[:])

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < b.Dy(); y++ {
			h.Write(g.Pix[y*g.Stride : y*g.Stride+b.Dx()])
		}
	} else {
		row := make([]byte, 0, b.Dx()*2)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row = row[:0]
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := img.At(x, y).RGBA()
				lum := (19595*r + 38470*g + 7471*bl + 1<<15) >> 16
				row = append(row, byte(lum>>8), byte(lum))
			}
			h.Write(row)
		}
	}

	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
