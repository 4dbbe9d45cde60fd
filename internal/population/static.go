package population

import (
	"context"
	"math"
)

// StaticSource is an in-memory raster backed by a coarse grid, useful for
// tests and offline runs. Cells are keyed by integer degrees.
type StaticSource struct {
	// DefaultDensity is returned for cells with no entry.
	DefaultDensity float64

	cells map[[2]int]float64
}

// NewStaticSource builds an empty static raster.
func NewStaticSource(defaultDensity float64) *StaticSource {
	return &StaticSource{
		DefaultDensity: defaultDensity,
		cells:          make(map[[2]int]float64),
	}
}

// SetCell assigns a density to the one-degree cell containing the coordinate.
func (s *StaticSource) SetCell(latDeg, lonDeg, density float64) {
	s.cells[cellKey(latDeg, lonDeg)] = density
}

// Sample returns one density per sample point in the window, looking up the
// cell each offset point falls in.
func (s *StaticSource) Sample(ctx context.Context, latDeg, lonDeg, radiusKm float64, window int) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if window < 1 {
		window = 1
	}

	// Offsets roughly span the sampling radius.
	stepDeg := radiusKm / 111.0
	out := make([]float64, 0, window)
	for i := 0; i < window; i++ {
		dLat := stepDeg * math.Cos(float64(i)*2*math.Pi/float64(window))
		dLon := stepDeg * math.Sin(float64(i)*2*math.Pi/float64(window))
		out = append(out, s.lookup(latDeg+dLat, lonDeg+dLon))
	}
	return out, nil
}

func (s *StaticSource) lookup(latDeg, lonDeg float64) float64 {
	if d, ok := s.cells[cellKey(latDeg, lonDeg)]; ok {
		return d
	}
	return s.DefaultDensity
}

func cellKey(latDeg, lonDeg float64) [2]int {
	return [2]int{int(math.Floor(latDeg)), int(math.Floor(lonDeg))}
}
