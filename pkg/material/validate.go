package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// ErrInvalidParameter is returned when a material parameter is out of range
var ErrInvalidParameter = errors.New("invalid material parameter")

// ValidateColor checks that every channel is finite and non-negative
func ValidateColor(name string, c core.Vec3) error {
	for _, ch := range []float64{c.X, c.Y, c.Z} {
		if ch < 0 || math.IsNaN(ch) || math.IsInf(ch, 0) {
			return fmt.Errorf("%w: %s %v must have finite non-negative channels", ErrInvalidParameter, name, c)
		}
	}
	return nil
}

// ValidateFuzz checks that a metal fuzz factor lies in [0, 1]
func ValidateFuzz(fuzz float64) error {
	if fuzz < 0 || fuzz > 1 || math.IsNaN(fuzz) {
		return fmt.Errorf("%w: fuzz %g outside [0, 1]", ErrInvalidParameter, fuzz)
	}
	return nil
}

// ValidateRefractiveIndex checks that an index of refraction is positive
func ValidateRefractiveIndex(ior float64) error {
	if !(ior > 0) || math.IsInf(ior, 0) {
		return fmt.Errorf("%w: refractive index %g must be positive", ErrInvalidParameter, ior)
	}
	return nil
}

// ValidateRatio checks that a mix ratio lies in [0, 1]
func ValidateRatio(ratio float64) error {
	if ratio < 0 || ratio > 1 || math.IsNaN(ratio) {
		return fmt.Errorf("%w: ratio %g outside [0, 1]", ErrInvalidParameter, ratio)
	}
	return nil
}
