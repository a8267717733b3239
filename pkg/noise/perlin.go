// Package noise generates continuous pseudo-random scalar fields over 3D space
// for procedural textures.
package noise

import (
	"math"

	"github.com/df07/go-texture-pathtracer/pkg/core"
)

// pointCount is the size of the gradient table. It must be a power of two so
// lattice coordinates can be wrapped with a bitmask.
const pointCount = 256

// DefaultTurbulenceDepth is the number of octaves summed by Turbulence callers that don't choose one
const DefaultTurbulenceDepth = 7

// Field is a continuous scalar noise field
type Field interface {
	Noise(p core.Vec3) float64
}

// Perlin is a gradient noise field: a table of random unit vectors addressed
// through three independent permutations, one per axis.
type Perlin struct {
	randVec [pointCount]core.Vec3
	permX   [pointCount]int
	permY   [pointCount]int
	permZ   [pointCount]int
}

// NewPerlin builds a noise field from the sampler's random stream.
// The same stream always yields the same field.
func NewPerlin(sampler core.Sampler) *Perlin {
	p := &Perlin{}
	for i := range p.randVec {
		p.randVec[i] = core.RandomVecRange(sampler, -1, 1).Normalize()
	}

	p.permX = generatePerm(sampler)
	p.permY = generatePerm(sampler)
	p.permZ = generatePerm(sampler)
	return p
}

// NewSeededPerlin builds a noise field from a fresh generator with the given seed
func NewSeededPerlin(seed int64) *Perlin {
	return NewPerlin(core.NewSeededSampler(seed))
}

// Noise returns the gradient noise value at p. The result is roughly in [-1, 1]
// but not clamped.
func (p *Perlin) Noise(point core.Vec3) float64 {
	floor := point.Floor()
	u := point.X - floor.X
	v := point.Y - floor.Y
	w := point.Z - floor.Z

	i := int(floor.X)
	j := int(floor.Y)
	k := int(floor.Z)

	var c [2][2][2]core.Vec3
	for di := 0; di < 2; di++ {
		for dj := 0; dj < 2; dj++ {
			for dk := 0; dk < 2; dk++ {
				c[di][dj][dk] = p.randVec[p.permX[(i+di)&(pointCount-1)]^
					p.permY[(j+dj)&(pointCount-1)]^
					p.permZ[(k+dk)&(pointCount-1)]]
			}
		}
	}

	return interpolate(&c, u, v, w)
}

// Turbulence sums depth octaves of folded noise at p
func (p *Perlin) Turbulence(point core.Vec3, depth int) float64 {
	return Turbulence(p, point, depth)
}

// Turbulence returns Σ |noise(p·2^i)| / 2^i for i in [0, depth).
// The result is never negative; depth <= 0 yields 0.
func Turbulence(field Field, point core.Vec3, depth int) float64 {
	accum := 0.0
	weight := 1.0
	for i := 0; i < depth; i++ {
		accum += weight * math.Abs(field.Noise(point))
		weight *= 0.5
		point = point.Multiply(2)
	}
	return accum
}

// interpolate blends the eight corner gradients with Hermite-smoothed trilinear weights
func interpolate(c *[2][2][2]core.Vec3, u, v, w float64) float64 {
	uu := smoothstep(u)
	vv := smoothstep(v)
	ww := smoothstep(w)

	accum := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				fi, fj, fk := float64(i), float64(j), float64(k)
				weight := core.NewVec3(u-fi, v-fj, w-fk)
				accum += (fi*uu + (1-fi)*(1-uu)) *
					(fj*vv + (1-fj)*(1-vv)) *
					(fk*ww + (1-fk)*(1-ww)) *
					c[i][j][k].Dot(weight)
			}
		}
	}
	return accum
}

// smoothstep is the Hermite curve 3t² - 2t³
func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// generatePerm returns a uniform random permutation of [0, pointCount)
func generatePerm(sampler core.Sampler) [pointCount]int {
	var perm [pointCount]int
	for i := range perm {
		perm[i] = i
	}

	// Fisher-Yates
	for i := pointCount - 1; i > 0; i-- {
		target := core.RandomInt(sampler, 0, i)
		perm[i], perm[target] = perm[target], perm[i]
	}
	return perm
}
