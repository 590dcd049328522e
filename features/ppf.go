package features

import (
	"math"

	"github.com/golang/geo/r3"
)

// PPF computes the point-pair feature (section 3, section 4.G) between two oriented
// points: three angles and the separating distance. ok is false on a degenerate pair
// (coincident points, for which the angles are undefined) — callers filter these per
// section 4.G ("undefined on degenerate neighborhoods; caller must filter").
func PPF(p1, n1, p2, n2 r3.Vector) (sig PPFSignature, ok bool) {
	d := p2.Sub(p1)
	f4 := d.Norm()
	if f4 == 0 || math.IsNaN(f4) {
		return PPFSignature{}, false
	}
	dHat := d.Mul(1 / f4)
	return PPFSignature{
		F1: angleBetween(n1, dHat),
		F2: angleBetween(n2, dHat),
		F3: angleBetween(n1, n2),
		F4: f4,
	}, true
}

// angleBetween returns the angle in [0, pi] between two vectors via atan2 of the cross and
// dot products, which stays numerically stable near 0 and pi unlike acos(a.Dot(b)).
func angleBetween(a, b r3.Vector) float64 {
	return math.Atan2(a.Cross(b).Norm(), a.Dot(b))
}
