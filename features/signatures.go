// Package features implements the feature descriptor contract of section 4.G: per-point
// and per-point-pair feature vectors (FPFH, PPF), plus the normal estimation they require.
// Computation here is the concrete algorithm this module supplies so that SAC-IA, the
// Pyramid Feature Histogram, and PPF registration have real feature clouds to operate on
// in tests; section 4.G treats the signature types and their field layout as the contract,
// leaving the exact estimator swappable.
package features

import "github.com/go-pcl/registration/pointrepresentation"

// FPFHSignature is a length-33 float histogram summarizing neighborhood surface geometry
// (section 3), produced by FPFH below.
type FPFHSignature struct {
	Histogram [33]float64
}

// PPFSignature is the 4-tuple (f1,f2,f3,f4) derived from two oriented points (section 3):
// three angles and one Euclidean distance.
type PPFSignature struct {
	F1, F2, F3, F4 float64
}

// VFHSignature308 is a 308-bin viewpoint feature histogram. It is not computed by this
// module's algorithms but exists so the default-feature-dims testable property (section 8,
// property 10) has a second concrete signature type to exercise against.
type VFHSignature308 struct {
	Histogram [308]float64
}

// FPFHFieldTable is the descriptor table (section 9's field-enumeration design note) for
// FPFHSignature: a single 33-element array field.
var FPFHFieldTable = pointrepresentation.FeatureFieldTable{
	{
		Name:  "histogram",
		Count: 33,
		Extract: func(point interface{}) []float64 {
			sig := point.(FPFHSignature)
			return sig.Histogram[:]
		},
	},
}

// PPFFieldTable is the descriptor table for PPFSignature: four scalar fields.
var PPFFieldTable = pointrepresentation.FeatureFieldTable{
	{Name: "f1", Count: 1, Extract: func(p interface{}) []float64 { return []float64{p.(PPFSignature).F1} }},
	{Name: "f2", Count: 1, Extract: func(p interface{}) []float64 { return []float64{p.(PPFSignature).F2} }},
	{Name: "f3", Count: 1, Extract: func(p interface{}) []float64 { return []float64{p.(PPFSignature).F3} }},
	{Name: "f4", Count: 1, Extract: func(p interface{}) []float64 { return []float64{p.(PPFSignature).F4} }},
}

// VFHFieldTable is the descriptor table for VFHSignature308: a single 308-element array field.
var VFHFieldTable = pointrepresentation.FeatureFieldTable{
	{
		Name:  "histogram",
		Count: 308,
		Extract: func(point interface{}) []float64 {
			sig := point.(VFHSignature308)
			return sig.Histogram[:]
		},
	},
}

// DefaultFPFHRepresentation returns the default feature representation for FPFHSignature
// (dims() = 33, per testable property 10).
func DefaultFPFHRepresentation() *pointrepresentation.Representation {
	return pointrepresentation.DefaultFeatureRepresentation(FPFHFieldTable)
}

// DefaultVFHRepresentation returns the default feature representation for VFHSignature308
// (dims() = 308, per testable property 10).
func DefaultVFHRepresentation() *pointrepresentation.Representation {
	return pointrepresentation.DefaultFeatureRepresentation(VFHFieldTable)
}

// DefaultPPFRepresentation returns the default feature representation for PPFSignature
// (dims() = 4).
func DefaultPPFRepresentation() *pointrepresentation.Representation {
	return pointrepresentation.DefaultFeatureRepresentation(PPFFieldTable)
}

// ReducedFPFHRepresentation returns a Representation over only the first reducedDims floats
// of FPFHSignature's 33-bin histogram, the CustomPointRepresentation sub-range pattern of
// point_representation.h: PCL's SAC-IA tutorials use a truncated histogram prefix to cut
// feature-space nearest-neighbor cost when the full 33-dimensional distance isn't needed to
// discriminate candidates. reducedDims is clamped to [0, 33] by SubrangeRepresentation.
func ReducedFPFHRepresentation(reducedDims int) *pointrepresentation.Representation {
	return pointrepresentation.SubrangeRepresentation(FPFHFieldTable, 0, reducedDims)
}
