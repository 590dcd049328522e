package pointrepresentation

// FieldSpec describes one declared field of a feature type for the static descriptor
// table used by the default feature representation (section 9's design note: "prefer a
// descriptor table per feature type... the generic code iterates the table", in place of
// compile-time type traversal or runtime reflection).
type FieldSpec struct {
	Name string
	// Count is the number of float64 values this field contributes (1 for a scalar
	// field, len(array) for an array field).
	Count int
	// Extract returns this field's Count floats, in declaration order, for one record.
	Extract func(point interface{}) []float64
}

// FeatureFieldTable is an ordered list of FieldSpecs fully describing how to flatten a
// feature type into floats.
type FeatureFieldTable []FieldSpec

// Dims returns the total float count across every field in the table.
func (t FeatureFieldTable) Dims() int {
	d := 0
	for _, f := range t {
		d += f.Count
	}
	return d
}

// Flatten concatenates every field's floats, in table order, for one record.
func (t FeatureFieldTable) Flatten(point interface{}) []float64 {
	out := make([]float64, 0, t.Dims())
	for _, f := range t {
		out = append(out, f.Extract(point)...)
	}
	return out
}

// DefaultFeatureRepresentation builds a Representation over an entire feature type from
// its descriptor table: dims() = table.Dims(), project = table.Flatten.
func DefaultFeatureRepresentation(table FeatureFieldTable) *Representation {
	return New(table.Dims(), table.Flatten)
}

// SubrangeRepresentation selects a contiguous [startDim, startDim+maxDim) window of a
// feature type's full float layout, the CustomPointRepresentation pattern of
// point_representation.h: dims() = min(total_floats - start_dim, max_dim).
func SubrangeRepresentation(full FeatureFieldTable, startDim, maxDim int) *Representation {
	total := full.Dims()
	dims := maxDim
	if total-startDim < dims {
		dims = total - startDim
	}
	if dims < 0 {
		dims = 0
	}
	return New(dims, func(point interface{}) []float64 {
		flat := full.Flatten(point)
		if startDim >= len(flat) {
			return make([]float64, dims)
		}
		end := startDim + dims
		if end > len(flat) {
			end = len(flat)
		}
		window := flat[startDim:end]
		if len(window) == dims {
			return window
		}
		// pad with zeros if the record's actual layout is shorter than dims declares.
		out := make([]float64, dims)
		copy(out, window)
		return out
	})
}
