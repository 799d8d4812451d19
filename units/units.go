// Package units converts between the electrical conductivity scales used in
// the measurement tables.
//
// %IACS is relative to annealed copper, where 100 %IACS = 58.0 MS/m.
// Resistivity is expected in µΩ·cm.
package units

import "gonum.org/v1/gonum/mat"

// IACS100MSPerM is the conductivity of the annealed copper standard in MS/m.
const IACS100MSPerM = 58.0

// IACSToMSPerM converts %IACS to MS/m.
func IACSToMSPerM(iacs float64) float64 {
	return iacs / 100 * IACS100MSPerM
}

// MSPerMToIACS converts MS/m to %IACS.
func MSPerMToIACS(msPerM float64) float64 {
	return msPerM / IACS100MSPerM * 100
}

// ResistivityToConductivity converts µΩ·cm to MS/m. A zero resistivity gives
// +Inf (or -Inf for -0) following IEEE-754 division.
func ResistivityToConductivity(microOhmCm float64) float64 {
	return 0.1 / microOhmCm
}

// IACSToMSPerMSlice converts every element, returning a new slice.
func IACSToMSPerMSlice(iacs []float64) []float64 {
	return apply(iacs, IACSToMSPerM)
}

// MSPerMToIACSSlice converts every element, returning a new slice.
func MSPerMToIACSSlice(msPerM []float64) []float64 {
	return apply(msPerM, MSPerMToIACS)
}

// ResistivityToConductivitySlice converts every element, returning a new slice.
func ResistivityToConductivitySlice(microOhmCm []float64) []float64 {
	return apply(microOhmCm, ResistivityToConductivity)
}

// Convert applies fn element-wise to src and stores the result in dst, which
// is allocated when nil. dst must have src's length otherwise.
func Convert(dst *mat.VecDense, src mat.Vector, fn func(float64) float64) *mat.VecDense {
	n := src.Len()
	if dst == nil {
		dst = mat.NewVecDense(n, nil)
	} else if dst.Len() != n {
		panic(mat.ErrShape)
	}
	for i := 0; i < n; i++ {
		dst.SetVec(i, fn(src.AtVec(i)))
	}
	return dst
}

func apply(src []float64, fn func(float64) float64) []float64 {
	if src == nil {
		return nil
	}
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = fn(v)
	}
	return out
}
