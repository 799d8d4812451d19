// Package dataset holds the specimen schema, the in-memory Table consumed by
// the analysis and training packages, CSV I/O and the synthetic generator.
package dataset

// Column vocabulary shared by every table.
const (
	ColSteelGrade    = "steel_grade"
	ColConductivity  = "conductivity"
	ColHardness      = "hardness"
	ColCompositionC  = "composition_C"
	ColCompositionMn = "composition_Mn"
	ColCompositionCr = "composition_Cr"
	ColToolLife      = "tool_life"
	ColRa            = "Ra"
	ColFc            = "Fc"
)

// Steel grades produced by the generator.
const (
	GradeAISI1045 = "AISI 1045"
	GradeAISI4140 = "AISI 4140"
	GradeAISI4340 = "AISI 4340"
)

// FeatureColumns lists the columns a model may be trained on, in display order.
var FeatureColumns = []string{
	ColConductivity,
	ColHardness,
	ColCompositionC,
	ColCompositionMn,
	ColCompositionCr,
}

// TargetColumns lists the machinability indicators a model may predict.
var TargetColumns = []string{ColToolLife, ColRa, ColFc}

// SteelGrades lists the generated grades in draw order.
var SteelGrades = []string{GradeAISI1045, GradeAISI4140, GradeAISI4340}

// IsFeature reports whether name is in the feature vocabulary.
func IsFeature(name string) bool { return contains(FeatureColumns, name) }

// IsTarget reports whether name is in the target vocabulary.
func IsTarget(name string) bool { return contains(TargetColumns, name) }

// Specimen is one measured or generated steel sample. Values are never
// modified after creation.
type Specimen struct {
	SteelGrade    string  `json:"steel_grade" yaml:"steel_grade"`
	Conductivity  float64 `json:"conductivity" yaml:"conductivity"` // MS/m
	Hardness      float64 `json:"hardness" yaml:"hardness"`         // HV
	CompositionC  float64 `json:"composition_C" yaml:"composition_C"`
	CompositionMn float64 `json:"composition_Mn" yaml:"composition_Mn"`
	CompositionCr float64 `json:"composition_Cr" yaml:"composition_Cr"`
	ToolLife      float64 `json:"tool_life" yaml:"tool_life"` // min
	Ra            float64 `json:"Ra" yaml:"Ra"`               // µm
	Fc            float64 `json:"Fc" yaml:"Fc"`               // N
}

// numeric returns the specimen's numeric columns in the order of
// specimenColumns.
func (s Specimen) numeric() []float64 {
	return []float64{
		s.Conductivity, s.Hardness,
		s.CompositionC, s.CompositionMn, s.CompositionCr,
		s.ToolLife, s.Ra, s.Fc,
	}
}

var specimenColumns = []string{
	ColConductivity, ColHardness,
	ColCompositionC, ColCompositionMn, ColCompositionCr,
	ColToolLife, ColRa, ColFc,
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
