package dataset

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/pkg/log"
)

// GradeProfile holds the mean of each sampled property for one steel grade.
type GradeProfile struct {
	Conductivity  float64 // MS/m
	Hardness      float64 // HV
	CompositionC  float64
	CompositionMn float64
	CompositionCr float64
}

// GradeProfiles are the per-grade centres of the generated properties.
var GradeProfiles = map[string]GradeProfile{
	GradeAISI1045: {Conductivity: 7.5, Hardness: 200, CompositionC: 0.45, CompositionMn: 0.75, CompositionCr: 0.04},
	GradeAISI4140: {Conductivity: 5.1, Hardness: 280, CompositionC: 0.40, CompositionMn: 0.87, CompositionCr: 1.00},
	GradeAISI4340: {Conductivity: 4.3, Hardness: 320, CompositionC: 0.40, CompositionMn: 0.70, CompositionCr: 0.80},
}

// Noise standard deviations and physical clip ranges.
const (
	sigmaConductivity = 0.4
	sigmaHardness     = 15
	sigmaC            = 0.02
	sigmaMn           = 0.05
	sigmaCr           = 0.05

	sigmaToolLife = 6
	sigmaRa       = 0.08
	sigmaFc       = 20

	floorToolLife = 5
	floorRa       = 0.05
	floorFc       = 50
)

type clipRange struct{ lo, hi float64 }

var (
	clipConductivity = clipRange{2, 10}
	clipHardness     = clipRange{150, 450}
	clipC            = clipRange{0.10, 0.70}
	clipMn           = clipRange{0.30, 1.20}
	clipCr           = clipRange{0, 1.50}
)

// Generate returns n synthetic specimens. The output depends only on n and
// seed: every call owns its PCG source, so concurrent callers never share
// random state.
//
// Grades are drawn uniformly, properties are normal around the grade profile
// and clipped, and targets are linear in the properties plus noise:
//
//	tool_life = 120 + 8·cond − 0.35·HV − 40·C + 10·Mn − 15·Cr + N(0, 6)   ≥ 5
//	Ra        = 0.3 − 0.03·cond + 0.003·HV + 0.5·C + N(0, 0.08)          ≥ 0.05
//	Fc        = 300 − 12·cond + 1.5·HV + 100·C + 50·Cr + N(0, 20)        ≥ 50
func Generate(n int, seed uint64) ([]Specimen, error) {
	if n <= 0 {
		return nil, errors.NewValidationError("n", "number of specimens must be positive", n)
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	normal := func(mean, sigma float64) float64 {
		return mean + sigma*rng.NormFloat64()
	}

	grades := make([]string, n)
	for i := range grades {
		grades[i] = SteelGrades[rng.IntN(len(SteelGrades))]
	}

	out := make([]Specimen, n)
	for i, g := range grades {
		p := GradeProfiles[g]

		cond := clipConductivity.apply(normal(p.Conductivity, sigmaConductivity))
		hv := clipHardness.apply(normal(p.Hardness, sigmaHardness))
		c := clipC.apply(normal(p.CompositionC, sigmaC))
		mn := clipMn.apply(normal(p.CompositionMn, sigmaMn))
		cr := clipCr.apply(normal(p.CompositionCr, sigmaCr))

		toolLife := 120 + 8*cond - 0.35*hv - 40*c + 10*mn - 15*cr + normal(0, sigmaToolLife)
		ra := 0.3 - 0.03*cond + 0.003*hv + 0.5*c + normal(0, sigmaRa)
		fc := 300 - 12*cond + 1.5*hv + 100*c + 50*cr + normal(0, sigmaFc)

		out[i] = Specimen{
			SteelGrade:    g,
			Conductivity:  scalar.RoundEven(cond, 3),
			Hardness:      scalar.RoundEven(hv, 1),
			CompositionC:  scalar.RoundEven(c, 4),
			CompositionMn: scalar.RoundEven(mn, 4),
			CompositionCr: scalar.RoundEven(cr, 4),
			ToolLife:      scalar.RoundEven(errors.Floor(toolLife, floorToolLife), 2),
			Ra:            scalar.RoundEven(errors.Floor(ra, floorRa), 4),
			Fc:            scalar.RoundEven(errors.Floor(fc, floorFc), 2),
		}
	}

	log.GetLoggerWithName("dataset").Debug("Synthetic specimens generated",
		log.OperationKey, log.OperationGenerate,
		log.SamplesKey, n,
		log.RandomSeedKey, seed,
	)
	return out, nil
}

// GenerateTable is Generate followed by FromSpecimens.
func GenerateTable(n int, seed uint64) (*Table, error) {
	specimens, err := Generate(n, seed)
	if err != nil {
		return nil, err
	}
	return FromSpecimens(specimens), nil
}

func (r clipRange) apply(v float64) float64 {
	return errors.ClipValue(v, r.lo, r.hi)
}
