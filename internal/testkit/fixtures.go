package testkit

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"fdrtidy/domain/fdr"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// FixtureConfig configures synthetic q-value results
type FixtureConfig struct {
	Label     string
	Records   int
	NullShare float64 // share of p-values drawn from the uniform null
	Alpha     float64 // Beta(Alpha, Beta) alternative, Alpha < 1 concentrates near zero
	Beta      float64
	Lambda    []float64
	Smooth    bool
	Seed      uint64
}

// DefaultFixtureConfig returns a smoothed 200-record fixture on the 0.05..0.95 grid
func DefaultFixtureConfig() FixtureConfig {
	return FixtureConfig{
		Label:     "synthetic",
		Records:   200,
		NullShare: 0.8,
		Alpha:     0.3,
		Beta:      4,
		Lambda:    floats.Span(make([]float64, 19), 0.05, 0.95),
		Smooth:    true,
		Seed:      42,
	}
}

// FixtureGenerator synthesizes internally consistent q-value results.
// It is an input generator for tests and demos, not an estimator.
type FixtureGenerator struct {
	config FixtureConfig
	src    rand.Source
}

// NewFixtureGenerator creates a generator; equal seeds give equal results
func NewFixtureGenerator(config FixtureConfig) *FixtureGenerator {
	return &FixtureGenerator{
		config: config,
		src:    rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15),
	}
}

// Generate draws one result
func (g *FixtureGenerator) Generate() (*fdr.Result, error) {
	cfg := g.config
	if cfg.Records <= 0 {
		return nil, fmt.Errorf("fixture needs at least one record, got %d", cfg.Records)
	}
	if cfg.NullShare < 0 || cfg.NullShare > 1 {
		return nil, fmt.Errorf("null share must be within [0, 1], got %g", cfg.NullShare)
	}
	if len(cfg.Lambda) == 0 {
		return nil, fmt.Errorf("fixture needs a lambda grid")
	}
	for _, l := range cfg.Lambda {
		if l < 0 || l >= 1 {
			return nil, fmt.Errorf("lambda must be within [0, 1), got %g", l)
		}
	}

	pvalues := g.drawPValues()

	pi0Lambda, err := g.pi0PerLambda(pvalues)
	if err != nil {
		return nil, err
	}

	res := &fdr.Result{
		Label:     cfg.Label,
		PValues:   pvalues,
		Lambda:    append([]float64(nil), cfg.Lambda...),
		Pi0Lambda: pi0Lambda,
	}

	source := pi0Lambda
	if cfg.Smooth {
		smooth, err := smoothPi0(cfg.Lambda, pi0Lambda)
		if err != nil {
			return nil, err
		}
		res.Pi0Smooth = smooth
		source = smooth
	}

	pi0 := math.Min(1, choosePi0(source, cfg.Smooth))
	res.Pi0 = fdr.Float(pi0)
	res.QValues = qValues(pvalues, pi0)
	res.LFDR = g.localFDR(pvalues, pi0)

	return res, nil
}

func (g *FixtureGenerator) drawPValues() []float64 {
	cfg := g.config
	selector := distuv.Uniform{Min: 0, Max: 1, Src: g.src}
	null := distuv.Uniform{Min: 0, Max: 1, Src: g.src}
	alt := distuv.Beta{Alpha: cfg.Alpha, Beta: cfg.Beta, Src: g.src}

	pvalues := make([]float64, cfg.Records)
	for i := range pvalues {
		if selector.Rand() < cfg.NullShare {
			pvalues[i] = null.Rand()
		} else {
			pvalues[i] = alt.Rand()
		}
	}
	return pvalues
}

// pi0(lambda) is the share of p-values above lambda scaled by 1/(1-lambda)
func (g *FixtureGenerator) pi0PerLambda(pvalues []float64) ([]float64, error) {
	out := make([]float64, len(g.config.Lambda))
	above := make(stats.Float64Data, len(pvalues))
	for i, l := range g.config.Lambda {
		for j, p := range pvalues {
			above[j] = 0
			if p > l {
				above[j] = 1
			}
		}
		share, err := stats.Mean(above)
		if err != nil {
			return nil, fmt.Errorf("failed to estimate pi0 at lambda %g: %w", l, err)
		}
		out[i] = share / (1 - l)
	}
	return out, nil
}

// smoothPi0 fits a least-squares line through pi0(lambda)
func smoothPi0(lambda, pi0Lambda []float64) ([]float64, error) {
	if len(lambda) < 2 {
		return append([]float64(nil), pi0Lambda...), nil
	}

	series := make(stats.Series, len(lambda))
	for i := range lambda {
		series[i] = stats.Coordinate{X: lambda[i], Y: pi0Lambda[i]}
	}
	fit, err := stats.LinearRegression(series)
	if err != nil {
		return nil, fmt.Errorf("failed to smooth pi0: %w", err)
	}

	smooth := make([]float64, len(fit))
	for i, c := range fit {
		smooth[i] = c.Y
	}
	return smooth, nil
}

// choosePi0 takes the smoothed value at the largest lambda, or the raw
// estimate closest to lambda 0.5 when unsmoothed
func choosePi0(source []float64, smoothed bool) float64 {
	if smoothed {
		return source[len(source)-1]
	}
	return source[len(source)/2]
}

// qValues are Benjamini-Hochberg adjusted p-values scaled by pi0
func qValues(pvalues []float64, pi0 float64) []float64 {
	m := len(pvalues)
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return pvalues[order[a]] < pvalues[order[b]] })

	q := make([]float64, m)
	running := 1.0
	for rank := m; rank >= 1; rank-- {
		i := order[rank-1]
		v := pi0 * float64(m) * pvalues[i] / float64(rank)
		running = math.Min(running, v)
		q[i] = math.Min(1, running)
	}
	return q
}

// localFDR uses the generating mixture: pi0 / (pi0 + (1-pi0) f1(p))
func (g *FixtureGenerator) localFDR(pvalues []float64, pi0 float64) []float64 {
	alt := distuv.Beta{Alpha: g.config.Alpha, Beta: g.config.Beta}
	out := make([]float64, len(pvalues))
	for i, p := range pvalues {
		denom := pi0 + (1-pi0)*alt.Prob(p)
		switch {
		case math.IsInf(denom, 1):
			out[i] = 0
		case denom <= 0:
			out[i] = 1
		default:
			out[i] = math.Max(0, math.Min(1, pi0/denom))
		}
	}
	return out
}

// SummaryExample is the three-point sweep whose pi0 0.8 was chosen at lambda 0.2
func SummaryExample() *fdr.Result {
	return &fdr.Result{
		Lambda:    []float64{0.1, 0.2, 0.3},
		Pi0Lambda: []float64{0.9, 0.8, 0.95},
		Pi0:       fdr.Float(0.8),
	}
}

// ThreeRecordExample is a complete unsmoothed result with three records
func ThreeRecordExample() *fdr.Result {
	return &fdr.Result{
		Label:     "three-records",
		PValues:   []float64{0.01, 0.5, 0.9},
		QValues:   []float64{0.03, 0.6, 0.9},
		LFDR:      []float64{0.05, 0.7, 0.95},
		Lambda:    []float64{0.1, 0.2, 0.3},
		Pi0Lambda: []float64{0.9, 0.8, 0.95},
		Pi0:       fdr.Float(0.8),
	}
}
