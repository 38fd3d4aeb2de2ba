package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/exprset"
	"github.com/hupe1980/exprset/frame"
	"github.com/hupe1980/exprset/matrix"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns, as a float64, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// NormFloat64 returns a normally distributed float64.
func (r *RNG) NormFloat64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.NormFloat64()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float64 in a loop).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// Intensities generates a row-major features-by-samples block of
// log-scale expression intensities. Each feature gets a baseline in
// [6, 10) and per-sample Gaussian noise around it, which is roughly how
// normalized microarray data looks.
func (r *RNG) Intensities(features, samples int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]float64, features*samples)

	for i := range features {
		base := 6 + 4*r.rand.Float64()
		for j := range samples {
			values[i*samples+j] = base + r.rand.NormFloat64()*0.5
		}
	}

	return values
}

// FeatureIDs returns n synthetic probe identifiers FT00001..FT<n>.
func FeatureIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("FT%05d", i+1)
	}
	return ids
}

// SampleIDs returns n synthetic sample identifiers S001..S<n>.
func SampleIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("S%03d", i+1)
	}
	return ids
}

// Matrix generates a features-by-samples expression matrix with
// identifiers bound on both axes.
func (r *RNG) Matrix(features, samples int) *matrix.Dense {
	m, err := matrix.New(features, samples, r.Intensities(features, samples), func(o *matrix.Options) {
		o.RowIDs = FeatureIDs(features)
		o.ColIDs = SampleIDs(samples)
	})
	if err != nil {
		panic(err)
	}

	return m
}

// Covariates generates a sample table with group, age and sex columns
// for the given sample identifiers.
func (r *RNG) Covariates(sampleIDs []string) *frame.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	cols := []frame.Column{
		{Name: "group", Label: "Case/control status", Type: frame.FieldTypeString},
		{Name: "age", Label: "Age at enrollment", Type: frame.FieldTypeInt},
		{Name: "sex", Label: "Sex", Type: frame.FieldTypeString},
	}

	data := make([][]frame.Value, len(sampleIDs))
	for i := range data {
		group := "Control"
		if r.rand.Intn(2) == 0 {
			group = "Case"
		}

		sex := "Female"
		if r.rand.Intn(2) == 0 {
			sex = "Male"
		}

		data[i] = []frame.Value{
			frame.String(group),
			frame.Int(int64(18 + r.rand.Intn(62))),
			frame.String(sex),
		}
	}

	f, err := frame.New(sampleIDs, cols, data)
	if err != nil {
		panic(err)
	}

	return f
}

// Annotations generates a feature table with symbol and chromosome
// columns for the given feature identifiers.
func (r *RNG) Annotations(featureIDs []string) *frame.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	cols := []frame.Column{
		{Name: "symbol", Label: "Gene symbol", Type: frame.FieldTypeString},
		{Name: "chromosome", Label: "Chromosome", Type: frame.FieldTypeString},
	}

	data := make([][]frame.Value, len(featureIDs))
	for i := range data {
		data[i] = []frame.Value{
			frame.String(fmt.Sprintf("GENE%05d", i+1)),
			frame.String(fmt.Sprintf("%d", 1+r.rand.Intn(22))),
		}
	}

	f, err := frame.New(featureIDs, cols, data)
	if err != nil {
		panic(err)
	}

	return f
}

// Study returns a fixed experiment description record.
func Study() exprset.Study {
	return exprset.Study{
		Name:      "Pierre Fermat",
		Lab:       "Francis Lab",
		Contact:   "pfermat@localhost",
		Title:     "Smoking-Cancer Experiment",
		Abstract:  "An example object of expression data.",
		PubMedIDs: []string{"8675309"},
		Other:     map[string]string{"platform": "hgu95av2"},
	}
}

// Set generates a fully annotated expression set with the given
// dimensions.
func (r *RNG) Set(features, samples int) *exprset.Set {
	m := r.Matrix(features, samples)

	s, err := exprset.New(m,
		exprset.WithPheno(r.Covariates(m.ColIDs())),
		exprset.WithFeatures(r.Annotations(m.RowIDs())),
		exprset.WithStudy(Study()),
	)
	if err != nil {
		panic(err)
	}

	return s
}
