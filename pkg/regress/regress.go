// Package regress trains multi-feature linear models by batch gradient
// descent. It backs offline studies (e.g. regressing fill prices on flow
// features); nothing in the matching path depends on it.
package regress

import "errors"

var (
	ErrEmptyTrainingSet = errors.New("regress: empty training set")
	ErrLengthMismatch   = errors.New("regress: feature and target lengths differ")
	ErrRaggedFeatures   = errors.New("regress: feature rows have differing widths")
)

const (
	defaultLearningRate = 0.01
	defaultIterations   = 1000
)

// Model is a linear regressor: y = intercept + Σ coeff_j * x_j.
type Model struct {
	coeffs    []float64
	intercept float64
	rate      float64
	iters     int
}

// New builds an untrained model. Non-positive rate or iterations select the
// defaults (0.01, 1000).
func New(rate float64, iterations int) *Model {
	if rate <= 0 {
		rate = defaultLearningRate
	}
	if iterations <= 0 {
		iterations = defaultIterations
	}
	return &Model{rate: rate, iters: iterations}
}

// Fit trains on samples X against targets y, resetting any previous fit.
func (m *Model) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 || len(y) == 0 {
		return ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return ErrLengthMismatch
	}
	features := len(X[0])
	for _, row := range X {
		if len(row) != features {
			return ErrRaggedFeatures
		}
	}

	samples := len(X)
	m.coeffs = make([]float64, features)
	m.intercept = 0

	preds := make([]float64, samples)
	grads := make([]float64, features)
	for iter := 0; iter < m.iters; iter++ {
		for i, row := range X {
			preds[i] = m.predictOne(row)
		}

		interceptGrad := 0.0
		for j := range grads {
			grads[j] = 0
		}
		for i, row := range X {
			err := preds[i] - y[i]
			interceptGrad += err
			for j, x := range row {
				grads[j] += err * x
			}
		}

		step := m.rate * 2.0 / float64(samples)
		m.intercept -= step * interceptGrad
		for j := range m.coeffs {
			m.coeffs[j] -= step * grads[j]
		}
	}
	return nil
}

// Predict evaluates the model on each sample row.
func (m *Model) Predict(X [][]float64) []float64 {
	out := make([]float64, 0, len(X))
	for _, row := range X {
		out = append(out, m.predictOne(row))
	}
	return out
}

func (m *Model) predictOne(row []float64) float64 {
	p := m.intercept
	for j := 0; j < len(row) && j < len(m.coeffs); j++ {
		p += m.coeffs[j] * row[j]
	}
	return p
}

// Coefficients returns a copy of the fitted feature weights.
func (m *Model) Coefficients() []float64 {
	out := make([]float64, len(m.coeffs))
	copy(out, m.coeffs)
	return out
}

// Intercept returns the fitted bias term.
func (m *Model) Intercept() float64 { return m.intercept }

// MSE returns the mean squared error of the model over X against y.
func (m *Model) MSE(X [][]float64, y []float64) (float64, error) {
	if len(X) == 0 {
		return 0, ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return 0, ErrLengthMismatch
	}
	sum := 0.0
	for i, row := range X {
		err := m.predictOne(row) - y[i]
		sum += err * err
	}
	return sum / float64(len(y)), nil
}
