package platerank

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrNonFinite reports NaN or infinite values in a feature matrix. Fitting
// on such input would silently poison the parameters, so it fails instead.
var ErrNonFinite = errors.New("feature matrix contains non-finite values")

// SVMConfig contains configuration for training a LinearSVM.
type SVMConfig struct {
	LearningRate float64
	Epochs       int
	BatchSize    int
	Seed         int64           // Shuffle seed; 0 means time-based (non-deterministic).
	Context      context.Context // Checked for cancellation between epochs.
}

// DefaultSVMConfig returns the hyperparameters used by the offline
// training step.
func DefaultSVMConfig() SVMConfig {
	return SVMConfig{
		LearningRate: 0.001,
		Epochs:       5000,
		BatchSize:    64,
		Context:      context.Background(),
	}
}

// A LinearSVM is a binary soft-margin linear classifier trained from
// scratch with mini-batch sub-gradient descent on hinge loss. Public labels
// are {0, 1}; the {-1, +1} remapping used by the hinge update is internal.
//
// W and B are exported so fitted parameters can be persisted directly; they
// are immutable once written and must never be modified by a reader.
type LinearSVM struct {
	W []float64 // Weight vector, one entry per feature column.
	B float64   // Bias.

	config SVMConfig
}

// NewLinearSVM creates an unfitted classifier.
func NewLinearSVM(config SVMConfig) *LinearSVM {
	if config.Context == nil {
		config.Context = context.Background()
	}
	return &LinearSVM{config: config}
}

// Fitted reports whether the classifier has parameters.
func (s *LinearSVM) Fitted() bool {
	return s.W != nil
}

// Fit trains the classifier. X has one row per sample; y holds labels in
// {0, 1}. Each epoch shuffles the sample order and walks it in mini-batches.
// Samples violating the margin contribute the averaged hinge sub-gradient;
// the weight update adds a shrinkage term whose strength is inversely
// proportional to the configured epoch count.
func (s *LinearSVM) Fit(X *mat.Dense, y []int) error {
	n, d := X.Dims()
	if n == 0 || d == 0 {
		return ErrEmptyCorpus
	}
	if len(y) != n {
		return fmt.Errorf("label count %d does not match sample count %d", len(y), n)
	}
	for i := 0; i < n; i++ {
		row := X.RawRowView(i)
		for _, val := range row {
			if math.IsNaN(val) || math.IsInf(val, 0) {
				return ErrNonFinite
			}
		}
	}

	// Remap labels to {-1, +1} for the hinge condition.
	signs := make([]float64, n)
	for i, label := range y {
		if label <= 0 {
			signs[i] = -1
		} else {
			signs[i] = 1
		}
	}

	seed := s.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	batchSize := s.config.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}
	epochs := s.config.Epochs
	if epochs <= 0 {
		epochs = 1
	}
	shrink := 2.0 / float64(epochs)

	w := make([]float64, d)
	b := 0.0
	gradient := make([]float64, d)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	for epoch := 0; epoch < epochs; epoch++ {
		select {
		case <-s.config.Context.Done():
			return s.config.Context.Err()
		default:
		}

		rng.Shuffle(n, func(i, j int) {
			perm[i], perm[j] = perm[j], perm[i]
		})

		for start := 0; start < n; start += batchSize {
			end := start + batchSize
			if end > n {
				end = n
			}

			// Sum the sub-gradient over margin violators in this batch.
			for j := range gradient {
				gradient[j] = 0
			}
			signSum := 0.0
			violators := 0
			for _, idx := range perm[start:end] {
				row := X.RawRowView(idx)
				if signs[idx]*(floats.Dot(row, w)+b) >= 1 {
					continue
				}
				floats.AddScaled(gradient, signs[idx], row)
				signSum += signs[idx]
				violators++
			}

			// With no violators only the shrinkage term moves w.
			denom := float64(maxInt(1, violators))
			for j := range w {
				dw := shrink*w[j] - gradient[j]/denom
				w[j] -= s.config.LearningRate * dw
			}
			b -= s.config.LearningRate * (-signSum / denom)
		}
	}

	s.W = w
	s.B = b
	return nil
}

// Predict classifies each row of X, returning labels in {0, 1}. A decision
// score of zero or above maps to the positive class.
func (s *LinearSVM) Predict(X *mat.Dense) ([]int, error) {
	if !s.Fitted() {
		return nil, ErrNotFitted
	}
	n, d := X.Dims()
	if d != len(s.W) {
		return nil, &DimensionError{Want: len(s.W), Got: d}
	}

	labels := make([]int, n)
	for i := 0; i < n; i++ {
		if floats.Dot(X.RawRowView(i), s.W)+s.B >= 0 {
			labels[i] = 1
		}
	}
	return labels, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
