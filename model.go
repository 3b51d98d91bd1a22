package platerank

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Artifact file names inside a model directory. The sentiment pair
// (vectorizer + classifier) is required; the similarity model is optional
// as a whole but never loaded piecewise.
const (
	vectorizerFile = "vectorizer.gob"
	classifierFile = "svm.gob"
	similarityFile = "similarity.gob"
)

// A Model holds every artifact produced by one training run. All artifacts
// are written together and loaded together; once loaded they are shared,
// immutable, and read-only.
type Model struct {
	Vectorizer *TFIDFVectorizer
	Classifier *LinearSVM
	Similarity *SimilarityModel // nil when similarity artifacts are absent.
}

// SimilarityAvailable reports whether the content-based similarity
// artifacts were loaded. When false the recommender runs in fallback mode.
func (m *Model) SimilarityAvailable() bool {
	return m.Similarity != nil
}

// Write persists the model to a directory. Artifacts are staged in a
// temporary sibling directory first so a failed run never leaves a
// partially-written model behind.
func (m *Model) Write(dir string) error {
	if m.Vectorizer == nil || !m.Vectorizer.Fitted() {
		return fmt.Errorf("write model: vectorizer: %w", ErrNotFitted)
	}
	if m.Classifier == nil || !m.Classifier.Fitted() {
		return fmt.Errorf("write model: classifier: %w", ErrNotFitted)
	}

	staging := dir + ".tmp"
	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return fmt.Errorf("write model: %w", err)
	}

	if err := writeGob(filepath.Join(staging, vectorizerFile), m.Vectorizer); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if err := writeGob(filepath.Join(staging, classifierFile), m.Classifier); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if m.Similarity != nil {
		if err := writeGob(filepath.Join(staging, similarityFile), m.Similarity); err != nil {
			return fmt.Errorf("write model: %w", err)
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if err := os.Rename(staging, dir); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// ModelFromDisk loads a model directory. A missing or undecodable
// sentiment artifact, or a vectorizer whose vocabulary size disagrees with
// the classifier's weight vector, is a configuration error. A missing
// similarity file is not: the model simply reports similarity unavailable.
// A similarity file that is present but malformed is a configuration error
// too, never a silent fallback.
func ModelFromDisk(dir string) (*Model, error) {
	vectorizer := &TFIDFVectorizer{}
	if err := readGob(filepath.Join(dir, vectorizerFile), vectorizer); err != nil {
		return nil, fmt.Errorf("load model %s: vectorizer: %w", dir, err)
	}
	if !vectorizer.Fitted() {
		return nil, fmt.Errorf("load model %s: vectorizer: %w", dir, ErrNotFitted)
	}

	classifier := &LinearSVM{}
	if err := readGob(filepath.Join(dir, classifierFile), classifier); err != nil {
		return nil, fmt.Errorf("load model %s: classifier: %w", dir, err)
	}
	if !classifier.Fitted() {
		return nil, fmt.Errorf("load model %s: classifier: %w", dir, ErrNotFitted)
	}
	if vectorizer.NumFeatures() != len(classifier.W) {
		return nil, fmt.Errorf("load model %s: %w", dir,
			&DimensionError{Want: len(classifier.W), Got: vectorizer.NumFeatures()})
	}

	model := &Model{Vectorizer: vectorizer, Classifier: classifier}

	similarity := &SimilarityModel{}
	err := readGob(filepath.Join(dir, similarityFile), similarity)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Similarity artifacts were not produced; recommender falls back.
	case err != nil:
		return nil, fmt.Errorf("load model %s: similarity: %w", dir, err)
	default:
		if len(similarity.Restaurants) != similarity.Size ||
			len(similarity.Sim) != similarity.Size*similarity.Size ||
			len(similarity.Documents) != similarity.Size {
			return nil, fmt.Errorf("load model %s: similarity matrix does not match grouped corpus", dir)
		}
		model.Similarity = similarity
	}
	return model, nil
}

func writeGob(path string, value any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(file).Encode(value); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func readGob(path string, value any) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return gob.NewDecoder(file).Decode(value)
}
