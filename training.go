package platerank

import (
	"context"
	"time"
)

// TrainingConfig contains configuration for the offline training step.
type TrainingConfig struct {
	LearningRate float64
	Epochs       int
	BatchSize    int
	MaxFeatures  int
	Seed         int64           // Shuffle seed; 0 means non-deterministic.
	Context      context.Context // Checked for cancellation during training.
}

// DefaultTrainingConfig returns the hyperparameters used in production
// training runs.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		LearningRate: 0.001,
		Epochs:       5000,
		BatchSize:    64,
		MaxFeatures:  5000,
		Context:      context.Background(),
	}
}

// TrainingMetrics contains metrics from a training run.
type TrainingMetrics struct {
	Samples       int
	Features      int
	Positives     int
	Negatives     int
	TrainAccuracy float64
	TrainingTime  time.Duration
}

// A Trainer fits every model artifact from the review corpus. Training is
// run to completion offline; the serving path never retrains.
type Trainer struct {
	config TrainingConfig
}

// NewTrainer creates a trainer with the given configuration.
func NewTrainer(config TrainingConfig) *Trainer {
	if config.Context == nil {
		config.Context = context.Background()
	}
	return &Trainer{config: config}
}

// TrainSentimentClassifier fits the TF-IDF featurizer and the linear SVM
// on the review corpus. Labels derive from ratings: three stars and above
// is the positive class. The returned vectorizer is the one the classifier
// was trained against; the pair must be persisted and loaded together.
func (t *Trainer) TrainSentimentClassifier(reviews []Review) (*TFIDFVectorizer, *LinearSVM, TrainingMetrics, error) {
	start := time.Now()
	var metrics TrainingMetrics

	if len(reviews) == 0 {
		return nil, nil, metrics, ErrEmptyCorpus
	}

	docs := make([]string, len(reviews))
	labels := make([]int, len(reviews))
	for i, review := range reviews {
		docs[i] = review.Text
		if SentimentForRating(review.Rating) == Positive {
			labels[i] = 1
			metrics.Positives++
		} else {
			metrics.Negatives++
		}
	}

	vectorizer := NewTFIDFVectorizer(VectorizerConfig{
		MaxFeatures: t.config.MaxFeatures,
		NGramMax:    2,
	})
	features, err := vectorizer.FitTransform(docs)
	if err != nil {
		return nil, nil, metrics, err
	}

	classifier := NewLinearSVM(SVMConfig{
		LearningRate: t.config.LearningRate,
		Epochs:       t.config.Epochs,
		BatchSize:    t.config.BatchSize,
		Seed:         t.config.Seed,
		Context:      t.config.Context,
	})
	if err := classifier.Fit(features, labels); err != nil {
		return nil, nil, metrics, err
	}

	predicted, err := classifier.Predict(features)
	if err != nil {
		return nil, nil, metrics, err
	}
	correct := 0
	for i, label := range predicted {
		if label == labels[i] {
			correct++
		}
	}

	metrics.Samples = len(reviews)
	metrics.Features = vectorizer.NumFeatures()
	metrics.TrainAccuracy = float64(correct) / float64(len(reviews))
	metrics.TrainingTime = time.Since(start)
	return vectorizer, classifier, metrics, nil
}

// TrainSimilarityModel builds the grouped-restaurant corpus and its cosine
// similarity matrix.
func (t *Trainer) TrainSimilarityModel(reviews []Review) (*SimilarityModel, error) {
	config := SimilarityVectorizerConfig()
	if t.config.MaxFeatures > 0 {
		config.MaxFeatures = t.config.MaxFeatures
	}
	return BuildSimilarityModel(reviews, config)
}

// Train runs the full offline step and bundles the artifacts of this one
// run into a Model. Any failure aborts the run; no partial model is
// returned.
func (t *Trainer) Train(reviews []Review) (*Model, TrainingMetrics, error) {
	vectorizer, classifier, metrics, err := t.TrainSentimentClassifier(reviews)
	if err != nil {
		return nil, metrics, err
	}
	similarity, err := t.TrainSimilarityModel(reviews)
	if err != nil {
		return nil, metrics, err
	}
	return &Model{
		Vectorizer: vectorizer,
		Classifier: classifier,
		Similarity: similarity,
	}, metrics, nil
}
