// Package registry provides uniform access to the named, fitted predictors
// used by the reporting views.
package registry

import (
	"fmt"
	"sort"

	"github.com/fraudsight/fraudsight/internal/classifier"
	"github.com/fraudsight/fraudsight/internal/common"
	"gonum.org/v1/gonum/mat"
)

// entry pairs a predictor with its capabilities, resolved once at
// registration rather than re-checked per call.
type entry struct {
	clf        classifier.Classifier
	ranker     classifier.Ranker
	calibrated bool
}

// Registry holds the fitted predictors. It is populated once at startup and
// read-only afterwards, so concurrent readers need no locking.
type Registry struct {
	entries map[string]entry
	names   []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a fitted predictor under a display name. Registering a name
// twice is a programming error and leaves the first registration intact.
func (r *Registry) Register(name string, clf classifier.Classifier) error {
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("%w: %q", common.ErrDuplicateName, name)
	}

	e := entry{clf: clf, calibrated: clf.Calibrated()}
	if ranker, ok := clf.(classifier.Ranker); ok {
		e.ranker = ranker
	}
	r.entries[name] = e
	r.names = append(r.names, name)
	return nil
}

// Names returns the registered model names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// PredictLabels runs hard classification, returning one {0,1} label per
// feature row.
func (r *Registry) PredictLabels(name string, features *mat.Dense) ([]float64, error) {
	e, err := r.lookup(name, features)
	if err != nil {
		return nil, err
	}
	return e.clf.Predict(features), nil
}

// PredictScore returns per-row scores: calibrated probabilities when the
// predictor supports them, otherwise raw decision margins that are only
// meaningful by rank.
func (r *Registry) PredictScore(name string, features *mat.Dense) ([]float64, error) {
	e, err := r.lookup(name, features)
	if err != nil {
		return nil, err
	}
	return e.clf.Score(features), nil
}

// Calibrated reports whether PredictScore values for the model are
// probabilities in [0,1].
func (r *Registry) Calibrated(name string) (bool, error) {
	e, ok := r.entries[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", common.ErrUnknownModel, name)
	}
	return e.calibrated, nil
}

// Importance is one feature's weight in a model's importance ranking.
type Importance struct {
	Feature string
	Weight  float64
}

// FeatureImportance returns the model's feature ranking in descending
// weight order. Predictors without the capability report ErrNotSupported;
// that is a capability result, not a failure of the registry.
func (r *Registry) FeatureImportance(name string, columns []string) ([]Importance, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownModel, name)
	}
	if e.ranker == nil {
		return nil, fmt.Errorf("%w: %q has no feature importance", common.ErrNotSupported, name)
	}

	weights := e.ranker.FeatureImportances()
	if len(weights) != len(columns) {
		return nil, fmt.Errorf("%w: %d weights vs %d columns",
			common.ErrFeatureShape, len(weights), len(columns))
	}

	ranked := make([]Importance, len(weights))
	for i, w := range weights {
		ranked[i] = Importance{Feature: columns[i], Weight: w}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Weight > ranked[j].Weight })
	return ranked, nil
}

func (r *Registry) lookup(name string, features *mat.Dense) (entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return entry{}, fmt.Errorf("%w: %q", common.ErrUnknownModel, name)
	}
	_, cols := features.Dims()
	if cols != e.clf.NumFeatures() {
		return entry{}, fmt.Errorf("%w: model %q was fitted on %d features, got %d",
			common.ErrFeatureShape, name, e.clf.NumFeatures(), cols)
	}
	return e, nil
}
