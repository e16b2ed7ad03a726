package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/fraudsight/fraudsight/internal/classifier"
	"github.com/fraudsight/fraudsight/internal/common"
	"github.com/fraudsight/fraudsight/internal/dataset"
	"gonum.org/v1/gonum/mat"
)

// Artifact kinds. An artifact's kind is checked on load so a matrix can
// never be decoded as a model.
const (
	KindModel   = "model"
	KindMatrix  = "matrix"
	KindVector  = "vector"
	KindColumns = "columns"
	KindEncoder = "encoder"
)

// modelEnvelope lets a Classifier travel through gob as an interface value.
type modelEnvelope struct {
	Model classifier.Classifier
}

// SaveModel persists a fitted predictor under its display name.
func (s *Store) SaveModel(ctx context.Context, name string, clf classifier.Classifier) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&modelEnvelope{Model: clf}); err != nil {
		return fmt.Errorf("failed to encode model %q: %w", name, err)
	}
	return s.save(ctx, name, KindModel, buf.Bytes())
}

// LoadModel restores a fitted predictor by name.
func (s *Store) LoadModel(ctx context.Context, name string) (classifier.Classifier, error) {
	payload, err := s.load(ctx, name, KindModel)
	if err != nil {
		return nil, err
	}
	var envelope modelEnvelope
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode model %q: %w", name, err)
	}
	return envelope.Model, nil
}

// ListModels returns the names of all persisted predictors.
func (s *Store) ListModels(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM artifacts WHERE kind = ? ORDER BY created_at, name`, KindModel)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan model name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SaveMatrix persists a feature matrix.
func (s *Store) SaveMatrix(ctx context.Context, name string, m *mat.Dense) error {
	payload, err := m.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode matrix %q: %w", name, err)
	}
	return s.save(ctx, name, KindMatrix, payload)
}

// LoadMatrix restores a feature matrix by name.
func (s *Store) LoadMatrix(ctx context.Context, name string) (*mat.Dense, error) {
	payload, err := s.load(ctx, name, KindMatrix)
	if err != nil {
		return nil, err
	}
	var m mat.Dense
	if err := m.UnmarshalBinary(payload); err != nil {
		return nil, fmt.Errorf("failed to decode matrix %q: %w", name, err)
	}
	return &m, nil
}

// SaveVector persists a target vector.
func (s *Store) SaveVector(ctx context.Context, name string, v []float64) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("failed to encode vector %q: %w", name, err)
	}
	return s.save(ctx, name, KindVector, buf.Bytes())
}

// LoadVector restores a target vector by name.
func (s *Store) LoadVector(ctx context.Context, name string) ([]float64, error) {
	payload, err := s.load(ctx, name, KindVector)
	if err != nil {
		return nil, err
	}
	var v []float64
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode vector %q: %w", name, err)
	}
	return v, nil
}

// SaveColumns persists the ordered feature column names.
func (s *Store) SaveColumns(ctx context.Context, name string, columns []string) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(columns); err != nil {
		return fmt.Errorf("failed to encode columns %q: %w", name, err)
	}
	return s.save(ctx, name, KindColumns, buf.Bytes())
}

// LoadColumns restores the ordered feature column names.
func (s *Store) LoadColumns(ctx context.Context, name string) ([]string, error) {
	payload, err := s.load(ctx, name, KindColumns)
	if err != nil {
		return nil, err
	}
	var columns []string
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&columns); err != nil {
		return nil, fmt.Errorf("failed to decode columns %q: %w", name, err)
	}
	return columns, nil
}

// SaveEncoder persists the fitted categorical encoding table so serving can
// re-encode raw values exactly as training did.
func (s *Store) SaveEncoder(ctx context.Context, name string, e *dataset.Encoder) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return fmt.Errorf("failed to encode encoder %q: %w", name, err)
	}
	return s.save(ctx, name, KindEncoder, buf.Bytes())
}

// LoadEncoder restores the fitted categorical encoding table.
func (s *Store) LoadEncoder(ctx context.Context, name string) (*dataset.Encoder, error) {
	payload, err := s.load(ctx, name, KindEncoder)
	if err != nil {
		return nil, err
	}
	var e dataset.Encoder
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&e); err != nil {
		return nil, fmt.Errorf("failed to decode encoder %q: %w", name, err)
	}
	return &e, nil
}

func (s *Store) save(ctx context.Context, name, kind string, payload []byte) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifacts (name, kind, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			kind = excluded.kind,
			payload = excluded.payload,
			created_at = CURRENT_TIMESTAMP`,
		name, kind, payload)
	if err != nil {
		return fmt.Errorf("failed to save artifact %q: %w", name, err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, name, kind string) ([]byte, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var payload []byte
	var storedKind string
	err := s.db.QueryRowContext(ctx,
		`SELECT kind, payload FROM artifacts WHERE name = ?`, name).
		Scan(&storedKind, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact %q: %w", name, err)
	}
	if storedKind != kind {
		return nil, fmt.Errorf("artifact %q has kind %q, expected %q", name, storedKind, kind)
	}
	return payload, nil
}
