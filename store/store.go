package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gorm.io/gorm"

	apperrors "github.com/kbukum/pageforge/errors"
	"github.com/kbukum/pageforge/logger"
)

// Store persists run documents and supports partial-path updates.
type Store interface {
	// CreateRun inserts a new run document. The document must carry the
	// run id at the top-level "id" field.
	CreateRun(ctx context.Context, id string, doc []byte) error

	// GetRun returns the full run document.
	GetRun(ctx context.Context, id string) ([]byte, error)

	// UpdateRunField sets one dotted path inside the run document, e.g.
	// "preview.html" or "qualityReport.score".
	UpdateRunField(ctx context.Context, id, path string, value interface{}) error

	// RecordStage writes a stage record under stageRecords.<stage> and
	// advances currentStage in the same update.
	RecordStage(ctx context.Context, id, stage string, record interface{}) error

	// ListRuns returns the most recently updated runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)

	Close() error
}

// SQLiteStore implements Store on a single SQLite table.
type SQLiteStore struct {
	db  *gorm.DB
	log *logger.Logger
}

var _ Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) CreateRun(ctx context.Context, id string, doc []byte) error {
	if id == "" {
		return apperrors.MissingField("id")
	}
	if !gjson.ValidBytes(doc) {
		return apperrors.InvalidInput("document", "not valid JSON")
	}

	row := runRow{
		ID:           id,
		CurrentStage: gjson.GetBytes(doc, "currentStage").String(),
		Status:       gjson.GetBytes(doc, "status").String(),
		Document:     string(doc),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return apperrors.PersistenceError("create run", err)
	}
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) ([]byte, error) {
	var row runRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("run", id)
	}
	if err != nil {
		return nil, apperrors.PersistenceError("get run", err)
	}
	return []byte(row.Document), nil
}

func (s *SQLiteStore) UpdateRunField(ctx context.Context, id, path string, value interface{}) error {
	return s.update(ctx, id, func(doc string) (string, error) {
		return setPath(doc, path, value)
	})
}

func (s *SQLiteStore) RecordStage(ctx context.Context, id, stage string, record interface{}) error {
	return s.update(ctx, id, func(doc string) (string, error) {
		doc, err := setPath(doc, "stageRecords."+stage, record)
		if err != nil {
			return "", err
		}
		return sjson.Set(doc, "currentStage", stage)
	})
}

// update loads the run row, applies fn to the document, and writes back the
// document with its mirror columns inside one transaction.
func (s *SQLiteStore) update(ctx context.Context, id string, fn func(doc string) (string, error)) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row runRow
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return err
		}

		doc, err := fn(row.Document)
		if err != nil {
			return err
		}

		row.Document = doc
		row.CurrentStage = gjson.Get(doc, "currentStage").String()
		row.Status = gjson.Get(doc, "status").String()
		return tx.Save(&row).Error
	})
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("run", id)
	}
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.PersistenceError("update run", err)
	}
	return nil
}

// setPath sets a dotted path via sjson. Struct and map values go through
// json.Marshal so their field tags apply.
func setPath(doc, path string, value interface{}) (string, error) {
	if path == "" {
		return "", apperrors.MissingField("path")
	}
	switch value.(type) {
	case nil, string, bool, int, int64, float64:
		return sjson.Set(doc, path, value)
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("encode value for %s: %w", path, err)
		}
		return sjson.SetRaw(doc, path, string(raw))
	}
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []runRow
	err := s.db.WithContext(ctx).
		Order("updated_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.PersistenceError("list runs", err)
	}

	out := make([]RunSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, RunSummary{
			ID:           r.ID,
			CurrentStage: r.CurrentStage,
			Status:       r.Status,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		})
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
