// Package postgres persists documents in a single JSONB-backed table and
// fans out change events over Redis so live watches see writes from any
// connection.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/francolucas/habit-tracker/internal/domain/events"
	"github.com/francolucas/habit-tracker/internal/infrastructure/cache"
	"github.com/francolucas/habit-tracker/internal/infrastructure/persistence/postgres/connection"
	"github.com/francolucas/habit-tracker/internal/store"
	"github.com/francolucas/habit-tracker/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type document struct {
	Collection string         `gorm:"primaryKey;size:64;not null"`
	DocID      string         `gorm:"primaryKey;size:128;not null;column:doc_id"`
	Fields     datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time      `gorm:"not null"`
	UpdatedAt  time.Time      `gorm:"not null;autoUpdateTime"`
}

func (document) TableName() string {
	return "documents"
}

// AutoMigrate creates the documents table.
func AutoMigrate(db *connection.Database) error {
	return db.AutoMigrate(&document{})
}

// DocStore implements store.DocStore on Postgres.
type DocStore struct {
	db    *connection.Database
	redis *cache.RedisClient
	log   *logger.Logger
}

func NewDocStore(db *connection.Database, redis *cache.RedisClient, log *logger.Logger) *DocStore {
	return &DocStore{db: db, redis: redis, log: log}
}

func (s *DocStore) Get(ctx context.Context, collection, id string) (store.Snapshot, error) {
	var doc document
	result := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&doc)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return store.Snapshot{ID: id, Exists: false}, nil
		}
		return store.Snapshot{}, result.Error
	}

	fields, err := decodeFields(doc.Fields)
	if err != nil {
		return store.Snapshot{}, err
	}

	return store.Snapshot{ID: id, Fields: fields, Exists: true}, nil
}

func (s *DocStore) List(ctx context.Context, collection string) ([]store.Snapshot, error) {
	var docs []document
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("doc_id asc").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	snapshots := make([]store.Snapshot, 0, len(docs))
	for _, doc := range docs {
		fields, err := decodeFields(doc.Fields)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, store.Snapshot{ID: doc.DocID, Fields: fields, Exists: true})
	}

	return snapshots, nil
}

func (s *DocStore) Apply(ctx context.Context, collection, id string, merge store.Merge) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc document
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection = ? AND doc_id = ?", collection, id).
			First(&doc)

		existing := map[string]interface{}{}
		found := result.Error == nil
		if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
		if found {
			fields, err := decodeFields(doc.Fields)
			if err != nil {
				return err
			}
			existing = fields
		}

		merged := store.ApplyMerge(existing, merge)
		encoded, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("failed to encode document fields: %w", err)
		}

		if !found {
			return tx.Create(&document{
				Collection: collection,
				DocID:      id,
				Fields:     encoded,
			}).Error
		}

		return tx.Model(&document{}).
			Where("collection = ? AND doc_id = ?", collection, id).
			Update("fields", datatypes.JSON(encoded)).Error
	})
	if err != nil {
		return err
	}

	// Best effort: a lost change event only delays watchers until the next one.
	if err := s.redis.PublishChange(ctx, events.NewChange(collection, id)); err != nil {
		s.log.Error("Failed to publish change event",
			zap.String("collection", collection),
			zap.String("doc_id", id),
			zap.Error(err))
	}

	return nil
}

func (s *DocStore) WatchCollection(ctx context.Context, collection string, onSnapshot store.CollectionHandler, onError store.ErrorHandler) error {
	initial, err := s.List(ctx, collection)
	if err != nil {
		return err
	}
	onSnapshot(initial)

	go func() {
		err := s.redis.SubscribeChanges(ctx, collection, func(_ *events.Change) error {
			docs, err := s.List(ctx, collection)
			if err != nil {
				onError(&store.Error{Code: store.CodeInternal, Message: err.Error()})
				return nil
			}
			onSnapshot(docs)
			return nil
		})
		if err != nil && ctx.Err() == nil {
			onError(&store.Error{Code: store.CodeUnavailable, Message: err.Error()})
		}
	}()

	return nil
}

func (s *DocStore) WatchDocument(ctx context.Context, collection, id string, onSnapshot store.DocumentHandler, onError store.ErrorHandler) error {
	initial, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	onSnapshot(initial)

	go func() {
		err := s.redis.SubscribeChanges(ctx, collection, func(change *events.Change) error {
			if change.DocID != id {
				return nil
			}
			doc, err := s.Get(ctx, collection, id)
			if err != nil {
				onError(&store.Error{Code: store.CodeInternal, Message: err.Error()})
				return nil
			}
			onSnapshot(doc)
			return nil
		})
		if err != nil && ctx.Err() == nil {
			onError(&store.Error{Code: store.CodeUnavailable, Message: err.Error()})
		}
	}()

	return nil
}

func decodeFields(data datatypes.JSON) (map[string]interface{}, error) {
	if len(data) == 0 {
		return map[string]interface{}{}, nil
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode document fields: %w", err)
	}
	return fields, nil
}
