package seed

import (
	"context"
	"fmt"
	"reflect"

	"askme/internal/database"
	"askme/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists generated records. InsertOne and InsertMany set the ID of
// each record they write. InsertMany takes a slice of pointers.
type Store interface {
	InsertOne(ctx context.Context, record interface{}) error
	InsertMany(ctx context.Context, records interface{}) error
	Count(ctx context.Context, model interface{}) (int64, error)
	Truncate(ctx context.Context) error
}

// GormStore writes through GORM. InsertMany is one CreateInBatches call.
type GormStore struct {
	db        *gorm.DB
	batchSize int
}

// NewGormStore returns a store using db. batchSize is rows per INSERT statement.
func NewGormStore(db *gorm.DB, batchSize int) *GormStore {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &GormStore{db: db, batchSize: batchSize}
}

func (s *GormStore) InsertOne(ctx context.Context, record interface{}) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

func (s *GormStore) InsertMany(ctx context.Context, records interface{}) error {
	if reflect.ValueOf(records).Len() == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(records, s.batchSize).Error
}

func (s *GormStore) Count(ctx context.Context, model interface{}) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(model).Count(&n).Error
	return n, err
}

func (s *GormStore) Truncate(ctx context.Context) error {
	return database.TruncateAllTables(ctx, s.db)
}

// DryRunStore hands out synthetic IDs and keeps nothing but counts.
type DryRunStore struct {
	nextID uint
	counts map[string]int64
}

// NewDryRunStore returns a store whose IDs start at 1000.
func NewDryRunStore() *DryRunStore {
	return &DryRunStore{nextID: 1000, counts: make(map[string]int64)}
}

func (s *DryRunStore) InsertOne(_ context.Context, record interface{}) error {
	if err := s.assign(record); err != nil {
		return err
	}
	s.counts[typeKey(record)]++
	return nil
}

func (s *DryRunStore) InsertMany(_ context.Context, records interface{}) error {
	v := reflect.ValueOf(records)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("dry run: expected a slice, got %T", records)
	}
	for i := 0; i < v.Len(); i++ {
		rec := v.Index(i).Interface()
		if err := s.assign(rec); err != nil {
			return err
		}
		s.counts[typeKey(rec)]++
	}
	return nil
}

func (s *DryRunStore) Count(_ context.Context, model interface{}) (int64, error) {
	return s.counts[typeKey(model)], nil
}

func (s *DryRunStore) Truncate(_ context.Context) error {
	s.counts = make(map[string]int64)
	return nil
}

func (s *DryRunStore) assign(record interface{}) error {
	id := s.nextID
	switch r := record.(type) {
	case *models.User:
		r.ID = id
	case *models.Profile:
		r.ID = id
	case *models.Question:
		r.ID = id
	case *models.Answer:
		r.ID = id
	case *models.Tag:
		r.ID = id
	case *models.Like:
		r.ID = id
	default:
		return fmt.Errorf("dry run: unsupported record %T", record)
	}
	s.nextID++
	return nil
}

func typeKey(v interface{}) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
