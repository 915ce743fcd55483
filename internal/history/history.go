package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZav1327/currency-converter/internal/kvstore"
	"github.com/AlexZav1327/currency-converter/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	Namespace  = "CurrencyPrefs"
	HistoryKey = "history_list"
	SeededKey  = "history_seeded"

	dateLabelFmt = "Today, 3:04 PM"
)

var (
	ErrIndexOutOfRange = errors.New("history index out of range")
	ErrCorruptHistory  = errors.New("persisted history is corrupt")
)

var seedRecords = []models.HistoryRecord{
	{FromCode: "USD", ToCode: "EUR", FromAmount: 100, ToAmount: 92.54, Date: "Today, 10:30 AM"},
	{FromCode: "GBP", ToCode: "USD", FromAmount: 50, ToAmount: 63.20, Date: "Yesterday, 2:15 PM"},
	{FromCode: "EUR", ToCode: "JPY", FromAmount: 200, ToAmount: 31400, Date: "Yesterday, 9:00 AM"},
}

// Store keeps conversions newest first and writes the whole list back to
// the key-value store on every change.
type Store struct {
	mu      sync.Mutex
	kv      kvstore.Store
	records []models.HistoryRecord
	log     *logrus.Entry
}

func New(kv kvstore.Store, log *logrus.Logger) *Store {
	return &Store{
		kv:      kv,
		records: make([]models.HistoryRecord, 0),
		log:     log.WithField("module", "history"),
	}
}

func DateLabel(t time.Time) string {
	return t.Format(dateLabelFmt)
}

// Load reads the persisted history into memory. On the very first run an
// empty history is seeded with a few sample records.
func (s *Store) Load(ctx context.Context) error {
	records, err := s.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("LoadAll: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = records

	if len(s.records) > 0 {
		return nil
	}

	_, err = s.kv.Get(ctx, Namespace, SeededKey)
	if err == nil {
		return nil
	}

	if !errors.Is(err, kvstore.ErrNotFound) {
		return fmt.Errorf("kv.Get: %w", err)
	}

	s.records = append(s.records, seedRecords...)

	err = s.persist(ctx)
	if err != nil {
		s.records = make([]models.HistoryRecord, 0)

		return err
	}

	err = s.kv.Put(ctx, Namespace, SeededKey, "true")
	if err != nil {
		return fmt.Errorf("kv.Put: %w", err)
	}

	s.log.Infof("seeded history with %d records", len(seedRecords))

	return nil
}

// LoadAll decodes the persisted history. Missing or corrupt data yields an
// empty list; only a failing store is reported.
func (s *Store) LoadAll(ctx context.Context) ([]models.HistoryRecord, error) {
	raw, err := s.kv.Get(ctx, Namespace, HistoryKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return make([]models.HistoryRecord, 0), nil
	}

	if err != nil {
		return nil, fmt.Errorf("kv.Get: %w", err)
	}

	records, err := decode(raw)
	if err != nil {
		s.log.Warningf("decode: %s", err)

		return make([]models.HistoryRecord, 0), nil
	}

	return records, nil
}

func (s *Store) List() []models.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]models.HistoryRecord, len(s.records))
	copy(list, s.records)

	return list
}

func (s *Store) Append(ctx context.Context, record models.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.records
	s.records = append([]models.HistoryRecord{record}, s.records...)

	err := s.persist(ctx)
	if err != nil {
		s.records = previous

		return err
	}

	return nil
}

func (s *Store) RemoveAt(ctx context.Context, index int) (models.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.records) {
		return models.HistoryRecord{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.records))
	}

	previous := s.records
	removed := s.records[index]

	records := make([]models.HistoryRecord, 0, len(s.records)-1)
	records = append(records, s.records[:index]...)
	s.records = append(records, s.records[index+1:]...)

	err := s.persist(ctx)
	if err != nil {
		s.records = previous

		return models.HistoryRecord{}, err
	}

	return removed, nil
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	err = s.kv.Put(ctx, Namespace, HistoryKey, string(raw))
	if err != nil {
		return fmt.Errorf("kv.Put: %w", err)
	}

	return nil
}

func decode(raw string) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord

	err := json.Unmarshal([]byte(raw), &records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptHistory, err)
	}

	if records == nil {
		records = make([]models.HistoryRecord, 0)
	}

	return records, nil
}
