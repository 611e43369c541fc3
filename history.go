package genetic_paths

import (
	"fmt"
)

// HistoryStore is the append-only log of finished generations. Record
// never reallocates before the reserved capacity is reached.
type HistoryStore struct {
	Records  []*GenerationRecord
	capacity int
}

func NewHistoryStore(capacity int) *HistoryStore {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &HistoryStore{
		Records:  make([]*GenerationRecord, 0, capacity),
		capacity: capacity,
	}
}

func (h *HistoryStore) Record(record *GenerationRecord) {
	h.Records = append(h.Records, record)
}

func (h *HistoryStore) Len() int {
	return len(h.Records)
}

func (h *HistoryStore) At(i int) (*GenerationRecord, error) {
	if i < 0 || i >= len(h.Records) {
		return nil, fmt.Errorf("generation %d of %d: %w", i, len(h.Records), ErrScrubOutOfRange)
	}
	return h.Records[i], nil
}

func (h *HistoryStore) Latest() *GenerationRecord {
	if len(h.Records) == 0 {
		return nil
	}
	return h.Records[len(h.Records)-1]
}

func (h *HistoryStore) Clear() {
	for i := range h.Records {
		h.Records[i] = nil
	}
	h.Records = h.Records[:0]
}

// Serialize encodes every record with the history codec.
func (h *HistoryStore) Serialize() ([]byte, error) {
	return EncodeHistory(h.Records)
}

// Deserialize replaces the log with the decoded blob. On any error the
// current records are kept as they were.
func (h *HistoryStore) Deserialize(blob []byte) error {
	records, err := DecodeHistory(blob)
	if err != nil {
		return err
	}
	h.Clear()
	h.Records = append(h.Records, records...)
	return nil
}
