package budget

import (
	"context"
	"encoding/json"
)

// StubSnapshotRepo keeps the serialized snapshot in memory. It round-trips
// through JSON so tests exercise the same codec as the real repository.
type StubSnapshotRepo struct {
	data      []byte
	saveCount int
	loadErr   error
	saveErr   error
}

func NewStubSnapshotRepo() *StubSnapshotRepo {
	return &StubSnapshotRepo{}
}

func (s *StubSnapshotRepo) Load(ctx context.Context) (BudgetSnapshot, bool, error) {
	if s.loadErr != nil {
		return BudgetSnapshot{}, false, s.loadErr
	}
	if s.data == nil {
		return BudgetSnapshot{}, false, nil
	}
	var dto SnapshotDTO
	if err := json.Unmarshal(s.data, &dto); err != nil {
		return BudgetSnapshot{}, false, err
	}
	return DTOToSnapshot(dto), true, nil
}

func (s *StubSnapshotRepo) Save(ctx context.Context, snapshot BudgetSnapshot) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	data, err := json.Marshal(SnapshotToDTO(snapshot))
	if err != nil {
		return err
	}
	s.data = data
	s.saveCount++
	return nil
}

func (s *StubSnapshotRepo) SaveCount() int {
	return s.saveCount
}

func (s *StubSnapshotRepo) FailLoadWith(err error) {
	s.loadErr = err
}

func (s *StubSnapshotRepo) FailSaveWith(err error) {
	s.saveErr = err
}

func (s *StubSnapshotRepo) SetRawData(data []byte) {
	s.data = data
}

func (s *StubSnapshotRepo) Cleanup() {
	s.data = nil
	s.saveCount = 0
	s.loadErr = nil
	s.saveErr = nil
}
