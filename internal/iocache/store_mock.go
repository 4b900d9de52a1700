package iocache

import (
	"time"

	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetReportStore implements the StoreManager interface.
func (m *MockStoreManager) GetReportStore() contract.ReportStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ReportStore)
	return store
}

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockReportStore is a mock implementation of ReportStore for testing.
type MockReportStore struct {
	mock.Mock
}

var _ contract.ReportStore = &MockReportStore{} // Compile-time check

// LoadReports implements the ReportStore interface.
func (m *MockReportStore) LoadReports(grain schema.Grain) ([]schema.ReportRecord, error) {
	args := m.Called(grain)
	records, _ := args.Get(0).([]schema.ReportRecord)
	return records, args.Error(1)
}

// InsertReports implements the ReportStore interface.
func (m *MockReportStore) InsertReports(grain schema.Grain, records []schema.ReportRecord) (int, error) {
	args := m.Called(grain, records)
	return args.Int(0), args.Error(1)
}

// GetStatus implements the ReportStore interface.
func (m *MockReportStore) GetStatus() (schema.ReportStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ReportStatus), args.Error(1)
}

// Close implements the ReportStore interface.
func (m *MockReportStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalCells int) error {
	args := m.Called(runID, endTime, totalCells)
	return args.Error(0)
}

// RecordCells implements the RunStore interface.
func (m *MockRunStore) RecordCells(runID int64, cells []schema.HeatmapCellRecord) error {
	args := m.Called(runID, cells)
	return args.Error(0)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RenderRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RenderRunRecord)
	return runs, args.Error(1)
}

// GetAllCells implements the RunStore interface.
func (m *MockRunStore) GetAllCells() ([]schema.HeatmapCellRecord, error) {
	args := m.Called()
	cells, _ := args.Get(0).([]schema.HeatmapCellRecord)
	return cells, args.Error(1)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
