package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"equipstats/domain/core"
	"equipstats/domain/equipment"
	"equipstats/internal/config"
	apperrors "equipstats/internal/errors"
	"equipstats/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock implementations for testing
type MockDatasetRepository struct {
	mock.Mock
}

var _ ports.DatasetRepository = (*MockDatasetRepository)(nil)

func (m *MockDatasetRepository) CreateWithSummary(ctx context.Context, ds *equipment.Dataset, summary equipment.Summary, columns []equipment.ColumnDetail, keep int) error {
	args := m.Called(ctx, ds, summary, columns, keep)
	return args.Error(0)
}

func (m *MockDatasetRepository) GetByID(ctx context.Context, id core.ID) (*equipment.Dataset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*equipment.Dataset), args.Error(1)
}

func (m *MockDatasetRepository) List(ctx context.Context, limit, offset int) ([]*equipment.Dataset, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*equipment.Dataset), args.Error(1)
}

func (m *MockDatasetRepository) Delete(ctx context.Context, id core.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDatasetRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockDatasetRepository) GetSummary(ctx context.Context, id core.ID) (*equipment.StoredSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*equipment.StoredSummary), args.Error(1)
}

func (m *MockDatasetRepository) GetLatestSummary(ctx context.Context) (*equipment.StoredSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*equipment.StoredSummary), args.Error(1)
}

func (m *MockDatasetRepository) ListSummaries(ctx context.Context) ([]equipment.StoredSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]equipment.StoredSummary), args.Error(1)
}

func (m *MockDatasetRepository) ListColumnDetails(ctx context.Context, id core.ID) ([]equipment.ColumnDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]equipment.ColumnDetail), args.Error(1)
}

func (m *MockDatasetRepository) ListOldest(ctx context.Context, keep int) ([]*equipment.Dataset, error) {
	args := m.Called(ctx, keep)
	return args.Get(0).([]*equipment.Dataset), args.Error(1)
}

func (m *MockDatasetRepository) DeleteOldest(ctx context.Context, keep int) (int, error) {
	args := m.Called(ctx, keep)
	return args.Int(0), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: "0", GinMode: "test"},
		Upload:    config.UploadConfig{MaxFileSize: 1 << 20, PreviewRows: 5},
		Retention: config.RetentionConfig{MaxDatasets: 5},
	}
}

func newTestServer(repo ports.DatasetRepository) *Server {
	return NewServer(testConfig(), repo, nil, nil)
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

const validCSV = "id,type,flow,pressure,temp\n" +
	"EQ1,pump,150.5,45.2,78.5\n" +
	"EQ2,valve,-5,30.1,72.0\n"

func TestUploadValidFile(t *testing.T) {
	repo := new(MockDatasetRepository)
	repo.On("CreateWithSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything, 5).Return(nil)
	repo.On("Count", mock.Anything).Return(1, nil)

	body, contentType := multipartBody(t, "equipment.csv", validCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/equipment/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(newTestServer(repo), req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Dataset    equipment.Dataset          `json:"dataset"`
		Summary    equipment.Summary          `json:"summary"`
		Validation equipment.ValidationReport `json:"validation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Validation.IsValid)
	assert.Equal(t, 2, resp.Summary.TotalRecords)
	assert.Equal(t, "equipment.csv", resp.Dataset.FileName)
	repo.AssertExpectations(t)
}

func TestUploadInvalidSchemaReturns400WithReport(t *testing.T) {
	repo := new(MockDatasetRepository)

	body, contentType := multipartBody(t, "bad.csv", "id,type,flow,temp\nEQ1,pump,1,2\n")
	req := httptest.NewRequest(http.MethodPost, "/api/equipment/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(newTestServer(repo), req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Validation equipment.ValidationReport `json:"validation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Validation.IsValid)
	assert.Equal(t, []string{"pressure"}, resp.Validation.MissingColumns)
	repo.AssertNotCalled(t, "CreateWithSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	repo := new(MockDatasetRepository)

	body, contentType := multipartBody(t, "data.txt", "hello")
	req := httptest.NewRequest(http.MethodPost, "/api/equipment/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(newTestServer(repo), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadWithoutFile(t *testing.T) {
	repo := new(MockDatasetRepository)

	req := httptest.NewRequest(http.MethodPost, "/api/equipment/upload", nil)
	rec := doRequest(newTestServer(repo), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateAlwaysReturns200(t *testing.T) {
	repo := new(MockDatasetRepository)

	body, contentType := multipartBody(t, "bad.csv", "id,type\nEQ1,pump\n")
	req := httptest.NewRequest(http.MethodPost, "/api/equipment/validate", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(newTestServer(repo), req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Validation equipment.ValidationReport `json:"validation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Validation.IsValid)
}

func TestCombinedSummaryNoDataReturns404(t *testing.T) {
	repo := new(MockDatasetRepository)
	repo.On("ListSummaries", mock.Anything).Return([]equipment.StoredSummary{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/equipment/summary", nil)
	rec := doRequest(newTestServer(repo), req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCombinedSummaryAggregates(t *testing.T) {
	flow := 100.0
	summaries := []equipment.StoredSummary{
		{
			DatasetID:   core.NewID(),
			DatasetName: "a",
			Summary: equipment.Summary{
				TotalRecords: 10,
				OperationalMetrics: equipment.OperationalMetrics{
					Flowrate: &equipment.MetricStats{Average: flow, Count: 10},
				},
			},
		},
	}
	repo := new(MockDatasetRepository)
	repo.On("ListSummaries", mock.Anything).Return(summaries, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/equipment/summary", nil)
	rec := doRequest(newTestServer(repo), req)
	require.Equal(t, http.StatusOK, rec.Code)

	var combined equipment.CombinedSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &combined))
	assert.Equal(t, 10, combined.TotalRecordCount)
	require.NotNil(t, combined.AverageFlowrate)
	assert.Equal(t, 100.0, *combined.AverageFlowrate)
}

func TestLatestSummary(t *testing.T) {
	stored := &equipment.StoredSummary{
		DatasetID:   core.NewID(),
		DatasetName: "newest",
		Summary:     equipment.Summary{TotalRecords: 7},
	}
	repo := new(MockDatasetRepository)
	repo.On("GetLatestSummary", mock.Anything).Return(stored, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/equipment/summary/latest", nil)
	rec := doRequest(newTestServer(repo), req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp equipment.StoredSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "newest", resp.DatasetName)
	assert.Equal(t, 7, resp.Summary.TotalRecords)
	repo.AssertExpectations(t)
}

func TestLatestSummaryNoDataReturns404(t *testing.T) {
	repo := new(MockDatasetRepository)
	repo.On("GetLatestSummary", mock.Anything).Return(nil, apperrors.NoData("no processed datasets available"))

	req := httptest.NewRequest(http.MethodGet, "/api/equipment/summary/latest", nil)
	rec := doRequest(newTestServer(repo), req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummaryByIDRejectsMalformedID(t *testing.T) {
	repo := new(MockDatasetRepository)

	req := httptest.NewRequest(http.MethodGet, "/api/equipment/summary/not-a-uuid", nil)
	rec := doRequest(newTestServer(repo), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryStatus(t *testing.T) {
	repo := new(MockDatasetRepository)
	repo.On("Count", mock.Anything).Return(2, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/history/status", nil)
	rec := doRequest(newTestServer(repo), req)
	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		CurrentCount int  `json:"current_count"`
		MaxAllowed   int  `json:"max_allowed"`
		AtLimit      bool `json:"at_limit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 2, status.CurrentCount)
	assert.Equal(t, 5, status.MaxAllowed)
	assert.False(t, status.AtLimit)
}

func TestDeleteDataset(t *testing.T) {
	id := core.NewID()
	repo := new(MockDatasetRepository)
	repo.On("Delete", mock.Anything, id).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/datasets/"+id.String(), nil)
	rec := doRequest(newTestServer(repo), req)
	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestBatchReportsRequiresIDs(t *testing.T) {
	repo := new(MockDatasetRepository)

	req := httptest.NewRequest(http.MethodPost, "/api/reports/batch", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := doRequest(newTestServer(repo), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
