package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/veripharm/veripharm-core/internal/app/errors"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/infrastructures"
)

type fakeLedger struct {
	mu      sync.Mutex
	entries map[string]*models.LedgerEntry
	findErr error
	markErr error
}

func newFakeLedger(entries ...*models.LedgerEntry) *fakeLedger {
	l := &fakeLedger{entries: map[string]*models.LedgerEntry{}}
	for _, e := range entries {
		l.entries[e.Code] = e
	}
	return l
}

func (f *fakeLedger) FindEntry(ctx context.Context, code string) (*models.LedgerEntry, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[code]
	if !ok {
		return nil, nil
	}
	snapshot := *entry
	return &snapshot, nil
}

func (f *fakeLedger) MarkUsed(ctx context.Context, codeID uuid.UUID, usedAt time.Time) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, entry := range f.entries {
		if entry.CodeID == codeID {
			if entry.IsUsed {
				return false, nil
			}
			entry.IsUsed = true
			at := usedAt
			entry.UsedAt = &at
			return true, nil
		}
	}
	return false, nil
}

type fakeAttemptStore struct {
	mu      sync.Mutex
	err     error
	entries []models.VerificationLog
}

func (f *fakeAttemptStore) Create(ctx context.Context, entry *models.VerificationLog) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAttemptStore) logged() []models.VerificationLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.VerificationLog{}, f.entries...)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newTestService(ledger CodeLedger, attempts AttemptStore, now time.Time) *VerificationService {
	return NewVerificationService(ledger, attempts, fixedClock{now: now}, infrastructures.NewValidator())
}

func ledgerEntry(code string, expiry time.Time) *models.LedgerEntry {
	return &models.LedgerEntry{
		CodeID:           uuid.New(),
		Code:             code,
		BatchID:          uuid.New(),
		BatchNumber:      "BN-2026-001",
		ManufactureDate:  expiry.AddDate(-2, 0, 0),
		ExpiryDate:       expiry,
		ProductName:      "Amoxicillin 500mg",
		Category:         models.ProductCategoryPrescription,
		ManufacturerName: "Acme Pharma",
	}
}

func strPtr(s string) *string { return &s }

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name    string
		req     models.VerifyRequest
		want    string
		wantErr bool
	}{
		{
			name: "direct serial trimmed and uppercased",
			req:  models.VerifyRequest{SerialNumber: strPtr("  abc-123 ")},
			want: "ABC-123",
		},
		{
			name: "serial wins over qr payload",
			req:  models.VerifyRequest{SerialNumber: strPtr("abc-123"), QRData: strPtr(`{"serial_number":"other"}`)},
			want: "ABC-123",
		},
		{
			name: "qr json object with serial_number",
			req:  models.VerifyRequest{QRData: strPtr(`{"serial_number":"abc-123"}`)},
			want: "ABC-123",
		},
		{
			name: "qr json object with camelCase serialNumber",
			req:  models.VerifyRequest{QRData: strPtr(`{"serialNumber":" vp-xyz "}`)},
			want: "VP-XYZ",
		},
		{
			name: "qr json object with code field",
			req:  models.VerifyRequest{QRData: strPtr(`{"code":"vp-abc"}`)},
			want: "VP-ABC",
		},
		{
			name: "qr bare json string",
			req:  models.VerifyRequest{QRData: strPtr(`"abc-123"`)},
			want: "ABC-123",
		},
		{
			name: "qr plain text used as code",
			req:  models.VerifyRequest{QRData: strPtr("abc-123")},
			want: "ABC-123",
		},
		{
			name: "blank serial falls through to qr",
			req:  models.VerifyRequest{SerialNumber: strPtr("   "), QRData: strPtr("abc-123")},
			want: "ABC-123",
		},
		{
			name:    "qr json object without usable field",
			req:     models.VerifyRequest{QRData: strPtr(`{"batch":"BN-1"}`)},
			wantErr: true,
		},
		{
			name:    "nothing usable",
			req:     models.VerifyRequest{SerialNumber: strPtr("  "), QRData: strPtr("   ")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCode(&tt.req)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifyValid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := ledgerEntry("VP-GOOD", now.AddDate(0, 0, 10))
	ledger := newFakeLedger(entry)
	attempts := &fakeAttemptStore{}
	service := newTestService(ledger, attempts, now)

	response, err := service.Verify(context.Background(), &models.VerifyRequest{SerialNumber: strPtr("vp-good")}, &models.VerifyMeta{
		IPAddress:  "203.0.113.9",
		DeviceInfo: "test-agent",
	})
	require.NoError(t, err)

	valid, ok := response.(models.ValidVerifyResponse)
	require.True(t, ok, "expected ValidVerifyResponse, got %T", response)
	assert.Equal(t, models.VerificationStatusValid, valid.Status)
	assert.Equal(t, "Amoxicillin 500mg", valid.Product.Name)
	assert.Equal(t, "Acme Pharma", valid.Product.Manufacturer)
	assert.Equal(t, "BN-2026-001", valid.Product.BatchNumber)
	assert.Equal(t, "Prescription Medicine", valid.Product.Category)
	assert.Equal(t, 10, valid.Product.RemainingDays)
	assert.Equal(t, now, valid.Timestamp)
	assert.NotEqual(t, uuid.Nil, valid.RequestID)

	// The redemption was committed
	assert.True(t, ledger.entries["VP-GOOD"].IsUsed)
	require.NotNil(t, ledger.entries["VP-GOOD"].UsedAt)
	assert.Equal(t, now, *ledger.entries["VP-GOOD"].UsedAt)

	logs := attempts.logged()
	require.Len(t, logs, 1)
	assert.Equal(t, models.VerificationStatusValid, logs[0].Status)
	require.NotNil(t, logs[0].VerificationCodeID)
	assert.Equal(t, entry.CodeID, *logs[0].VerificationCodeID)
	assert.Equal(t, "203.0.113.9", logs[0].IPAddress)
	assert.Equal(t, "test-agent", logs[0].DeviceInfo)
	assert.Nil(t, logs[0].UserID)
}

func TestVerifySecondUseReportsUsed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := newFakeLedger(ledgerEntry("VP-ONCE", now.AddDate(0, 0, 30)))
	attempts := &fakeAttemptStore{}
	service := newTestService(ledger, attempts, now)

	first, err := service.Verify(context.Background(), &models.VerifyRequest{SerialNumber: strPtr("VP-ONCE")}, &models.VerifyMeta{})
	require.NoError(t, err)
	assert.IsType(t, models.ValidVerifyResponse{}, first)

	second, err := service.Verify(context.Background(), &models.VerifyRequest{SerialNumber: strPtr("VP-ONCE")}, &models.VerifyMeta{})
	require.NoError(t, err)
	invalid, ok := second.(models.InvalidVerifyResponse)
	require.True(t, ok, "expected InvalidVerifyResponse, got %T", second)
	assert.Equal(t, models.VerificationStatusFake, invalid.Status)

	logs := attempts.logged()
	require.Len(t, logs, 2)
	assert.Equal(t, models.VerificationStatusValid, logs[0].Status)
	assert.Equal(t, models.VerificationStatusUsed, logs[1].Status)
}

func TestVerifyExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := newFakeLedger(ledgerEntry("VP-OLD", now.AddDate(0, 0, -3)))
	attempts := &fakeAttemptStore{}
	service := newTestService(ledger, attempts, now)

	response, err := service.Verify(context.Background(), &models.VerifyRequest{SerialNumber: strPtr("VP-OLD")}, &models.VerifyMeta{})
	require.NoError(t, err)

	expired, ok := response.(models.ExpiredVerifyResponse)
	require.True(t, ok, "expected ExpiredVerifyResponse, got %T", response)
	assert.Equal(t, models.VerificationStatusExpired, expired.Status)
	assert.Equal(t, 3, expired.Product.ExpiredDays)
	assert.Contains(t, expired.Message, "3 day(s)")

	// Expired codes are never consumed
	assert.False(t, ledger.entries["VP-OLD"].IsUsed)

	logs := attempts.logged()
	require.Len(t, logs, 1)
	assert.Equal(t, models.VerificationStatusExpired, logs[0].Status)
}

func TestVerifyExpiryBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		status models.VerificationStatus
	}{
		{"expiry exactly now is still valid", now, models.VerificationStatusValid},
		{"one millisecond past expiry", now.Add(-time.Millisecond), models.VerificationStatusExpired},
		{"one millisecond before expiry", now.Add(time.Millisecond), models.VerificationStatusValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := newFakeLedger(ledgerEntry("VP-EDGE", tt.expiry))
			attempts := &fakeAttemptStore{}
			service := newTestService(ledger, attempts, now)

			response, err := service.Verify(context.Background(), &models.VerifyRequest{SerialNumber: strPtr("VP-EDGE")}, &models.VerifyMeta{})
			require.NoError(t, err)
			assert.Equal(t, tt.status, response.VerificationStatus())

			logs := attempts.logged()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.status, logs[0].Status)
		})
	}
}

func TestVerifyUsedAndFakeIndistinguishable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	usedAt := now.Add(-time.Hour)
	used := ledgerEntry("VP-USED", now.AddDate(0, 0, 30))
	used.IsUsed = true
	used.UsedAt = &usedAt

	ledger := newFakeLedger(used)
	attempts := &fakeAttemptStore{}
	service := newTestService(ledger, attempts, now)

	usedResponse, err := service.Verify(context.Background(), &models.VerifyRequest{SerialNumber: strPtr("VP-USED")}, &models.VerifyMeta{})
	require.NoError(t, err)

	fakeResponse, err := service.Verify(context.Background(), &models.VerifyRequest{SerialNumber: strPtr("VP-NEVER-ISSUED")}, &models.VerifyMeta{})
	require.NoError(t, err)

	usedPayload, ok := usedResponse.(models.InvalidVerifyResponse)
	require.True(t, ok)
	fakePayload, ok := fakeResponse.(models.InvalidVerifyResponse)
	require.True(t, ok)

	// Externally identical apart from the per-request id
	usedPayload.RequestID = uuid.Nil
	fakePayload.RequestID = uuid.Nil
	usedJSON, err := json.Marshal(usedPayload)
	require.NoError(t, err)
	fakeJSON, err := json.Marshal(fakePayload)
	require.NoError(t, err)
	assert.Equal(t, string(usedJSON), string(fakeJSON))

	// Internally the log keeps the distinction
	logs := attempts.logged()
	require.Len(t, logs, 2)
	assert.Equal(t, models.VerificationStatusUsed, logs[0].Status)
	require.NotNil(t, logs[0].VerificationCodeID)
	assert.Equal(t, models.VerificationStatusFake, logs[1].Status)
	assert.Nil(t, logs[1].VerificationCodeID)
}

func TestVerifyAtMostOnceRedemption(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := newFakeLedger(ledgerEntry("VP-RACE", now.AddDate(0, 0, 30)))
	attempts := &fakeAttemptStore{}
	service := newTestService(ledger, attempts, now)

	const workers = 25
	responses := make([]models.VerifyResponse, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			responses[i], errs[i] = service.Verify(context.Background(), &models.VerifyRequest{SerialNumber: strPtr("VP-RACE")}, &models.VerifyMeta{})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	validCount := 0
	for _, response := range responses {
		switch response.(type) {
		case models.ValidVerifyResponse:
			validCount++
		case models.InvalidVerifyResponse:
		default:
			t.Fatalf("unexpected response type %T", response)
		}
	}
	assert.Equal(t, 1, validCount, "exactly one request may redeem the code")

	logs := attempts.logged()
	require.Len(t, logs, workers)
	validLogs, usedLogs := 0, 0
	for _, entry := range logs {
		switch entry.Status {
		case models.VerificationStatusValid:
			validLogs++
		case models.VerificationStatusUsed:
			usedLogs++
		}
	}
	assert.Equal(t, 1, validLogs)
	assert.Equal(t, workers-1, usedLogs)
}

func TestVerifyLedgerFailure(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := newFakeLedger()
	ledger.findErr = fmt.Errorf("connection refused")
	attempts := &fakeAttemptStore{}
	service := newTestService(ledger, attempts, now)

	_, err := service.Verify(context.Background(), &models.VerifyRequest{SerialNumber: strPtr("VP-ANY")}, &models.VerifyMeta{DeviceInfo: "agent"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.StatusCode)
	// No store internals leak to the caller
	assert.Equal(t, "Verification failed", appErr.Message)

	logs := attempts.logged()
	require.Len(t, logs, 1)
	assert.Equal(t, models.VerificationStatusFake, logs[0].Status)
	assert.Nil(t, logs[0].VerificationCodeID)
	assert.Contains(t, logs[0].DeviceInfo, "ERR: connection refused")
	assert.Contains(t, logs[0].DeviceInfo, "agent")
}

func TestVerifyLogFailureDoesNotChangeOutcome(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := newFakeLedger(ledgerEntry("VP-GOOD", now.AddDate(0, 0, 5)))
	attempts := &fakeAttemptStore{err: fmt.Errorf("log store down")}
	service := newTestService(ledger, attempts, now)

	response, err := service.Verify(context.Background(), &models.VerifyRequest{SerialNumber: strPtr("VP-GOOD")}, &models.VerifyMeta{})
	require.NoError(t, err)
	assert.IsType(t, models.ValidVerifyResponse{}, response)
	assert.True(t, ledger.entries["VP-GOOD"].IsUsed)
}

func TestVerifyEveryAttemptLogged(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	usedAt := now.Add(-time.Hour)
	used := ledgerEntry("VP-USED", now.AddDate(0, 0, 30))
	used.IsUsed = true
	used.UsedAt = &usedAt

	ledger := newFakeLedger(
		ledgerEntry("VP-GOOD", now.AddDate(0, 0, 30)),
		ledgerEntry("VP-OLD", now.AddDate(0, 0, -1)),
		used,
	)
	attempts := &fakeAttemptStore{}
	service := newTestService(ledger, attempts, now)

	for _, code := range []string{"VP-GOOD", "VP-OLD", "VP-USED", "VP-UNKNOWN"} {
		_, err := service.Verify(context.Background(), &models.VerifyRequest{SerialNumber: strPtr(code)}, &models.VerifyMeta{})
		require.NoError(t, err)
	}

	ledger.findErr = fmt.Errorf("boom")
	_, err := service.Verify(context.Background(), &models.VerifyRequest{SerialNumber: strPtr("VP-GOOD")}, &models.VerifyMeta{})
	require.Error(t, err)

	logs := attempts.logged()
	require.Len(t, logs, 5)
	statuses := make([]models.VerificationStatus, 0, len(logs))
	for _, entry := range logs {
		require.NotEmpty(t, entry.Status)
		statuses = append(statuses, entry.Status)
	}
	assert.Equal(t, []models.VerificationStatus{
		models.VerificationStatusValid,
		models.VerificationStatusExpired,
		models.VerificationStatusUsed,
		models.VerificationStatusFake,
		models.VerificationStatusFake,
	}, statuses)
}

func TestVerifyAttachesUser(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := newFakeLedger(ledgerEntry("VP-GOOD", now.AddDate(0, 0, 30)))
	attempts := &fakeAttemptStore{}
	service := newTestService(ledger, attempts, now)

	userId := uuid.New()
	location := "Jakarta"
	_, err := service.Verify(context.Background(), &models.VerifyRequest{SerialNumber: strPtr("VP-GOOD"), Location: &location}, &models.VerifyMeta{
		UserID:   &userId,
		Location: &location,
	})
	require.NoError(t, err)

	logs := attempts.logged()
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, userId, *logs[0].UserID)
	require.NotNil(t, logs[0].Location)
	assert.Equal(t, "Jakarta", *logs[0].Location)
}

func TestVerifyRejectsEmptyRequest(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := newFakeLedger()
	attempts := &fakeAttemptStore{}
	service := newTestService(ledger, attempts, now)

	_, err := service.Verify(context.Background(), &models.VerifyRequest{}, &models.VerifyMeta{})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)

	// Nothing identifiable, nothing logged
	assert.Empty(t, attempts.logged())
}

func TestClassifyIsReadOnly(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := newFakeLedger(ledgerEntry("VP-GOOD", now.AddDate(0, 0, 30)))
	attempts := &fakeAttemptStore{}
	service := newTestService(ledger, attempts, now)

	for i := 0; i < 3; i++ {
		status, err := service.Classify(context.Background(), "vp-good")
		require.NoError(t, err)
		assert.Equal(t, models.VerificationStatusValid, status)
	}

	assert.False(t, ledger.entries["VP-GOOD"].IsUsed)
	assert.Empty(t, attempts.logged())
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Prescription Medicine", categoryLabel(models.ProductCategoryPrescription))
	assert.Equal(t, "Over-the-Counter Medicine", categoryLabel(models.ProductCategoryOTC))
	assert.Equal(t, "Vaccine", categoryLabel(models.ProductCategoryVaccine))
	assert.Equal(t, "Product", categoryLabel(models.ProductCategory("UNMAPPED")))
}
