package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/veripharm/veripharm-core/internal/app/errors"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/app/pkg"
	"github.com/veripharm/veripharm-core/internal/infrastructures"
)

// Clock supplies the verification timestamp; injected so expiry boundaries
// are testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewSystemClock() Clock { return systemClock{} }

const (
	// Returned for both FAKE and USED so callers cannot probe whether a
	// code exists but was already redeemed.
	invalidCodeMessage = "This code is not valid. The product may be counterfeit."

	deviceInfoErrLimit = 256
)

var categoryLabels = map[models.ProductCategory]string{
	models.ProductCategoryPrescription: "Prescription Medicine",
	models.ProductCategoryOTC:          "Over-the-Counter Medicine",
	models.ProductCategorySupplement:   "Dietary Supplement",
	models.ProductCategoryVaccine:      "Vaccine",
	models.ProductCategoryHerbal:       "Herbal Medicine",
}

func categoryLabel(category models.ProductCategory) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return "Product"
}

// VerificationService resolves an untrusted client-submitted code against
// the issued-code ledger: it classifies the code, commits the redemption on
// first valid use, logs every attempt and shapes the outcome payload.
type VerificationService struct {
	ledger    CodeLedger
	attempts  AttemptStore
	clock     Clock
	validator *infrastructures.Validator
}

func NewVerificationService(ledger CodeLedger, attempts AttemptStore, clock Clock, validator *infrastructures.Validator) *VerificationService {
	return &VerificationService{
		ledger:    ledger,
		attempts:  attempts,
		clock:     clock,
		validator: validator,
	}
}

// classification pairs an outcome with the ledger snapshot backing it.
// entry is nil only for FAKE.
type classification struct {
	status models.VerificationStatus
	entry  *models.LedgerEntry
}

func canonicalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeCode extracts the canonical code from a verification request.
// A direct serial number always wins over the QR payload. The QR payload is
// tried as a JSON object carrying a serial field, then as a bare JSON
// string, then as plain text.
func NormalizeCode(req *models.VerifyRequest) (string, error) {
	if req.SerialNumber != nil {
		if code := canonicalizeCode(*req.SerialNumber); code != "" {
			return code, nil
		}
	}

	if req.QRData != nil && strings.TrimSpace(*req.QRData) != "" {
		raw := *req.QRData

		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &obj); err == nil {
			for _, key := range []string{"serial_number", "serialNumber", "code"} {
				if value, ok := obj[key].(string); ok {
					if code := canonicalizeCode(value); code != "" {
						return code, nil
					}
				}
			}
		} else {
			var str string
			if err := json.Unmarshal([]byte(raw), &str); err == nil {
				if code := canonicalizeCode(str); code != "" {
					return code, nil
				}
			} else if code := canonicalizeCode(raw); code != "" {
				return code, nil
			}
		}
	}

	return "", errors.NewBadRequestError("Could not extract serial number")
}

// Verify is the single entry point of the verification flow. meta carries
// transport-derived requester data; meta.UserID stays nil for anonymous
// callers. Exactly one attempt record is written per call that reached
// classification, on the success and the failure path alike.
func (s *VerificationService) Verify(ctx context.Context, req *models.VerifyRequest, meta *models.VerifyMeta) (models.VerifyResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if meta == nil {
		meta = &models.VerifyMeta{}
	}

	code, err := NormalizeCode(req)
	if err != nil {
		// No usable code: the attempt is not identifiable, nothing to log
		return nil, err
	}

	now := s.clock.Now()
	requestId := uuid.New()

	result, err := s.resolve(ctx, code, now)
	if err != nil {
		s.logFailure(ctx, meta, now, err)
		return nil, errors.NewInternalServerError(err, "Verification failed")
	}

	s.logAttempt(ctx, result, meta, now)

	return s.buildResponse(result, now, requestId), nil
}

// Classify is the read-only classification used by inspection tooling. It
// never marks a code used and never writes a log entry.
func (s *VerificationService) Classify(ctx context.Context, code string) (models.VerificationStatus, error) {
	result, err := s.classify(ctx, canonicalizeCode(code), s.clock.Now())
	if err != nil {
		return "", errors.NewInternalServerError(err, "Classification failed")
	}
	return result.status, nil
}

// classify resolves a canonical code to an outcome, first match wins:
// unknown → FAKE, used → USED, past expiry → EXPIRED, otherwise VALID.
// Pure read; no side effects.
func (s *VerificationService) classify(ctx context.Context, code string, now time.Time) (classification, error) {
	entry, err := s.ledger.FindEntry(ctx, code)
	if err != nil {
		return classification{}, err
	}
	if entry == nil {
		return classification{status: models.VerificationStatusFake}, nil
	}
	if entry.IsUsed {
		return classification{status: models.VerificationStatusUsed, entry: entry}, nil
	}
	// Strictly after: a code expiring at this exact instant is still valid
	if now.After(entry.ExpiryDate) {
		return classification{status: models.VerificationStatusExpired, entry: entry}, nil
	}
	return classification{status: models.VerificationStatusValid, entry: entry}, nil
}

// resolve classifies and, for VALID, commits the redemption. The commit is
// a conditional update; when a racing request got there first this request
// is re-classified as USED.
func (s *VerificationService) resolve(ctx context.Context, code string, now time.Time) (classification, error) {
	result, err := s.classify(ctx, code, now)
	if err != nil {
		return result, err
	}

	if result.status == models.VerificationStatusValid {
		committed, err := s.ledger.MarkUsed(ctx, result.entry.CodeID, now)
		if err != nil {
			return result, err
		}
		if !committed {
			result.status = models.VerificationStatusUsed
		} else {
			result.entry.IsUsed = true
			result.entry.UsedAt = &now
		}
	}

	return result, nil
}

// logAttempt records the internal outcome, not the externally collapsed
// one. It never fails the request: a broken log store is reported to the
// operational log only.
func (s *VerificationService) logAttempt(ctx context.Context, result classification, meta *models.VerifyMeta, now time.Time) {
	entry := &models.VerificationLog{
		Status:     result.status,
		UserID:     meta.UserID,
		IPAddress:  meta.IPAddress,
		DeviceInfo: meta.DeviceInfo,
		Location:   meta.Location,
		VerifiedAt: now,
	}
	if result.entry != nil {
		codeId := result.entry.CodeID
		entry.VerificationCodeID = &codeId
	}

	if err := s.attempts.Create(ctx, entry); err != nil {
		logrus.Errorf("failed to write verification log: %v", err)
	}
}

// logFailure is the best-effort error-path record: status FAKE, no code
// reference, truncated cause appended to the device info.
func (s *VerificationService) logFailure(ctx context.Context, meta *models.VerifyMeta, now time.Time, cause error) {
	message := cause.Error()
	if len(message) > deviceInfoErrLimit {
		message = message[:deviceInfoErrLimit]
	}

	entry := &models.VerificationLog{
		Status:     models.VerificationStatusFake,
		UserID:     meta.UserID,
		IPAddress:  meta.IPAddress,
		DeviceInfo: fmt.Sprintf("%s | ERR: %s", meta.DeviceInfo, message),
		Location:   meta.Location,
		VerifiedAt: now,
	}

	if err := s.attempts.Create(ctx, entry); err != nil {
		logrus.Errorf("failed to write verification error log: %v", err)
	}
}

func (s *VerificationService) buildResponse(result classification, now time.Time, requestId uuid.UUID) models.VerifyResponse {
	switch result.status {
	case models.VerificationStatusValid:
		return models.ValidVerifyResponse{
			Status:    models.VerificationStatusValid,
			Timestamp: now,
			RequestID: requestId,
			Product: models.ValidProduct{
				Name:            result.entry.ProductName,
				Manufacturer:    result.entry.ManufacturerName,
				BatchNumber:     result.entry.BatchNumber,
				ManufactureDate: result.entry.ManufactureDate,
				ExpiresAt:       result.entry.ExpiryDate,
				Category:        categoryLabel(result.entry.Category),
				RemainingDays:   pkg.WholeDaysBetween(now, result.entry.ExpiryDate),
			},
		}

	case models.VerificationStatusExpired:
		expiredDays := pkg.WholeDaysBetween(result.entry.ExpiryDate, now)
		return models.ExpiredVerifyResponse{
			Status:    models.VerificationStatusExpired,
			Timestamp: now,
			RequestID: requestId,
			Message:   fmt.Sprintf("This product expired %d day(s) ago. Do not use.", expiredDays),
			Product: models.ExpiredProduct{
				Name:         result.entry.ProductName,
				Manufacturer: result.entry.ManufacturerName,
				ExpiresAt:    result.entry.ExpiryDate,
				ExpiredDays:  expiredDays,
			},
		}

	default:
		// USED and FAKE share one external payload
		return models.InvalidVerifyResponse{
			Status:    models.VerificationStatusFake,
			Timestamp: now,
			RequestID: requestId,
			Message:   invalidCodeMessage,
		}
	}
}
