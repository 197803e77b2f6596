package models

import (
	"time"

	"github.com/google/uuid"
)

type VerificationStatus string

const (
	VerificationStatusValid   VerificationStatus = "VALID"
	VerificationStatusExpired VerificationStatus = "EXPIRED"
	VerificationStatusUsed    VerificationStatus = "USED"
	VerificationStatusFake    VerificationStatus = "FAKE"
)

// VerifyRequest carries either a raw serial number or a scanned QR payload.
// When both are present the serial number wins.
type VerifyRequest struct {
	SerialNumber *string `json:"serial_number,omitempty" validate:"required_without=QRData,omitempty,max=255"`
	QRData       *string `json:"qr_data,omitempty" validate:"omitempty,max=2048"`
	Location     *string `json:"location,omitempty" validate:"omitempty,max=255"`
}

// VerifyMeta is transport-derived request metadata attached to an attempt.
type VerifyMeta struct {
	IPAddress  string
	DeviceInfo string
	UserID     *uuid.UUID
	Location   *string
}

// VerifyResponse is the discriminated verification payload. The concrete
// type, not just the status field, differs per outcome.
type VerifyResponse interface {
	VerificationStatus() VerificationStatus
}

type ValidProduct struct {
	Name            string    `json:"name"`
	Manufacturer    string    `json:"manufacturer"`
	BatchNumber     string    `json:"batch_number"`
	ManufactureDate time.Time `json:"manufacture_date"`
	ExpiresAt       time.Time `json:"expires_at"`
	Category        string    `json:"category"`
	RemainingDays   int       `json:"remaining_days"`
}

type ValidVerifyResponse struct {
	Status    VerificationStatus `json:"status"`
	Timestamp time.Time          `json:"timestamp"`
	RequestID uuid.UUID          `json:"request_id"`
	Product   ValidProduct       `json:"product"`
}

func (r ValidVerifyResponse) VerificationStatus() VerificationStatus { return r.Status }

type ExpiredProduct struct {
	Name         string    `json:"name"`
	Manufacturer string    `json:"manufacturer"`
	ExpiresAt    time.Time `json:"expires_at"`
	ExpiredDays  int       `json:"expired_days"`
}

type ExpiredVerifyResponse struct {
	Status    VerificationStatus `json:"status"`
	Timestamp time.Time          `json:"timestamp"`
	RequestID uuid.UUID          `json:"request_id"`
	Message   string             `json:"message"`
	Product   ExpiredProduct     `json:"product"`
}

func (r ExpiredVerifyResponse) VerificationStatus() VerificationStatus { return r.Status }

// InvalidVerifyResponse is returned for both FAKE and USED outcomes so a
// caller cannot tell an already-redeemed code from one that never existed.
type InvalidVerifyResponse struct {
	Status    VerificationStatus `json:"status"`
	Timestamp time.Time          `json:"timestamp"`
	RequestID uuid.UUID          `json:"request_id"`
	Message   string             `json:"message"`
}

func (r InvalidVerifyResponse) VerificationStatus() VerificationStatus { return r.Status }
