package testutil

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Common test errors
var (
	ErrTest        = errors.New("test error")
	ErrIntentional = errors.New("intentional error")
	ErrDeclined    = errors.New("card declined")
)

// TestService is a basic test service
type TestService struct {
	ID        string
	CreatedAt time.Time
	Data      string
}

// NewTestService creates a new test service
func NewTestService() *TestService {
	return &TestService{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Data:      "test",
	}
}

// TestDependent is a service built from a TestService
type TestDependent struct {
	Service *TestService
}

// ========================================
// Billing fixtures
// ========================================

// CreditCardProcessor charges a card.
type CreditCardProcessor interface {
	Charge(amount int64) (int64, error)
}

// TransactionLog records completed charges.
type TransactionLog interface {
	LogCharge(amount int64)
}

// Receipt is the outcome of a successful charge.
type Receipt struct {
	Amount int64
}

// FakeProcessor accepts every charge unless Decline is set.
type FakeProcessor struct {
	Decline bool
}

func (p *FakeProcessor) Charge(amount int64) (int64, error) {
	if p.Decline {
		return 0, ErrDeclined
	}
	return amount, nil
}

// RecordingLog is a TransactionLog that remembers every call.
type RecordingLog struct {
	mu      sync.Mutex
	entries []int64
}

func (l *RecordingLog) LogCharge(amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, amount)
}

// Entries returns a copy of the logged amounts.
func (l *RecordingLog) Entries() []int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]int64(nil), l.entries...)
}

// BillingService charges through a processor and logs the result.
type BillingService struct {
	Processor CreditCardProcessor
	Log       TransactionLog
}

// Charge charges amount and logs it once on success.
func (s *BillingService) Charge(amount int64) (Receipt, error) {
	charged, err := s.Processor.Charge(amount)
	if err != nil {
		return Receipt{}, err
	}
	s.Log.LogCharge(charged)
	return Receipt{Amount: charged}, nil
}
