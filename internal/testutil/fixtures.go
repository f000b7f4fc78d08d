package testutil

import (
	"github.com/junioryono/injector"
)

// Billing holds the concrete fixtures registered by RegisterBilling so tests
// can inspect them.
type Billing struct {
	Processor *FakeProcessor
	Log       *RecordingLog
}

// RegisterBilling registers the processor under CreditCardProcessor, the log
// under TransactionLog and a *BillingService declaring both, all as
// singletons.
func RegisterBilling(r *injector.Registry) (*Billing, error) {
	b := &Billing{
		Processor: &FakeProcessor{},
		Log:       &RecordingLog{},
	}

	if err := injector.RegisterSingleton(r, func(*injector.Resolution) (CreditCardProcessor, error) {
		return b.Processor, nil
	}); err != nil {
		return nil, err
	}

	if err := injector.RegisterSingleton(r, func(*injector.Resolution) (TransactionLog, error) {
		return b.Log, nil
	}); err != nil {
		return nil, err
	}

	err := injector.RegisterSingleton(r, NewBillingService,
		injector.DependsOn(
			injector.SingletonDep[CreditCardProcessor](),
			injector.SingletonDep[TransactionLog](),
		),
	)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// NewBillingService is the factory of *BillingService.
func NewBillingService(res *injector.Resolution) (*BillingService, error) {
	processor, err := injector.GetSingleton[CreditCardProcessor](res)
	if err != nil {
		return nil, err
	}
	log, err := injector.GetSingleton[TransactionLog](res)
	if err != nil {
		return nil, err
	}
	return &BillingService{Processor: processor, Log: log}, nil
}
