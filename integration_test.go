package injector_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/injector"
	"github.com/junioryono/injector/internal/testutil"
)

func TestIntegration_Billing(t *testing.T) {
	t.Run("charge is receipted and logged once", func(t *testing.T) {
		r := injector.New()
		billing, err := testutil.RegisterBilling(r)
		require.NoError(t, err)

		require.NoError(t, r.ValidateFull())

		service := testutil.AssertSingletonResolvable[*testutil.BillingService](t, r)
		assert.Same(t, billing.Processor, service.Processor)
		assert.Same(t, billing.Log, service.Log)

		receipt, err := service.Charge(100)
		require.NoError(t, err)
		assert.Equal(t, int64(100), receipt.Amount)
		assert.Equal(t, []int64{100}, billing.Log.Entries())
	})

	t.Run("declined charge is not logged", func(t *testing.T) {
		r := injector.New()
		billing, err := testutil.RegisterBilling(r)
		require.NoError(t, err)
		billing.Processor.Decline = true

		service := testutil.AssertSingletonResolvable[*testutil.BillingService](t, r)
		_, err = service.Charge(100)
		assert.ErrorIs(t, err, testutil.ErrDeclined)
		assert.Empty(t, billing.Log.Entries())
	})

	t.Run("missing processor is caught by validation", func(t *testing.T) {
		r := injector.New()
		require.NoError(t, injector.RegisterSingleton(r, func(*injector.Resolution) (testutil.TransactionLog, error) {
			return &testutil.RecordingLog{}, nil
		}))
		require.NoError(t, injector.RegisterSingleton(r, testutil.NewBillingService,
			injector.DependsOn(
				injector.SingletonDep[testutil.CreditCardProcessor](),
				injector.SingletonDep[testutil.TransactionLog](),
			)))

		err := r.ValidateFull()
		var missing injector.MissingBindingError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, injector.SingletonDep[testutil.CreditCardProcessor](), missing.Missing)

		_, err = injector.GetSingleton[*testutil.BillingService](r)
		assert.True(t, injector.IsUnregistered(err))
	})

	t.Run("concurrent callers share one service", func(t *testing.T) {
		r := injector.New()
		billing, err := testutil.RegisterBilling(r)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				service, err := injector.GetSingleton[*testutil.BillingService](r)
				if assert.NoError(t, err) {
					_, err = service.Charge(1)
					assert.NoError(t, err)
				}
			}()
		}
		wg.Wait()

		assert.Len(t, billing.Log.Entries(), 20)
	})
}
