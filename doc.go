// Package injector provides a runtime dependency injection registry for Go
// applications.
//
// # Overview
//
// A Registry maps bindings to factories. Each binding is a Key (a Go type,
// optionally refined by a name) registered under one of two lifetimes:
//
//   - Singleton: built lazily on first request and shared for the lifetime
//     of the registry. Concurrent first requests run the factory once.
//   - Transient: built on every request and owned by the requester.
//
// Registration is explicit: a factory receives the *Resolution it runs under
// and requests its own dependencies through it. Dependencies are declared
// alongside the factory so that validation can check the graph without
// running anything.
//
// # Basic Usage
//
//	r := injector.New()
//
//	injector.MustRegisterSingleton(r, func(*injector.Resolution) (TransactionLog, error) {
//	    return NewDatabaseLog(), nil
//	})
//	injector.MustRegisterSingleton(r, func(res *injector.Resolution) (*BillingService, error) {
//	    log, err := injector.GetSingleton[TransactionLog](res)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &BillingService{log: log}, nil
//	}, injector.DependsOn(injector.SingletonDep[TransactionLog]()))
//
//	if err := r.ValidateFull(); err != nil {
//	    log.Fatal(err)
//	}
//
//	billing, err := injector.GetSingleton[*BillingService](r)
//
// # Validation
//
// Validate checks the part of the graph reachable from the given roots, or
// from every provider nothing depends on when no roots are given.
// ValidateFull checks every provider. Both report every missing binding and
// every cycle in one *ValidationError.
//
// # Errors
//
// Structural errors carry sentinels for errors.Is:
//
//   - ErrDuplicateBinding: a key registered twice under one lifetime
//   - ErrMissingBinding, ErrCyclicDependency: reported by validation
//   - ErrUnregisteredBinding, ErrCyclicConstruction: reported by resolution
//
// Errors returned by factories are passed through unchanged. Failed
// singleton constructions are never cached.
//
// # Global Registry
//
// Global returns a process-wide registry configured from INJECTOR_*
// environment variables; see package config.
package injector
