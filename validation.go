package injector

import (
	"github.com/junioryono/injector/internal/graph"
)

// Validate checks the declared dependencies reachable from roots for missing
// bindings and cycles. With no roots it starts from every provider that no
// other provider depends on, so a cycle that nothing depends on from outside
// is not seen; use ValidateFull for that.
//
// Validation never runs factories. Dependencies a factory requests without
// declaring them are invisible to it.
func (r *Registry) Validate(roots ...Dependency) error {
	g := r.graph()
	if len(roots) == 0 {
		roots = g.Sources()
	}
	return r.validationResult(false, g.Check(roots))
}

// ValidateFull checks every registered provider for missing bindings and
// cycles regardless of reachability.
func (r *Registry) ValidateFull() error {
	return r.validationResult(true, r.graph().CheckAll())
}

func (r *Registry) validationResult(full bool, errs []error) error {
	var err error
	if len(errs) > 0 {
		err = &ValidationError{Full: full, Errors: errs}
	}

	r.metrics.observeValidation(full, err)
	if err != nil {
		r.logger.Warn().
			Bool("full", full).
			Int("problems", len(errs)).
			Err(err).
			Msg("validation failed")
		return err
	}

	r.logger.Debug().Bool("full", full).Msg("validation passed")
	return nil
}

// graph builds the declared dependency graph from the current providers.
func (r *Registry) graph() *graph.DependencyGraph[Dependency] {
	g := graph.NewDependencyGraph[Dependency]()
	for _, p := range r.providers.snapshot() {
		g.AddNode(p.binding, p.dependencies)
	}
	return g
}
