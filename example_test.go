package injector_test

import (
	"errors"
	"fmt"

	"github.com/junioryono/injector"
)

type Database interface {
	Query(sql string) string
}

type inMemoryDatabase struct{}

func (inMemoryDatabase) Query(sql string) string {
	return "rows for " + sql
}

type UserRepository struct {
	db Database
}

func Example() {
	r := injector.New()

	injector.MustRegisterSingleton(r, func(*injector.Resolution) (Database, error) {
		return inMemoryDatabase{}, nil
	})
	injector.MustRegisterTransient(r, func(res *injector.Resolution) (*UserRepository, error) {
		db, err := injector.GetSingleton[Database](res)
		if err != nil {
			return nil, err
		}
		return &UserRepository{db: db}, nil
	}, injector.DependsOn(injector.SingletonDep[Database]()))

	if err := r.ValidateFull(); err != nil {
		fmt.Println(err)
		return
	}

	first := injector.MustGetTransient[*UserRepository](r)
	second := injector.MustGetTransient[*UserRepository](r)

	fmt.Println(first.db.Query("SELECT 1"))
	fmt.Println(first != second)
	fmt.Println(first.db == second.db)
	// Output:
	// rows for SELECT 1
	// true
	// true
}

func ExampleRegistry_ValidateFull() {
	r := injector.New()

	injector.MustRegisterSingleton(r, func(res *injector.Resolution) (*UserRepository, error) {
		db, err := injector.GetSingleton[Database](res)
		return &UserRepository{db: db}, err
	}, injector.DependsOn(injector.SingletonDep[Database]()))

	err := r.ValidateFull()
	fmt.Println(err)
	fmt.Println(errors.Is(err, injector.ErrMissingBinding))

	var missing injector.MissingBindingError
	if errors.As(err, &missing) {
		fmt.Println(missing.Missing)
	}
	// Output:
	// full validation failed: missing binding: Singleton(*injector_test.UserRepository) depends on Singleton(injector_test.Database), which is not registered
	// true
	// Singleton(injector_test.Database)
}

func ExampleGetSingleton_unregistered() {
	r := injector.New()
	injector.MustRegisterTransient(r, func(*injector.Resolution) (Database, error) {
		return inMemoryDatabase{}, nil
	})

	_, err := injector.GetSingleton[Database](r)
	fmt.Println(injector.IsUnregistered(err))
	fmt.Println(err)
	// Output:
	// true
	// unregistered binding: Singleton(injector_test.Database)
	//
	// injector_test.Database is registered as Transient; request it with GetTransient.
}

func ExampleNamed() {
	r := injector.New()
	injector.MustRegisterSingleton(r, func(*injector.Resolution) (string, error) {
		return "primary", nil
	}, injector.Named("dsn"))

	dsn, err := injector.GetSingletonNamed[string](r, "dsn")
	fmt.Println(dsn, err)

	_, err = injector.GetSingleton[string](r)
	fmt.Println(injector.IsUnregistered(err))
	// Output:
	// primary <nil>
	// true
}
