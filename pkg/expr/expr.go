package expr

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

// Environment provides a thread-safe wrapper around a [*cel.Env].
type Environment struct {
	env *cel.Env
}

// Option adjusts the expression environment.
type Option func(*lib)

// WithFuzzyThreshold sets the similarity ratio propLike requires. Zero keeps
// the default.
func WithFuzzyThreshold(threshold float64) Option {
	return func(l *lib) {
		if threshold > 0 {
			l.fuzzyThreshold = threshold
		}
	}
}

// NewEnvironment creates a new [Environment] with the element filtering
// library loaded.
func NewEnvironment(opts ...Option) (*Environment, error) {
	env, err := createEnvironment(opts...)
	if err != nil {
		return nil, err
	}

	return &Environment{env: env}, nil
}

// MustNewEnvironment creates a new [Environment] and panics on error.
func MustNewEnvironment(opts ...Option) *Environment {
	env, err := NewEnvironment(opts...)
	if err != nil {
		panic(err)
	}

	return env
}

func createEnvironment(opts ...Option) (*cel.Env, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	l := newLib()
	for _, opt := range opts {
		opt(l)
	}

	celEnv, err := cel.NewEnv(cel.Lib(l))
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return celEnv, nil
}

// Compile compiles a CEL expression and returns a program.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return program, nil
}
