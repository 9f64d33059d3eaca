package lpsolver

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/iwvelando/feed-ration/internal/ration"
	"go.uber.org/zap"
)

const (
	// BackendSimplex is gonum's dense simplex.
	BackendSimplex = "simplex"
)

// ErrUnknownBackend is returned by CreateSolver for unregistered backend names.
var ErrUnknownBackend = errors.New("unknown LP backend")

var backendAliases = map[string]string{
	"simplex": BackendSimplex,
	"gonum":   BackendSimplex,
	"glop":    BackendSimplex,
}

// Backends lists the accepted backend names.
func Backends() []string {
	names := make([]string, 0, len(backendAliases))
	for name := range backendAliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Factory creates solvers for a named backend. Name resolution happens in
// CreateSolver so that a misconfigured backend surfaces as an unavailable
// solver for the run rather than as a startup failure.
type Factory struct {
	logger    *zap.Logger
	name      string
	tolerance float64
}

// NewFactory returns a ration.SolverFactory for the named backend.
func NewFactory(logger *zap.Logger, name string, tolerance float64) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{logger: logger, name: name, tolerance: tolerance}
}

// CreateSolver implements ration.SolverFactory.
func (f *Factory) CreateSolver() (ration.Solver, error) {
	key := strings.ToLower(strings.TrimSpace(f.name))
	if key == "" {
		key = BackendSimplex
	}
	backend, ok := backendAliases[key]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownBackend, f.name, strings.Join(Backends(), ", "))
	}
	if f.tolerance < 0 || math.IsNaN(f.tolerance) || math.IsInf(f.tolerance, 0) {
		return nil, fmt.Errorf("%s: invalid tolerance %v", backend, f.tolerance)
	}
	switch backend {
	case BackendSimplex:
		return NewSimplex(f.logger, f.tolerance), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, backend)
	}
}
