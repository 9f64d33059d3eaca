package ration

// SolveStatus is the raw outcome reported by an LP backend.
type SolveStatus int

const (
	SolveOptimal SolveStatus = iota + 1
	SolveInfeasible
	SolveUnbounded
	SolveError
)

func (s SolveStatus) String() string {
	switch s {
	case SolveOptimal:
		return "optimal"
	case SolveInfeasible:
		return "infeasible"
	case SolveUnbounded:
		return "unbounded"
	case SolveError:
		return "error"
	default:
		return "unknown"
	}
}

// SolveResult carries one value per Model variable when Status is
// SolveOptimal. Err holds the backend diagnostic for the other statuses.
type SolveResult struct {
	Status    SolveStatus
	Values    []float64
	Objective float64
	Err       error
}

// Solver minimizes a Model: continuous variables, linear objective, linear
// >=, = and <= rows. One Solve call is one deterministic solve; backends do
// not retry.
type Solver interface {
	Solve(model *Model) SolveResult
}

// SolverFactory creates a Solver scoped to a single Solve call. An error
// means no LP backend could be instantiated.
type SolverFactory interface {
	CreateSolver() (Solver, error)
}

// SolverFactoryFunc adapts a function to SolverFactory.
type SolverFactoryFunc func() (Solver, error)

// CreateSolver calls f.
func (f SolverFactoryFunc) CreateSolver() (Solver, error) {
	return f()
}
