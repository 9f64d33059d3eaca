// Package lpsolver provides LP backends for the ration optimizer. The
// simplex backend converts a general ration.Model into standard form and
// solves it with gonum's simplex implementation.
package lpsolver

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/feed-ration/internal/ration"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// zeroRowTol decides whether an all-zero equality row is consistent.
const zeroRowTol = 1e-12

// Simplex solves ration models with gonum's Dantzig simplex.
type Simplex struct {
	logger *zap.Logger
	tol    float64
}

// NewSimplex returns a simplex solver. tol is the reduced-cost tolerance at
// which the simplex declares optimality.
func NewSimplex(logger *zap.Logger, tol float64) *Simplex {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simplex{logger: logger, tol: tol}
}

// standardForm is the model rewritten as
//
//	minimize c·x  s.t.  A·x = b, x >= 0
//
// columns holds, for every column of A taken from the model, the index of
// the model variable it represents. Columns past len(columns) are surplus or
// slack columns introduced for inequality rows.
type standardForm struct {
	c       []float64
	a       *mat.Dense
	b       []float64
	columns []int
	shift   []float64
	fixed   map[int]float64
}

// Solve implements ration.Solver.
func (s *Simplex) Solve(model *ration.Model) (res ration.SolveResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = ration.SolveResult{Status: ration.SolveError, Err: fmt.Errorf("simplex: %v", r)}
		}
		s.logger.Debug("simplex finished",
			zap.String("op", "lpsolver.Simplex.Solve"),
			zap.Int("variables", len(model.Variables)),
			zap.Int("constraints", len(model.Constraints)),
			zap.Stringer("status", res.Status),
			zap.Duration("duration", time.Since(start)),
		)
	}()

	sf, status, err := toStandardForm(model)
	if err != nil {
		return ration.SolveResult{Status: status, Err: err}
	}

	values := make([]float64, len(model.Variables))
	for j, v := range sf.fixed {
		values[j] = v
	}

	if len(sf.b) > 0 {
		_, x, err := lp.Simplex(sf.c, sf.a, sf.b, s.tol, nil)
		if err != nil {
			return ration.SolveResult{Status: classify(err), Err: err}
		}
		for k, j := range sf.columns {
			values[j] = x[k] + sf.shift[j]
		}
	}

	objective := 0.0
	for j, v := range values {
		objective += model.Objective[j] * v
	}

	return ration.SolveResult{Status: ration.SolveOptimal, Values: values, Objective: objective}
}

func classify(err error) ration.SolveStatus {
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return ration.SolveInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return ration.SolveUnbounded
	default:
		return ration.SolveError
	}
}

func toStandardForm(model *ration.Model) (*standardForm, ration.SolveStatus, error) {
	nVars := len(model.Variables)
	if len(model.Objective) != nVars {
		return nil, ration.SolveError, fmt.Errorf("objective has %d coefficients for %d variables", len(model.Objective), nVars)
	}

	shift := make([]float64, nVars)
	for j, v := range model.Variables {
		if math.IsInf(v.Lower, 0) || math.IsNaN(v.Lower) {
			return nil, ration.SolveError, fmt.Errorf("variable %s: lower bound %v is not supported", v.Name, v.Lower)
		}
		if v.Upper < v.Lower {
			return nil, ration.SolveInfeasible, fmt.Errorf("variable %s: upper bound %v below lower bound %v", v.Name, v.Upper, v.Lower)
		}
		shift[j] = v.Lower
	}

	// Rows after shifting x = x' + lower. Finite upper bounds become x' <= upper - lower.
	type row struct {
		coef  []float64
		sense ration.Sense
		rhs   float64
	}
	rows := make([]row, 0, len(model.Constraints))
	for _, c := range model.Constraints {
		if len(c.Coefficients) != nVars {
			return nil, ration.SolveError, fmt.Errorf("constraint %s has %d coefficients for %d variables", c.Name, len(c.Coefficients), nVars)
		}
		rhs := c.RHS
		for j, a := range c.Coefficients {
			rhs -= a * shift[j]
		}
		rows = append(rows, row{coef: c.Coefficients, sense: c.Sense, rhs: rhs})
	}
	for j, v := range model.Variables {
		if math.IsInf(v.Upper, 1) {
			continue
		}
		coef := make([]float64, nVars)
		coef[j] = 1
		rows = append(rows, row{coef: coef, sense: ration.LessEqual, rhs: v.Upper - v.Lower})
	}

	// Columns that appear in no row cannot enter a gonum basis; fix them at
	// their lower bound, or report the model unbounded when they pay to grow.
	sf := &standardForm{shift: shift, fixed: make(map[int]float64)}
	for j := 0; j < nVars; j++ {
		used := false
		for _, r := range rows {
			if r.coef[j] != 0 {
				used = true
				break
			}
		}
		switch {
		case used:
			sf.columns = append(sf.columns, j)
		case model.Objective[j] < 0:
			return nil, ration.SolveUnbounded, fmt.Errorf("variable %s is unconstrained with negative cost", model.Variables[j].Name)
		default:
			sf.fixed[j] = shift[j]
		}
	}

	kept := rows[:0]
	for _, r := range rows {
		zero := true
		for _, j := range sf.columns {
			if r.coef[j] != 0 {
				zero = false
				break
			}
		}
		if !zero {
			kept = append(kept, r)
			continue
		}
		satisfied := false
		switch r.sense {
		case ration.Equal:
			satisfied = math.Abs(r.rhs) <= zeroRowTol
		case ration.GreaterEqual:
			satisfied = r.rhs <= zeroRowTol
		case ration.LessEqual:
			satisfied = r.rhs >= -zeroRowTol
		}
		if !satisfied {
			return nil, ration.SolveInfeasible, fmt.Errorf("constraint with no variables requires %s %g", r.sense, r.rhs)
		}
	}
	rows = kept

	nExtra := 0
	for _, r := range rows {
		if r.sense != ration.Equal {
			nExtra++
		}
	}
	nCols := len(sf.columns) + nExtra
	if len(rows) > nCols {
		return nil, ration.SolveError, fmt.Errorf("model has %d rows but only %d columns", len(rows), nCols)
	}

	sf.c = make([]float64, nCols)
	for k, j := range sf.columns {
		sf.c[k] = model.Objective[j]
	}
	sf.b = make([]float64, len(rows))
	if len(rows) == 0 {
		return sf, ration.SolveOptimal, nil
	}
	sf.a = mat.NewDense(len(rows), nCols, nil)
	extra := len(sf.columns)
	for i, r := range rows {
		for k, j := range sf.columns {
			sf.a.Set(i, k, r.coef[j])
		}
		switch r.sense {
		case ration.GreaterEqual:
			sf.a.Set(i, extra, -1)
			extra++
		case ration.LessEqual:
			sf.a.Set(i, extra, 1)
			extra++
		case ration.Equal:
		default:
			return nil, ration.SolveError, fmt.Errorf("unsupported constraint sense %s", r.sense)
		}
		sf.b[i] = r.rhs
	}

	return sf, ration.SolveOptimal, nil
}
