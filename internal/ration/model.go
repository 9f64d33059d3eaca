package ration

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// VariableKind distinguishes ingredient quantities from nutrient slack.
type VariableKind int

const (
	DecisionVariable VariableKind = iota + 1
	SlackVariable
)

// Variable is a continuous LP column.
type Variable struct {
	Name  string
	Kind  VariableKind
	Lower float64
	Upper float64
}

// Sense is the relation of a constraint row to its right-hand side.
type Sense int

const (
	GreaterEqual Sense = iota + 1
	Equal
	LessEqual
)

func (s Sense) String() string {
	switch s {
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	case LessEqual:
		return "<="
	default:
		return fmt.Sprintf("sense(%d)", int(s))
	}
}

// Constraint is one linear row; Coefficients is dense over Model.Variables.
type Constraint struct {
	Name         string
	Coefficients []float64
	Sense        Sense
	RHS          float64
}

// Model is the linear program for one ration. Decision variables come first
// in ingredient order, followed by one slack variable per tracked nutrient.
// The objective is minimized.
type Model struct {
	Variables   []Variable
	Objective   []float64
	Constraints []Constraint

	IngredientIDs    []string
	TrackedNutrients []NutrientID
	BatchMass        float64
}

// NumDecision returns the number of ingredient quantity variables.
func (m *Model) NumDecision() int {
	return len(m.IngredientIDs)
}

// NumSlack returns the number of nutrient slack variables.
func (m *Model) NumSlack() int {
	return len(m.TrackedNutrients)
}

// DecisionValues returns the ingredient quantity part of a solver value vector.
func (m *Model) DecisionValues(values []float64) []float64 {
	n := m.NumDecision()
	if len(values) < n {
		return nil
	}
	return values[:n]
}

// SlackValues maps the nutrient slack part of a solver value vector.
func (m *Model) SlackValues(values []float64) map[NutrientID]float64 {
	offset := m.NumDecision()
	if len(values) < offset+m.NumSlack() {
		return nil
	}
	slack := make(map[NutrientID]float64, m.NumSlack())
	for j, n := range m.TrackedNutrients {
		slack[n] = values[offset+j]
	}
	return slack
}

// String renders the model in a readable LP-like form for debug logging.
func (m *Model) String() string {
	var b strings.Builder
	b.WriteString("minimize")
	writeRow(&b, m.Variables, m.Objective)
	b.WriteString("\nsubject to")
	for _, c := range m.Constraints {
		fmt.Fprintf(&b, "\n  %s:", c.Name)
		writeRow(&b, m.Variables, c.Coefficients)
		fmt.Fprintf(&b, " %s %g", c.Sense, c.RHS)
	}
	return b.String()
}

func writeRow(b *strings.Builder, vars []Variable, coef []float64) {
	written := false
	for j, v := range coef {
		if v == 0 {
			continue
		}
		if written {
			b.WriteString(" +")
		}
		fmt.Fprintf(b, " %g %s", v, vars[j].Name)
		written = true
	}
	if !written {
		b.WriteString(" 0")
	}
}

// BuildModel translates the selected ingredients and a nutrient profile into
// a Model:
//
//	minimize   Σ price_i·qty_i + penalty·Σ slack_n
//	subject to Σ content_i[n]·qty_i + slack_n >= target_n·batch   (each nutrient)
//	           Σ qty_i = batch
//	           Σ_{i in c} qty_i >= minCategory                    (each category)
//
// Nutrient rows are soft: an unreachable target shows up as slack, and
// therefore as a shortfall, instead of making the program infeasible.
func BuildModel(ingredients []Ingredient, profile NutrientProfile, opts Options) (*Model, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := validateIngredients(ingredients); err != nil {
		return nil, err
	}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	nDecision := len(ingredients)
	nVars := nDecision + len(Nutrients)

	m := &Model{
		Variables:        make([]Variable, 0, nVars),
		Objective:        make([]float64, nVars),
		Constraints:      make([]Constraint, 0, len(Nutrients)+1+len(Categories)),
		IngredientIDs:    make([]string, nDecision),
		TrackedNutrients: append([]NutrientID(nil), Nutrients...),
		BatchMass:        opts.BatchMass,
	}

	for i, ing := range ingredients {
		m.IngredientIDs[i] = ing.ID
		m.Variables = append(m.Variables, Variable{
			Name:  "qty_" + ing.ID,
			Kind:  DecisionVariable,
			Lower: 0,
			Upper: math.Inf(1),
		})
		m.Objective[i] = ing.UnitPrice
	}
	for j, n := range Nutrients {
		m.Variables = append(m.Variables, Variable{
			Name:  "slack_" + string(n),
			Kind:  SlackVariable,
			Lower: 0,
			Upper: math.Inf(1),
		})
		m.Objective[nDecision+j] = opts.PenaltyFactor
	}

	for j, n := range Nutrients {
		row := make([]float64, nVars)
		for i, ing := range ingredients {
			row[i] = ing.Nutrient(n)
		}
		row[nDecision+j] = 1
		m.Constraints = append(m.Constraints, Constraint{
			Name:         "nutrient_" + string(n),
			Coefficients: row,
			Sense:        GreaterEqual,
			RHS:          profile.Target(n) * opts.BatchMass,
		})
	}

	mass := make([]float64, nVars)
	for i := range ingredients {
		mass[i] = 1
	}
	m.Constraints = append(m.Constraints, Constraint{
		Name:         "batch_mass",
		Coefficients: mass,
		Sense:        Equal,
		RHS:          opts.BatchMass,
	})

	for _, c := range Categories {
		row := make([]float64, nVars)
		for i, ing := range ingredients {
			if ing.Category == c {
				row[i] = 1
			}
		}
		m.Constraints = append(m.Constraints, Constraint{
			Name:         "category_" + c.String(),
			Coefficients: row,
			Sense:        GreaterEqual,
			RHS:          opts.MinCategoryMass,
		})
	}

	return m, nil
}

func validateIngredients(ingredients []Ingredient) error {
	seen := make(map[string]struct{}, len(ingredients))
	covered := make(map[Category]bool, len(Categories))
	for idx, ing := range ingredients {
		if strings.TrimSpace(ing.ID) == "" {
			return constructionError(ErrInvalidIngredient, "ingredient at position %d has an empty id", idx)
		}
		if _, dup := seen[ing.ID]; dup {
			return constructionError(ErrDuplicateIngredient, "%q appears more than once", ing.ID)
		}
		seen[ing.ID] = struct{}{}
		if !ing.Category.Valid() {
			return constructionError(ErrInvalidIngredient, "%q has unknown category %d", ing.ID, int(ing.Category))
		}
		if !finiteNonNegative(ing.UnitPrice) {
			return constructionError(ErrInvalidIngredient, "%q has price %v, must be non-negative", ing.ID, ing.UnitPrice)
		}
		for n, v := range ing.Content {
			if !knownNutrient(n) {
				return constructionError(ErrInvalidIngredient, "%q lists unknown nutrient %q", ing.ID, n)
			}
			if !finiteNonNegative(v) {
				return constructionError(ErrInvalidIngredient, "%q has %s content %v, must be non-negative", ing.ID, n, v)
			}
		}
		covered[ing.Category] = true
	}

	var missing []string
	for _, c := range Categories {
		if !covered[c] {
			missing = append(missing, c.Label())
		}
	}
	if len(missing) > 0 {
		return constructionError(ErrInsufficientCategoryCoverage, "no ingredient selected from %s", strings.Join(missing, ", "))
	}
	return nil
}

func validateProfile(profile NutrientProfile) error {
	keys := make([]string, 0, len(profile.Targets))
	for n := range profile.Targets {
		keys = append(keys, string(n))
	}
	sort.Strings(keys)
	for _, k := range keys {
		n := NutrientID(k)
		if !knownNutrient(n) {
			return constructionError(ErrInvalidProfile, "%q lists unknown nutrient %q", profile.AnimalType, n)
		}
		if v := profile.Targets[n]; !finiteNonNegative(v) {
			return constructionError(ErrInvalidProfile, "%q has %s target %v, must be non-negative", profile.AnimalType, n, v)
		}
	}
	return nil
}
