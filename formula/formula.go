// Package formula is a registry of closed-form A-Level maths and physics
// formulas. Every formula declares its inputs up front; the registry checks
// the declaration when the formula is registered and checks the supplied
// values before the formula runs.
package formula

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknownFormula is returned by Evaluate for an unregistered ID.
	ErrUnknownFormula = errors.New("formula: unknown formula")
	// ErrInvalidFormula is returned by Register for a bad declaration.
	ErrInvalidFormula = errors.New("formula: invalid definition")
)

// InputError reports a missing or unusable input value.
type InputError struct {
	Formula ID
	Input   string
	Reason  string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("formula %s: input %q: %s", e.Formula, e.Input, e.Reason)
}

// DomainError reports inputs outside the region where a formula is
// defined, such as a = 0 in the quadratic formula.
type DomainError struct {
	Formula ID
	Reason  string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("formula %s: %s", e.Formula, e.Reason)
}

func domainErr(format string, args ...any) error {
	return &DomainError{Reason: fmt.Sprintf(format, args...)}
}

// ============================================================
// Types
// ============================================================

type ID string

type Subject string

const (
	Mathematics Subject = "Mathematics"
	Physics     Subject = "Physics"
)

// Input declares one named value a formula reads. Optional inputs may be
// left out; when HasDefault is set the default is used instead.
type Input struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	Optional    bool    `json:"optional,omitempty"`
	HasDefault  bool    `json:"-"`
	Default     float64 `json:"default,omitempty"`
}

// Values are the inputs handed to a compute function. Optional inputs
// that were not supplied and have no default are absent.
type Values map[string]float64

func (v Values) Get(name string) float64 { return v[name] }

func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Formula is one registry entry.
type Formula struct {
	ID          ID      `json:"id"`
	Subject     Subject `json:"subject"`
	Topic       string  `json:"topic"`
	Name        string  `json:"name"`
	Notation    string  `json:"notation"`
	Description string  `json:"description"`
	Inputs      []Input `json:"inputs"`

	compute func(Values) (Result, error)
}

// New builds a Formula around its compute function.
func New(id ID, subject Subject, topic, name, notation, description string, inputs []Input, compute func(Values) (Result, error)) Formula {
	return Formula{
		ID:          id,
		Subject:     subject,
		Topic:       topic,
		Name:        name,
		Notation:    notation,
		Description: description,
		Inputs:      inputs,
		compute:     compute,
	}
}

// Quantity is one computed value.
type Quantity struct {
	Symbol string  `json:"symbol"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit,omitempty"`
}

func (q Quantity) String() string {
	s := q.Symbol + " = " + strconv.FormatFloat(q.Value, 'g', 10, 64)
	if q.Unit != "" {
		s += " " + q.Unit
	}
	return s
}

// Result is the outcome of a formula. Expression holds a symbolic answer
// for formulas that produce one.
type Result struct {
	Values     []Quantity `json:"values,omitempty"`
	Expression string     `json:"expression,omitempty"`
	Note       string     `json:"note,omitempty"`
}

func (r Result) String() string {
	var parts []string
	for _, q := range r.Values {
		parts = append(parts, q.String())
	}
	if r.Expression != "" {
		parts = append(parts, r.Expression)
	}
	if r.Note != "" {
		parts = append(parts, r.Note)
	}
	return strings.Join(parts, "; ")
}

func single(symbol string, value float64, unit string) Result {
	return Result{Values: []Quantity{{Symbol: symbol, Value: value, Unit: unit}}}
}

// ============================================================
// Registry
// ============================================================

// Registry holds formulas in registration order. It is not safe for
// concurrent Register calls; lookups may run concurrently once built.
type Registry struct {
	byID  map[ID]Formula
	order []ID
}

func NewRegistry() *Registry {
	return &Registry{byID: map[ID]Formula{}}
}

// Register validates f and adds it.
func (r *Registry) Register(f Formula) error {
	switch {
	case f.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidFormula)
	case f.compute == nil:
		return fmt.Errorf("%w: %s has no compute function", ErrInvalidFormula, f.ID)
	case f.Subject == "" || f.Topic == "" || f.Name == "":
		return fmt.Errorf("%w: %s needs a subject, topic and name", ErrInvalidFormula, f.ID)
	}
	if _, dup := r.byID[f.ID]; dup {
		return fmt.Errorf("%w: duplicate id %s", ErrInvalidFormula, f.ID)
	}
	seen := map[string]bool{}
	for _, in := range f.Inputs {
		if in.Name == "" {
			return fmt.Errorf("%w: %s has an unnamed input", ErrInvalidFormula, f.ID)
		}
		if seen[in.Name] {
			return fmt.Errorf("%w: %s declares input %q twice", ErrInvalidFormula, f.ID, in.Name)
		}
		seen[in.Name] = true
	}
	r.byID[f.ID] = f
	r.order = append(r.order, f.ID)
	return nil
}

// MustRegister is Register for static tables; it panics on error.
func (r *Registry) MustRegister(fs ...Formula) {
	for _, f := range fs {
		if err := r.Register(f); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Get(id ID) (Formula, bool) {
	f, ok := r.byID[id]
	return f, ok
}

// All returns every formula in registration order.
func (r *Registry) All() []Formula {
	out := make([]Formula, len(r.order))
	for i, id := range r.order {
		out[i] = r.byID[id]
	}
	return out
}

// Topics lists the topics of subject in registration order.
func (r *Registry) Topics(subject Subject) []string {
	var out []string
	seen := map[string]bool{}
	for _, id := range r.order {
		f := r.byID[id]
		if f.Subject == subject && !seen[f.Topic] {
			seen[f.Topic] = true
			out = append(out, f.Topic)
		}
	}
	return out
}

func (r *Registry) ByTopic(subject Subject, topic string) []Formula {
	var out []Formula
	for _, id := range r.order {
		if f := r.byID[id]; f.Subject == subject && f.Topic == topic {
			out = append(out, f)
		}
	}
	return out
}

// Evaluate runs formula id on inputs. Required inputs must be present and
// every supplied value must be finite. Unknown input names are rejected.
func (r *Registry) Evaluate(id ID, inputs map[string]float64) (Result, error) {
	f, ok := r.byID[id]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownFormula, id)
	}
	declared := map[string]bool{}
	vals := Values{}
	for _, in := range f.Inputs {
		declared[in.Name] = true
		v, given := inputs[in.Name]
		switch {
		case given && (math.IsNaN(v) || math.IsInf(v, 0)):
			return Result{}, &InputError{Formula: id, Input: in.Name, Reason: "must be a finite number"}
		case given:
			vals[in.Name] = v
		case in.HasDefault:
			vals[in.Name] = in.Default
		case !in.Optional:
			return Result{}, &InputError{Formula: id, Input: in.Name, Reason: "value is required"}
		}
	}
	for name := range inputs {
		if !declared[name] {
			return Result{}, &InputError{Formula: id, Input: name, Reason: "not an input of this formula"}
		}
	}
	res, err := f.compute(vals)
	var derr *DomainError
	if errors.As(err, &derr) && derr.Formula == "" {
		derr.Formula = id
	}
	return res, err
}
