package lp

import (
	"regexp"
	"sync/atomic"

	"github.com/modelfront/lpkit/logger"
)

// Element is an atomic operand of the algebra: a bare Symbol or a Variable.
// The interface is sealed; the coefficient maps of expressions are keyed by
// the element's id, never by its name, so two elements with the same name
// stay distinct terms.
type Element interface {
	ID() uint32
	Name() string

	assigned() (float64, bool)
	fallback() float64
}

// symbolID hands out process-wide unique ids. Identity of a symbol is its id,
// assigned once at creation.
var symbolID atomic.Uint32

var illegalNameChars = regexp.MustCompile(`[-+\[\] >/]`)

func sanitizeName(name string) string {
	if illegalNameChars.MatchString(name) {
		log := logger.Logger()
		log.Warn().Str("name", name).Msg("name has illegal characters that will be replaced by _")
		return illegalNameChars.ReplaceAllString(name, "_")
	}
	return name
}

// Symbol is an atomic named reference standing for a decision variable inside
// symbolic expressions. It carries identity and a name, nothing else; a bare
// Symbol never has an assigned value.
type Symbol struct {
	id   uint32
	name string
}

// NewSymbol returns a fresh symbol. Characters that downstream tooling cannot
// digest (`- + [ ] space > /`) are replaced by underscores, with a logged
// warning. The name is immutable afterwards.
func NewSymbol(name string) *Symbol {
	return &Symbol{
		id:   symbolID.Add(1),
		name: sanitizeName(name),
	}
}

// ID returns the unique id of the symbol.
func (s *Symbol) ID() uint32 { return s.id }

// Name returns the (sanitized) name of the symbol.
func (s *Symbol) Name() string { return s.name }

func (s *Symbol) String() string { return s.name }

func (s *Symbol) assigned() (float64, bool) { return 0, false }

func (s *Symbol) fallback() float64 { return 0 }
