// Package lp implements the symbolic algebra of a linear programming model:
// symbols, bounded variables, affine expressions, constraints and their
// canonical text form.
//
// An affine expression is a constant plus a weighted sum of symbols. Terms
// keep the order in which their symbols were first introduced, so the string
// form of an expression is deterministic and stable across every algebraic
// transformation. Comparing two expressions (LE, EQ, GE) is the only way to
// build a constraint; the right-hand side is folded into the expression's
// constant at that point, so a constraint always reads "expression sense 0".
//
// Expressions and constraints are value types: arithmetic returns new
// expressions and never mutates operands. The assigned value slot of a
// Variable is the only mutable shared state; if a solver adapter writes
// values while another goroutine evaluates, the caller must synchronize.
package lp
