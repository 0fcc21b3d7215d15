// Package lpkit provides the modeling algebra of a linear and mixed-integer
// programming front end: decision variables, affine expressions, constraints,
// canonical text rendering and evaluation of solver results.
//
// lpkit does not solve anything. A solver adapter consumes the finished
// model and writes the computed values back onto the variables; everything
// here is the symbolic layer in front of that step.
//
// The core algebra lives in the lp package. The encoding package offers
// (de)serialization of models.
package lpkit

import "github.com/blang/semver/v4"

// Version of the lpkit library, encoded in serialized models.
var Version = semver.MustParse("0.1.0")
