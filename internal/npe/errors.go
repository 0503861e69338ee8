package npe

import "errors"

// ErrToolchainUnresolved is returned when a build mode cannot be mapped to
// a bundled-equivalent toolchain. Fatal to the current plan.
var ErrToolchainUnresolved = errors.New("npe: cannot resolve toolchain for build mode")

// ErrUnsupportedUnit is returned when the emitter reaches an inexpressible
// code path, e.g. a link command whose category it does not recognize.
// Surfaced to the caller, aborts plan construction.
var ErrUnsupportedUnit = errors.New("npe: unsupported link unit")
