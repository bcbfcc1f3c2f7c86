// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, logging, runtime metrics and debug introspection layer
// shared by the executor and the reactor.
//
// Provides concurrent-safe state handling primitives including:
//   - YAML configuration loading with strict field checking
//   - zerolog logger construction from configuration
//   - Counter-style metrics fed by the executor and the reactor
//   - Named debug probes for state export
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
