// Package omnifocus is a typed client for the OmniFocus automation surface.
//
// Every operation is a stateless round trip: build an OmniJS script from the
// typed parameters, run it through the bridge executor, and validate the
// loosely typed JSON result back into the caller's contract. Durable state
// lives entirely inside OmniFocus; nothing is cached between calls.
//
// Scripts embed parameters through exactly two primitives (see the omnijs
// package) and wrap their bodies in an error boundary that converts
// exceptions raised inside OmniFocus into {error} result values, keeping
// application rejections distinct from bridge failures.
package omnifocus
