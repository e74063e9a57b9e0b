// Package omnijs executes Omni Automation (OmniJS) scripts inside OmniFocus.
//
// Scripts are delivered through the macOS automation bridge: the snippet is
// embedded into a JXA wrapper that calls OmniFocus' evaluateJavascript entry
// point, and the wrapper is piped to osascript's standard input. The trimmed
// standard output is parsed as JSON when possible and returned verbatim
// otherwise, so operations may return either structured values or bare
// strings.
//
// The package also provides the two escaping primitives every dynamically
// built script must go through: EscapeSingleQuotes for values embedded in
// single-quoted OmniJS string literals, and Literal for values embedded as
// JSON. No other escaping is performed anywhere in this module.
package omnijs
