// Package wordlevel implements a whitespace word vocabulary tokeniser fitted on a
// training split. It needs no network access and preserves case.
package wordlevel
