// Package logging provides the logging interface used by the search engine
// and the application layer. It abstracts the zerolog backend so components
// log structured fields without depending on a concrete implementation.
package logging
