// Package orchestration runs searches end to end: it drives the engine for
// one level or a whole plan, imposes the total order on the candidates and
// writes the two artifacts. Presentation stays behind the ProgressReporter and
// ResultPresenter interfaces.
package orchestration
