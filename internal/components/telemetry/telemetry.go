// Package telemetry is how the adapter reports what goes wrong with the
// backend's pages and requests. Components take an API instead of a logger so
// tests can assert on reports through a Recorder.
package telemetry

// API receives reports keyed by an id of the form "<component>.<operation>",
// e.g. "groups.detail" or "items.enrich-categories". Ids name the operation
// that degraded, details such as the item id or the underlying error go in
// params.
type API interface {
	// ReportBroken is for failures someone has to look at: a page no
	// extraction strategy could read, a store that could not be written.
	ReportBroken(id string, params ...any)
	// ReportWarning is for degraded results the caller still got an answer
	// for, like an item that fell back to the unknown category.
	ReportWarning(id string, params ...any)
	// ReportDebug takes a free form message.
	ReportDebug(msg string, params ...any)
	// ReportCount records a point in time count, e.g. failed items of one
	// enrichment run.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id (or debug message) with "<namespace>: ".
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return s.namespace + ": " + id
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scoped(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}
