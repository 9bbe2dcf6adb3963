package grouping

import "github.com/Veraticus/cardspend/internal/model"

// Source is the read side of the transaction store.
type Source interface {
	All() []model.Transaction
	Revision() uint64
}

// Engine memoizes Derive for one source.
type Engine struct {
	source   Source
	criteria model.FilterCriteria
	result   Result
	revision uint64
	valid    bool
}

// NewEngine creates an engine over source.
func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// View returns the derived view, recomputing only when the source revision
// or the criteria changed since the last call.
func (e *Engine) View(c model.FilterCriteria) Result {
	rev := e.source.Revision()
	if e.valid && rev == e.revision && c == e.criteria {
		return e.result
	}
	e.result = Derive(e.source.All(), c)
	e.revision = rev
	e.criteria = c
	e.valid = true
	return e.result
}
