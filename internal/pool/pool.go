// Package pool holds the ordered question/answer pairs a tutoring session
// works through, with a cursor that only ever moves forward.
package pool

// QAPair is one question the learner will be asked to teach, with the
// reference answer the evaluator judges against. Answer may be empty when
// the seeding model produced a question without ground truth.
type QAPair struct {
	Question string
	Answer   string
}

// Pool is an ordered set of QA pairs plus a cursor. It is not safe for
// concurrent use; the session owning it serializes access.
type Pool struct {
	pairs  []QAPair
	cursor int
}

// New builds a pool positioned on the first pair.
func New(pairs []QAPair) *Pool {
	return &Pool{pairs: pairs}
}

// Current returns the pair under the cursor, or false when the pool is
// exhausted (or was empty to begin with).
func (p *Pool) Current() (QAPair, bool) {
	if p.cursor >= len(p.pairs) {
		return QAPair{}, false
	}
	return p.pairs[p.cursor], true
}

// Advance moves the cursor forward one pair and returns the new position.
// Advancing an exhausted pool is a no-op, so repeated calls are safe.
func (p *Pool) Advance() int {
	if p.cursor < len(p.pairs) {
		p.cursor++
	}
	return p.cursor
}

// Exhausted reports whether every pair has been worked through.
func (p *Pool) Exhausted() bool {
	return p.cursor >= len(p.pairs)
}

// Remaining counts the pairs at or after the cursor.
func (p *Pool) Remaining() int {
	return len(p.pairs) - p.cursor
}

// Len is the total pool size, independent of the cursor.
func (p *Pool) Len() int {
	return len(p.pairs)
}

// Position is the zero-based cursor, useful for progress display. It equals
// Len once the pool is exhausted.
func (p *Pool) Position() int {
	return p.cursor
}
