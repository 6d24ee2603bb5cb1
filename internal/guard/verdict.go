package guard

// Verdict is the outcome of a single checker or of the whole pipeline.
// Values form a lattice ordered Allow < Warn < Block; aggregation across
// checkers takes the maximum.
type Verdict int

const (
	// VerdictAllow lets the tool call proceed unchanged.
	VerdictAllow Verdict = iota
	// VerdictWarn lets the tool call proceed but surfaces a notice.
	VerdictWarn
	// VerdictBlock stops the tool call before it executes.
	VerdictBlock
)

// String returns the string representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictAllow:
		return "allow"
	case VerdictWarn:
		return "warn"
	case VerdictBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Exceeds reports whether v is strictly higher than other on the lattice.
func (v Verdict) Exceeds(other Verdict) bool {
	return v > other
}
