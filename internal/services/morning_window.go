package services

// MorningWindow is the inclusive minutes-since-midnight interval that scopes
// the early-bird ranking.
type MorningWindow struct {
	StartMin int
	EndMin   int
}

// DefaultMorningWindow covers 06:30-08:30
var DefaultMorningWindow = MorningWindow{StartMin: 390, EndMin: 510}

// Contains reports whether totalMinutes falls inside the window, both bounds
// inclusive.
func (w MorningWindow) Contains(totalMinutes int) bool {
	return totalMinutes >= w.StartMin && totalMinutes <= w.EndMin
}

// LatenessMode names which of the two upstream lateness semantics produced a
// record's IsLate flag. The stats endpoint ships its own abnormal flag; the
// ranking path recomputes against a clock threshold. The two disagree for
// genuine upstream reasons and are never unified: a normalizer declares its
// own IsLate and downstream never recomputes it outside the ranking view.
type LatenessMode int

const (
	// LatenessFromUpstream copies the upstream late/abnormal flag
	LatenessFromUpstream LatenessMode = iota
	// LatenessRecomputed derives lateness from the daily first punch
	// against a minutes threshold
	LatenessRecomputed
)

// IsLateAt is the recomputed policy: a punch strictly after the threshold
// counts as late.
func IsLateAt(totalMinutes, thresholdMin int) bool {
	return totalMinutes > thresholdMin
}
