package practice

// AttemptCap is the display bucket for retry counts: a question answered
// correctly at this many attempts or more is tallied under the cap. Raw
// attempt counts are kept exact internally; bucketing happens only here,
// at report time.
const AttemptCap = 5

func bucket(attempts int) int {
	if attempts > AttemptCap {
		return AttemptCap
	}
	return attempts
}

// Report summarizes a finished practice session. Only questions resolved
// before termination (correct, skipped or revealed) are counted.
type Report struct {
	SessionID        string
	PoolSize         int
	Presented        int
	CorrectByAttempt map[int]int // attempt bucket (1..AttemptCap) -> count; AttemptCap means "AttemptCap or more"
	Skipped          int
	Revealed         int
	Modules          map[string]ModuleBreakdown
}

// Correct is the total number of correctly answered questions across all
// attempt buckets.
func (r *Report) Correct() int {
	total := 0
	for _, n := range r.CorrectByAttempt {
		total += n
	}
	return total
}

// ModuleBreakdown splits the outcome counts by source module.
type ModuleBreakdown struct {
	Presented       int
	CorrectFirstTry int
	CorrectRetried  int
	Skipped         int
	Revealed        int
}
