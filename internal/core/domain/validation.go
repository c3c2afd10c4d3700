package domain

// Submission is the raw acta bundle as keyed in by an operator. Vote
// maps are keyed by official list name and translated to catalog IDs
// during validation.
type Submission struct {
	TableNumber       int            `json:"table_number"`
	ElectorsVoted     int            `json:"electors_voted"`
	EnvelopesReceived int            `json:"envelopes_received"`
	LocalVotes        map[string]int `json:"local_votes"`
	ProvincialVotes   map[string]int `json:"provincial_votes"`
	BlankVotes        int            `json:"blank_votes"`
	ChallengedVotes   int            `json:"challenged_votes"`
	DeferredVotes     int            `json:"deferred_votes"`
	Notes             string         `json:"notes,omitempty"`
}

type ErrorKind string

const (
	ErrKindTableNotFound                 ErrorKind = "TABLE_NOT_FOUND"
	ErrKindInvalidCount                  ErrorKind = "INVALID_COUNT"
	ErrKindEnvelopesExceedVoters         ErrorKind = "ENVELOPES_EXCEED_VOTERS"
	ErrKindUnknownOrIneligibleList       ErrorKind = "UNKNOWN_OR_INELIGIBLE_LIST"
	ErrKindLocalVotesExceedEnvelopes     ErrorKind = "LOCAL_VOTES_EXCEED_ENVELOPES"
	ErrKindProvincialVotesExceedEnvelope ErrorKind = "PROVINCIAL_VOTES_EXCEED_ENVELOPES"
)

type WarningKind string

const (
	WarnLowParticipation  WarningKind = "LOW_PARTICIPATION"
	WarnParticipationSkew WarningKind = "PARTICIPATION_SKEW"
	WarnZeroCategoryVotes WarningKind = "ZERO_CATEGORY_VOTES"
)

// Outcome is the full result of validating one submission. Every
// violated rule is collected so the operator can fix the form in a
// single pass; warnings never block the commit.
type Outcome struct {
	Errors   []ErrorKind   `json:"errors"`
	Warnings []WarningKind `json:"warnings"`
}

func (o Outcome) OK() bool {
	return len(o.Errors) == 0
}

func (o *Outcome) addError(k ErrorKind) {
	for _, e := range o.Errors {
		if e == k {
			return
		}
	}
	o.Errors = append(o.Errors, k)
}

func (o *Outcome) addWarning(k WarningKind) {
	o.Warnings = append(o.Warnings, k)
}

// Rules holds the soft-check thresholds. The warning thresholds are
// configuration, not law: crossing them flags the acta for review but
// never rejects it.
type Rules struct {
	// ParticipationWarnRatio is the minimum
	// max(local, provincial) / envelopes ratio before a
	// LowParticipation warning fires.
	ParticipationWarnRatio float64
	// SkewWarnPoints is the local-vs-provincial participation gap, in
	// percentage points, before a ParticipationSkew warning fires.
	SkewWarnPoints float64
}

func DefaultRules() Rules {
	return Rules{
		ParticipationWarnRatio: 0.70,
		SkewWarnPoints:         15,
	}
}

// Validate runs every arithmetic and catalog check against a
// submission. tableExists reflects the registry lookup done by the
// caller; everything else is derived from the submission and catalog.
// Checks are not short-circuited: the outcome carries the complete
// error list.
func Validate(sub Submission, tableExists bool, cat Catalog, rules Rules) Outcome {
	var out Outcome

	if !tableExists {
		out.addError(ErrKindTableNotFound)
	}

	for _, n := range []int{
		sub.ElectorsVoted, sub.EnvelopesReceived,
		sub.BlankVotes, sub.ChallengedVotes, sub.DeferredVotes,
	} {
		if n < 0 {
			out.addError(ErrKindInvalidCount)
		}
	}
	for _, votes := range []map[string]int{sub.LocalVotes, sub.ProvincialVotes} {
		for _, n := range votes {
			if n < 0 {
				out.addError(ErrKindInvalidCount)
			}
		}
	}

	if sub.EnvelopesReceived > sub.ElectorsVoted {
		out.addError(ErrKindEnvelopesExceedVoters)
	}

	for name := range sub.LocalVotes {
		if _, ok := cat.Resolve(CategoryLocal, name); !ok {
			out.addError(ErrKindUnknownOrIneligibleList)
		}
	}
	for name := range sub.ProvincialVotes {
		if _, ok := cat.Resolve(CategoryProvincial, name); !ok {
			out.addError(ErrKindUnknownOrIneligibleList)
		}
	}

	localTotal := sumVotes(sub.LocalVotes)
	provincialTotal := sumVotes(sub.ProvincialVotes)

	if localTotal > sub.EnvelopesReceived {
		out.addError(ErrKindLocalVotesExceedEnvelopes)
	}
	if provincialTotal > sub.EnvelopesReceived {
		out.addError(ErrKindProvincialVotesExceedEnvelope)
	}

	if localTotal == 0 {
		out.addWarning(WarnZeroCategoryVotes)
	}
	if provincialTotal == 0 {
		out.addWarning(WarnZeroCategoryVotes)
	}

	if sub.EnvelopesReceived > 0 {
		localRatio := float64(localTotal) / float64(sub.EnvelopesReceived)
		provincialRatio := float64(provincialTotal) / float64(sub.EnvelopesReceived)

		if max(localRatio, provincialRatio) < rules.ParticipationWarnRatio {
			out.addWarning(WarnLowParticipation)
		}
		if diff := (localRatio - provincialRatio) * 100; diff > rules.SkewWarnPoints || -diff > rules.SkewWarnPoints {
			out.addWarning(WarnParticipationSkew)
		}
	}

	return out
}

func sumVotes(votes map[string]int) int {
	total := 0
	for _, n := range votes {
		total += n
	}
	return total
}
