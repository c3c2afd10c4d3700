package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCatalog() Catalog {
	return NewCatalog([]CandidateList{
		{ID: 1, Name: "FUERZA PATRIA", Category: CategoryLocal, Rank: 1, Active: true},
		{ID: 2, Name: "POTENCIA", Category: CategoryLocal, Rank: 2, Active: true},
		{ID: 3, Name: "PARTIDO VIEJO", Category: CategoryLocal, Rank: 3, Active: false},
		{ID: 4, Name: "FUERZA PATRIA", Category: CategoryProvincial, Rank: 1, Active: true},
		{ID: 5, Name: "POTENCIA", Category: CategoryProvincial, Rank: 2, Active: true},
	})
}

func validSubmission() Submission {
	return Submission{
		TableNumber:       1,
		ElectorsVoted:     200,
		EnvelopesReceived: 195,
		LocalVotes:        map[string]int{"FUERZA PATRIA": 100, "POTENCIA": 80},
		ProvincialVotes:   map[string]int{"FUERZA PATRIA": 90, "POTENCIA": 85},
	}
}

func TestValidateAccepts(t *testing.T) {
	out := Validate(validSubmission(), true, testCatalog(), DefaultRules())

	assert.True(t, out.OK())
	assert.Empty(t, out.Errors)
	assert.Empty(t, out.Warnings)
}

func TestValidateTableNotFound(t *testing.T) {
	out := Validate(validSubmission(), false, testCatalog(), DefaultRules())

	assert.False(t, out.OK())
	assert.Contains(t, out.Errors, ErrKindTableNotFound)
}

func TestValidateEnvelopesExceedVoters(t *testing.T) {
	sub := validSubmission()
	sub.ElectorsVoted = 200
	sub.EnvelopesReceived = 210

	out := Validate(sub, true, testCatalog(), DefaultRules())

	assert.False(t, out.OK())
	assert.Contains(t, out.Errors, ErrKindEnvelopesExceedVoters)
}

func TestValidateUnknownList(t *testing.T) {
	sub := validSubmission()
	sub.LocalVotes["UNKNOWN"] = 10

	out := Validate(sub, true, testCatalog(), DefaultRules())

	assert.False(t, out.OK())
	assert.Contains(t, out.Errors, ErrKindUnknownOrIneligibleList)
}

func TestValidateInactiveListRejected(t *testing.T) {
	sub := validSubmission()
	sub.LocalVotes["PARTIDO VIEJO"] = 5

	out := Validate(sub, true, testCatalog(), DefaultRules())

	assert.Contains(t, out.Errors, ErrKindUnknownOrIneligibleList)
}

func TestValidateIneligibleCategoryRejected(t *testing.T) {
	// IDEAR runs locally only; referencing it provincially must fail.
	cat := NewCatalog([]CandidateList{
		{ID: 1, Name: "IDEAR PERGAMINO", Category: CategoryLocal, Rank: 1, Active: true},
	})
	sub := Submission{
		TableNumber:       1,
		ElectorsVoted:     100,
		EnvelopesReceived: 100,
		LocalVotes:        map[string]int{"IDEAR PERGAMINO": 90},
		ProvincialVotes:   map[string]int{"IDEAR PERGAMINO": 90},
	}

	out := Validate(sub, true, cat, DefaultRules())

	assert.Contains(t, out.Errors, ErrKindUnknownOrIneligibleList)
}

func TestValidateCategorySumsAgainstEnvelopes(t *testing.T) {
	sub := validSubmission()
	sub.LocalVotes = map[string]int{"FUERZA PATRIA": 150, "POTENCIA": 100}
	sub.ProvincialVotes = map[string]int{"FUERZA PATRIA": 190, "POTENCIA": 50}

	out := Validate(sub, true, testCatalog(), DefaultRules())

	assert.Contains(t, out.Errors, ErrKindLocalVotesExceedEnvelopes)
	assert.Contains(t, out.Errors, ErrKindProvincialVotesExceedEnvelope)
}

func TestValidateNegativeCounts(t *testing.T) {
	sub := validSubmission()
	sub.BlankVotes = -1
	sub.LocalVotes["POTENCIA"] = -5

	out := Validate(sub, true, testCatalog(), DefaultRules())

	assert.False(t, out.OK())
	assert.Contains(t, out.Errors, ErrKindInvalidCount)
}

func TestValidateCollectsAllViolations(t *testing.T) {
	// Everything wrong at once: the operator must see the full list in
	// a single response, not the first failure.
	sub := Submission{
		TableNumber:       999,
		ElectorsVoted:     100,
		EnvelopesReceived: 150,
		LocalVotes:        map[string]int{"UNKNOWN": 200},
		ProvincialVotes:   map[string]int{"FUERZA PATRIA": 160},
		BlankVotes:        -3,
	}

	out := Validate(sub, false, testCatalog(), DefaultRules())

	assert.ElementsMatch(t, []ErrorKind{
		ErrKindTableNotFound,
		ErrKindInvalidCount,
		ErrKindEnvelopesExceedVoters,
		ErrKindUnknownOrIneligibleList,
		ErrKindLocalVotesExceedEnvelopes,
		ErrKindProvincialVotesExceedEnvelope,
	}, out.Errors)
}

func TestValidateErrorKindsDeduplicated(t *testing.T) {
	sub := validSubmission()
	sub.LocalVotes["UNKNOWN A"] = 1
	sub.LocalVotes["UNKNOWN B"] = 1

	out := Validate(sub, true, testCatalog(), DefaultRules())

	count := 0
	for _, e := range out.Errors {
		if e == ErrKindUnknownOrIneligibleList {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestValidateLowParticipationWarning(t *testing.T) {
	sub := validSubmission()
	sub.LocalVotes = map[string]int{"FUERZA PATRIA": 50, "POTENCIA": 40}
	sub.ProvincialVotes = map[string]int{"FUERZA PATRIA": 60, "POTENCIA": 50}
	// max ratio = 110/195 = 56.4% < 70%

	out := Validate(sub, true, testCatalog(), DefaultRules())

	assert.True(t, out.OK())
	assert.Contains(t, out.Warnings, WarnLowParticipation)
}

func TestValidateParticipationSkewWarning(t *testing.T) {
	// 190/195 = 97.4% local vs 150/195 = 76.9% provincial: 20.5pp gap.
	sub := validSubmission()
	sub.LocalVotes = map[string]int{"FUERZA PATRIA": 190}
	sub.ProvincialVotes = map[string]int{"FUERZA PATRIA": 150}

	out := Validate(sub, true, testCatalog(), DefaultRules())

	assert.True(t, out.OK())
	assert.Contains(t, out.Warnings, WarnParticipationSkew)
}

func TestValidateZeroCategoryVotesWarning(t *testing.T) {
	sub := validSubmission()
	sub.ProvincialVotes = map[string]int{}

	out := Validate(sub, true, testCatalog(), DefaultRules())

	assert.True(t, out.OK())
	assert.Contains(t, out.Warnings, WarnZeroCategoryVotes)
}

func TestValidateZeroEnvelopesNoDivisionFault(t *testing.T) {
	sub := Submission{
		TableNumber:       1,
		ElectorsVoted:     0,
		EnvelopesReceived: 0,
	}

	out := Validate(sub, true, testCatalog(), DefaultRules())

	assert.True(t, out.OK())
	// Both categories are empty; no ratio warnings possible.
	assert.NotContains(t, out.Warnings, WarnLowParticipation)
	assert.NotContains(t, out.Warnings, WarnParticipationSkew)
}

func TestValidateWarningsNeverBlock(t *testing.T) {
	sub := validSubmission()
	sub.LocalVotes = map[string]int{}
	sub.ProvincialVotes = map[string]int{}

	out := Validate(sub, true, testCatalog(), DefaultRules())

	assert.True(t, out.OK())
	assert.NotEmpty(t, out.Warnings)
}
