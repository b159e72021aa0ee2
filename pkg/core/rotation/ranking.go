package rotation

import (
	"sort"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

// Candidate is a volunteer annotated with the facts used to rank them
type Candidate struct {
	Volunteer  model.Volunteer
	Cadence    model.Cadence
	Eligible   bool
	EligibleOn model.Date
	LastTouch  model.Date
}

// NeverTouched reports whether the volunteer has no invite, confirm or decline history
func (c Candidate) NeverTouched() bool {
	return c.LastTouch.IsZero()
}

// RankOptions filters the pool before ranking
type RankOptions struct {
	// ExcludeIDs are volunteers to leave out, usually those already on the week
	ExcludeIDs map[string]bool

	// OnlyActive drops inactive volunteers
	OnlyActive bool
}

// Rank orders volunteers by who should be invited next for the meeting on ref.
//
// Ordering, applied until a rule separates two candidates:
//  1. Weekly cadence first
//  2. Eligible now before still in cooldown
//  3. Never touched before touched
//  4. Oldest last touch first
//  5. Oldest last confirmation first
//  6. Name
func (p Policy) Rank(volunteers []model.Volunteer, ref model.Date, opts RankOptions) []Candidate {
	candidates := make([]Candidate, 0, len(volunteers))
	for _, v := range volunteers {
		if opts.OnlyActive && !v.Active {
			continue
		}
		if opts.ExcludeIDs[v.ID] {
			continue
		}
		candidates = append(candidates, Candidate{
			Volunteer:  v,
			Cadence:    p.ResolveCadence(v),
			Eligible:   p.IsEligible(v, ref),
			EligibleOn: p.EligibleOn(v, ref),
			LastTouch:  LastTouch(v),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return lessCandidate(candidates[i], candidates[j])
	})

	return candidates
}

func lessCandidate(a, b Candidate) bool {
	aWeekly := a.Cadence == model.CadenceWeekly
	bWeekly := b.Cadence == model.CadenceWeekly
	if aWeekly != bWeekly {
		return aWeekly
	}

	if a.Eligible != b.Eligible {
		return a.Eligible
	}

	if a.NeverTouched() != b.NeverTouched() {
		return a.NeverTouched()
	}

	if a.LastTouch != b.LastTouch {
		return a.LastTouch < b.LastTouch
	}

	aConfirmed := a.Volunteer.LastConfirmedDate
	bConfirmed := b.Volunteer.LastConfirmedDate
	if aConfirmed != bConfirmed {
		return aConfirmed < bConfirmed
	}

	return a.Volunteer.Name < b.Volunteer.Name
}

// PickReplacement chooses one volunteer to backfill a week: the first eligible
// candidate, or the top-ranked one if nobody is eligible. Returns false when the
// pool is empty.
func PickReplacement(candidates []Candidate) (model.Volunteer, bool) {
	for _, c := range candidates {
		if c.Eligible {
			return c.Volunteer, true
		}
	}
	if len(candidates) > 0 {
		return candidates[0].Volunteer, true
	}
	return model.Volunteer{}, false
}
