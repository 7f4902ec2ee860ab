package pipeline

import (
	"sort"

	"github.com/Veraticus/six-degrees/internal/model"
)

// Merge folds thread results, in the order given, into a single bundle.
// People and companies collide by key with first-seen-wins semantics;
// expertise deduplicates by full-record equality; interactions, summaries,
// and processed ids concatenate. The final people, company, and expertise
// lists are stably sorted by descending confidence.
func Merge(results []*model.ThreadResult) *model.ProcessedBundle {
	bundle := &model.ProcessedBundle{
		People:       []model.PersonCandidate{},
		Companies:    []model.CompanyCandidate{},
		Interactions: []model.InteractionRecord{},
		Expertise:    []model.ExpertiseInstance{},
		ProcessedIDs: []string{},
	}

	seenPeople := make(map[string]struct{})
	seenCompanies := make(map[string]struct{})
	seenExpertise := make(map[model.ExpertiseInstance]struct{})

	for _, result := range results {
		if result == nil {
			continue
		}

		for _, person := range result.People {
			key := person.Key()
			if _, ok := seenPeople[key]; ok {
				continue
			}
			seenPeople[key] = struct{}{}
			bundle.People = append(bundle.People, person)
		}

		for _, company := range result.Companies {
			key := company.Key()
			if _, ok := seenCompanies[key]; ok {
				continue
			}
			seenCompanies[key] = struct{}{}
			bundle.Companies = append(bundle.Companies, company)
		}

		for _, inst := range result.Expertise {
			if _, ok := seenExpertise[inst]; ok {
				continue
			}
			seenExpertise[inst] = struct{}{}
			bundle.Expertise = append(bundle.Expertise, inst)
		}

		bundle.Interactions = append(bundle.Interactions, result.Interactions...)
		bundle.ProcessedIDs = append(bundle.ProcessedIDs, result.ProcessedIDs...)
		if result.Summary != nil {
			bundle.Summaries = append(bundle.Summaries, *result.Summary)
		}
	}

	sort.SliceStable(bundle.People, func(i, j int) bool {
		return bundle.People[i].Confidence > bundle.People[j].Confidence
	})
	sort.SliceStable(bundle.Companies, func(i, j int) bool {
		return bundle.Companies[i].Confidence > bundle.Companies[j].Confidence
	})
	sort.SliceStable(bundle.Expertise, func(i, j int) bool {
		return bundle.Expertise[i].Confidence > bundle.Expertise[j].Confidence
	})

	return bundle
}
