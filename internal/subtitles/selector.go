package subtitles

import "strings"

// Select applies the download selection policy to a sequence of search
// results. It is a pure function: no side effects, deterministic for a
// given input.
//
// Candidates are filtered to the requested languages; an empty request
// list accepts every language present in the results. In all mode every
// filtered candidate is returned, grouped by language with input order
// preserved. Otherwise each language yields exactly one candidate: the
// maximum-score one, with ties broken by earliest input position.
//
// Group order follows the requested-language order when one is given,
// else the order languages first appear in the candidate sequence. An
// empty result is not an error; the pipeline reports it per file.
func Select(candidates []Candidate, requested []string, allMode bool) Selection {
	accept := make(map[string]bool, len(requested))
	var order []string
	for _, lang := range requested {
		lang = normalizeLang(lang)
		if lang == "" || accept[lang] {
			continue
		}
		accept[lang] = true
		order = append(order, lang)
	}
	passThrough := len(accept) == 0

	byLanguage := make(map[string][]Candidate)
	for _, candidate := range candidates {
		lang := normalizeLang(candidate.Language)
		if lang == "" {
			continue
		}
		if !passThrough && !accept[lang] {
			continue
		}
		if _, seen := byLanguage[lang]; !seen && passThrough {
			order = append(order, lang)
		}
		byLanguage[lang] = append(byLanguage[lang], candidate)
	}

	selection := Selection{}
	for _, lang := range order {
		matches := byLanguage[lang]
		if len(matches) == 0 {
			continue
		}
		group := Group{Language: lang}
		if allMode {
			group.Candidates = append(group.Candidates, matches...)
		} else {
			group.Candidates = []Candidate{bestOf(matches)}
		}
		selection.Groups = append(selection.Groups, group)
	}
	return selection
}

// bestOf returns the highest-scored candidate; the earliest wins ties.
func bestOf(matches []Candidate) Candidate {
	best := matches[0]
	for _, candidate := range matches[1:] {
		if candidate.Score > best.Score {
			best = candidate
		}
	}
	return best
}

func normalizeLang(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}
