// Package cluster collapses near-duplicate phrases so the suggestion list
// stays diverse.
package cluster

import "strings"

// DefaultThreshold is the similarity a phrase must exceed to join a group.
const DefaultThreshold = 0.7

// Member is a scored phrase taking part in clustering
type Member struct {
	Phrase string
	Score  float64
}

// Similarity returns the Jaccard similarity of the word sets of a and b.
// Two phrases without words are identical.
func Similarity(a, b string) float64 {
	return jaccard(strings.Fields(a), strings.Fields(b))
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	aSet := make(map[string]struct{}, len(a))
	for _, s := range a {
		aSet[s] = struct{}{}
	}

	bSet := make(map[string]struct{}, len(b))
	for _, s := range b {
		bSet[s] = struct{}{}
	}

	intersection := 0
	for s := range aSet {
		if _, ok := bSet[s]; ok {
			intersection++
		}
	}

	union := len(aSet) + len(bSet) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// Group partitions phrases in one greedy pass. Each phrase not yet placed
// opens a group and pulls in every later unplaced phrase whose similarity to
// it is strictly above threshold. Groups hold indices into phrases, in input
// order.
//
// The pass is quadratic; callers should bound the input.
func Group(phrases []string, threshold float64) [][]int {
	words := make([][]string, len(phrases))
	for i, p := range phrases {
		words[i] = strings.Fields(p)
	}

	assigned := make([]bool, len(phrases))
	var groups [][]int
	for i := range phrases {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		group := []int{i}
		for j := i + 1; j < len(phrases); j++ {
			if assigned[j] {
				continue
			}
			if jaccard(words[i], words[j]) > threshold {
				assigned[j] = true
				group = append(group, j)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// Representatives groups members by phrase and returns, per group and in
// group order, the index of the highest-scoring member. Ties keep the
// earlier member.
func Representatives(members []Member, threshold float64) []int {
	phrases := make([]string, len(members))
	for i, m := range members {
		phrases[i] = m.Phrase
	}

	groups := Group(phrases, threshold)
	reps := make([]int, 0, len(groups))
	for _, g := range groups {
		best := g[0]
		for _, i := range g[1:] {
			if members[i].Score > members[best].Score {
				best = i
			}
		}
		reps = append(reps, best)
	}
	return reps
}
