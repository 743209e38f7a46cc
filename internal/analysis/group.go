package analysis

// similarityGroups greedily clusters laps: each lap joins the first group
// whose anchor lap (the first lap seen for that group) is within the
// similarity tolerance in both distance and elapsed time, otherwise it
// starts a new group. First-seen anchoring makes grouping order-sensitive
// but deterministic for a fixed input order.
//
// The returned assignment holds, for each lap in input order, the index of
// the group it joined.
func (a *Analyzer) similarityGroups(laps []Lap) (groups [][]Lap, assignment []int) {
	assignment = make([]int, len(laps))
	for i, lap := range laps {
		placed := false
		for gi, group := range groups {
			anchor := group[0]
			if withinPct(lap.Distance, anchor.Distance, a.cfg.SimilarityTolerance) &&
				withinPct(lap.ElapsedTime, anchor.ElapsedTime, a.cfg.SimilarityTolerance) {
				groups[gi] = append(groups[gi], lap)
				assignment[i] = gi
				placed = true
				break
			}
		}
		if !placed {
			assignment[i] = len(groups)
			groups = append(groups, []Lap{lap})
		}
	}
	return groups, assignment
}
