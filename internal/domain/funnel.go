package domain

import "sort"

// Шаги воронки в порядке прохождения
const (
	FunnelLanding          = "landing"
	FunnelStartedCalc      = "started_calc"
	FunnelCompletedCalc    = "completed_calc"
	FunnelDownloadedReport = "downloaded_report"
)

var funnelRanks = map[string]int{
	FunnelLanding:          1,
	FunnelStartedCalc:      2,
	FunnelCompletedCalc:    3,
	FunnelDownloadedReport: 4,
}

// FunnelRank возвращает позицию шага в воронке; неизвестные шаги идут последними
func FunnelRank(step string) int {
	if rank, ok := funnelRanks[step]; ok {
		return rank
	}
	return len(funnelRanks) + 1
}

// SortFunnel упорядочивает строки по позиции шага, неизвестные шаги по имени
func SortFunnel(stats []FunnelStat) {
	sort.SliceStable(stats, func(i, j int) bool {
		ri, rj := FunnelRank(stats[i].FunnelStep), FunnelRank(stats[j].FunnelStep)
		if ri != rj {
			return ri < rj
		}
		return stats[i].FunnelStep < stats[j].FunnelStep
	})
}
