package store

import (
	"sort"

	"github.com/alexanderramin/shiftboard/internal/domain"
)

// rebuildIndexes repopulates every index and distinct list from s.records
// in a single pass. Fresh maps are allocated so earlier snapshots keep
// their own consistent indexes.
func (s *Snapshot) rebuildIndexes() {
	s.byID = make(map[string]domain.ScheduleRecord, len(s.records))
	s.byDate = make(map[string][]string)
	s.byWorkerDate = make(map[pairKey][]string)
	s.byProcessDate = make(map[pairKey][]string)

	workers := make(map[string]struct{})
	processes := make(map[string]struct{})

	for _, r := range s.records {
		s.byID[r.ID] = r
		s.byDate[r.Date] = append(s.byDate[r.Date], r.ID)

		wd := pairKey{r.Worker, r.Date}
		s.byWorkerDate[wd] = append(s.byWorkerDate[wd], r.ID)

		pd := pairKey{r.Process, r.Date}
		s.byProcessDate[pd] = append(s.byProcessDate[pd], r.ID)

		workers[r.Worker] = struct{}{}
		processes[r.Process] = struct{}{}
	}

	s.workers = sortedKeys(workers)
	s.processes = sortedKeys(processes)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
