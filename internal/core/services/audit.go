package services

import (
	"sort"
	"strings"

	"github.com/praxis-labs/irrigo/internal/core/domain"
	"github.com/praxis-labs/irrigo/internal/logger"
)

// auditChunkUsage is the post-assembly cardinality audit. It compares
// each chunk's actual task count against the count of tasks that
// should route there according to their own chunk ids (re-parsed, not
// trusted), and logs usage statistics. Mismatches are logged, never
// raised: by this point the plan has already passed every fatal check,
// and the audit exists to surface surprising-but-valid distributions.
func (s *Synchronizer) auditChunkUsage(plan *domain.ExecutionPlan) {
	actual := make(map[string]int)
	expected := make(map[string]int)
	for _, task := range plan.Tasks() {
		actual[task.ChunkID()]++
		expected[task.PolicyArea()+"-"+task.Dimension()]++
	}

	var mismatched []string
	for chunkID, want := range expected {
		if got := actual[chunkID]; got != want {
			mismatched = append(mismatched, chunkID)
			logger.Warn("cardinality audit: chunk %s has %d task(s) but %d question(s) route there", chunkID, actual[chunkID], want)
		}
	}
	for chunkID := range actual {
		if _, ok := expected[chunkID]; !ok {
			mismatched = append(mismatched, chunkID)
			logger.Warn("cardinality audit: chunk %s has %d task(s) but no question routes there", chunkID, actual[chunkID])
		}
	}
	if len(mismatched) > 0 {
		sort.Strings(mismatched)
		s.metrics.WarningEmitted("cardinality_mismatch")
		logger.Warn("cardinality audit: %d mismatched chunk(s): %s", len(mismatched), strings.Join(mismatched, ", "))
	}

	mean, median, min, max := usageStats(actual)
	logger.Info("chunk usage: %d chunk(s) used, tasks per chunk mean %.2f, median %.1f, min %d, max %d",
		len(actual), mean, median, min, max)
}

// usageStats computes aggregate tasks-per-chunk statistics over the
// chunks that received at least one task.
func usageStats(counts map[string]int) (mean, median float64, min, max int) {
	if len(counts) == 0 {
		return 0, 0, 0, 0
	}
	values := make([]int, 0, len(counts))
	total := 0
	for _, n := range counts {
		values = append(values, n)
		total += n
	}
	sort.Ints(values)

	min = values[0]
	max = values[len(values)-1]
	mean = float64(total) / float64(len(values))
	mid := len(values) / 2
	if len(values)%2 == 0 {
		median = float64(values[mid-1]+values[mid]) / 2
	} else {
		median = float64(values[mid])
	}
	return mean, median, min, max
}
