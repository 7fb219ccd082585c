package inspector

// Budget heuristic weights, in USD/month. The baseline covers a small dev
// footprint; the bumps account for the resource classes that dominate a
// starter AWS bill.
const (
	budgetBase       = 100
	budgetBumpMany   = 100
	budgetBumpRDS    = 50
	budgetBumpELB    = 30
	manyMentionCount = 10
)

// EstimateBudget computes the default monthly budget from the mention
// list. Pure function of its input: same mentions, same result. The count
// bump uses the raw list length, duplicates included.
func EstimateBudget(mentions []Mention) int {
	budget := budgetBase
	if len(mentions) > manyMentionCount {
		budget += budgetBumpMany
	}
	if hasCategory(mentions, CategoryRDS) {
		budget += budgetBumpRDS
	}
	if hasCategory(mentions, CategoryELB) {
		budget += budgetBumpELB
	}
	return budget
}

func hasCategory(mentions []Mention, category string) bool {
	for _, m := range mentions {
		if m.Category == category {
			return true
		}
	}
	return false
}
