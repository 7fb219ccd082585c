package inspector

import "testing"

func TestEstimateBudgetEmpty(t *testing.T) {
	if got := EstimateBudget(nil); got != 100 {
		t.Errorf("Expected 100 for empty mention list, got %d", got)
	}
}

func TestEstimateBudget(t *testing.T) {
	repeat := func(category string, n int) []Mention {
		out := make([]Mention, n)
		for i := range out {
			out[i] = Mention{Category: category, File: "src/app.ts"}
		}
		return out
	}

	cases := []struct {
		name     string
		mentions []Mention
		want     int
	}{
		{"single s3", repeat(CategoryS3, 1), 100},
		{"exactly ten mentions no bump", repeat(CategoryLambda, 10), 100},
		{"eleven mentions bump", repeat(CategoryLambda, 11), 200},
		{"rds only", repeat(CategoryRDS, 1), 150},
		{"elb only", repeat(CategoryELB, 1), 130},
		{"rds and elb", append(repeat(CategoryRDS, 1), repeat(CategoryELB, 1)...), 180},
		{"duplicate rds counted once", repeat(CategoryRDS, 3), 150},
		{
			// 12 mentions including one RDS and one load balancer.
			"full house",
			append(append(repeat(CategoryEC2, 10), Mention{Category: CategoryRDS, File: "src/db.ts"}),
				Mention{Category: CategoryELB, File: "src/lb.ts"}),
			280,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EstimateBudget(tc.mentions); got != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, got)
			}
		})
	}
}

// Adding any mention must never lower the estimate.
func TestEstimateBudgetMonotonic(t *testing.T) {
	var mentions []Mention
	prev := EstimateBudget(mentions)

	additions := []string{
		CategoryS3, CategoryEC2, CategoryRDS, CategoryELB,
		CategoryLambda, CategoryLambda, CategoryLambda, CategoryLambda,
		CategoryLambda, CategoryLambda, CategoryLambda, CategoryLambda,
	}
	for _, category := range additions {
		mentions = append(mentions, Mention{Category: category, File: "src/app.ts"})
		got := EstimateBudget(mentions)
		if got < prev {
			t.Fatalf("budget decreased from %d to %d after adding %s", prev, got, category)
		}
		prev = got
	}
}
