package awsx

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
)

// CostExplorerAPI is the slice of the Cost Explorer client the audit uses.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// nowFunc is swapped in tests to pin the billing window.
var nowFunc = time.Now

// MonthToDateSpend returns the unblended spend from the first of the
// current month through today, in USD. Cost Explorer rejects a zero-width
// window, so on the first of the month the window covers that single day.
func MonthToDateSpend(ctx context.Context, ce CostExplorerAPI) (float64, error) {
	now := nowFunc().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := now
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}

	out, err := ce.GetCostAndUsage(ctx, &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: types.GranularityMonthly,
		Metrics:     []string{"UnblendedCost"},
	})
	if err != nil {
		return 0, fmt.Errorf("cost explorer query failed: %w", err)
	}

	var total float64
	for _, result := range out.ResultsByTime {
		metric, ok := result.Total["UnblendedCost"]
		if !ok || metric.Amount == nil {
			continue
		}
		amount, err := strconv.ParseFloat(*metric.Amount, 64)
		if err != nil {
			return 0, fmt.Errorf("unparseable cost amount %q: %w", *metric.Amount, err)
		}
		total += amount
	}
	return total, nil
}
