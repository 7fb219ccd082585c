package awsx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"

	"github.com/costforge/costforge/pkg/inspector"
)

// staticRates are the fallback monthly USD figures per resource category,
// sized for the small dev footprint the budget heuristic assumes
// (t3.micro-class instance, db.t3.micro, light S3/Lambda usage, one ALB).
var staticRates = map[string]float64{
	inspector.CategoryEC2:    8.0,
	inspector.CategoryRDS:    15.0,
	inspector.CategoryS3:     3.0,
	inspector.CategoryLambda: 2.0,
	inspector.CategoryELB:    18.0,
}

// PricingAPI is the slice of the Pricing client the rate provider uses.
type PricingAPI interface {
	GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error)
}

type rateRecord struct {
	Rate      float64 `json:"rate"`
	Timestamp int64   `json:"timestamp"`
}

// Rates provides indicative monthly costs for the five categories. The
// static table always answers; the Pricing API refines the EC2 and RDS
// rows when reachable, with a JSON file cache so repeated audits do not
// requery. Every live failure falls open to the static figure.
type Rates struct {
	logger    *slog.Logger
	svc       PricingAPI
	region    string
	cache     map[string]rateRecord
	cachePath string
	ttl       time.Duration
}

// NewRates initializes the rate provider. The Pricing API only answers in
// us-east-1 regardless of the audited region, so a dedicated config is
// loaded for it. cacheDir defaults to the user cache directory.
func NewRates(ctx context.Context, logger *slog.Logger, region, cacheDir string) (*Rates, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			cacheDir = filepath.Join(dir, "costforge")
		} else {
			cacheDir = os.TempDir()
		}
	}
	os.MkdirAll(cacheDir, 0755)

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-east-1"))
	if err != nil {
		return nil, err
	}

	r := &Rates{
		logger:    logger,
		svc:       pricing.NewFromConfig(cfg),
		region:    region,
		cache:     make(map[string]rateRecord),
		cachePath: filepath.Join(cacheDir, "rates.json"),
		ttl:       15 * 24 * time.Hour,
	}
	r.loadCache()
	return r, nil
}

func (r *Rates) loadCache() {
	data, err := os.ReadFile(r.cachePath)
	if err == nil {
		json.Unmarshal(data, &r.cache)
	}
}

func (r *Rates) saveCache() {
	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err == nil {
		os.WriteFile(r.cachePath, data, 0644)
	}
}

// Monthly returns the per-category monthly USD rates. Starts from the
// static table and overlays live EC2/RDS rates where the Pricing API
// answers; the other categories are usage-priced and keep the static
// indicative figure.
func (r *Rates) Monthly(ctx context.Context) map[string]float64 {
	rates := make(map[string]float64, len(staticRates))
	for category, rate := range staticRates {
		rates[category] = rate
	}
	if r == nil || r.svc == nil {
		return rates
	}

	if rate, err := r.instanceRate(ctx, "AmazonEC2", "Compute Instance", "t3.micro"); err == nil {
		rates[inspector.CategoryEC2] = rate
	} else {
		r.logger.Debug("Live EC2 rate unavailable, using static", "error", err)
	}
	if rate, err := r.instanceRate(ctx, "AmazonRDS", "Database Instance", "db.t3.micro"); err == nil {
		rates[inspector.CategoryRDS] = rate
	} else {
		r.logger.Debug("Live RDS rate unavailable, using static", "error", err)
	}
	return rates
}

// instanceRate resolves an hourly on-demand rate and converts it to a
// monthly figure (730h). Cached per region and instance type.
func (r *Rates) instanceRate(ctx context.Context, serviceCode, productFamily, instanceType string) (float64, error) {
	cacheKey := fmt.Sprintf("%s-%s-%s", serviceCode, r.region, instanceType)
	if record, ok := r.cache[cacheKey]; ok && time.Since(time.Unix(record.Timestamp, 0)) < r.ttl {
		return record.Rate * 730, nil
	}

	filters := []types.Filter{
		{Type: types.FilterTypeTermMatch, Field: aws.String("serviceCode"), Value: aws.String(serviceCode)},
		{Type: types.FilterTypeTermMatch, Field: aws.String("productFamily"), Value: aws.String(productFamily)},
		{Type: types.FilterTypeTermMatch, Field: aws.String("regionCode"), Value: aws.String(r.region)},
		{Type: types.FilterTypeTermMatch, Field: aws.String("instanceType"), Value: aws.String(instanceType)},
	}
	out, err := r.svc.GetProducts(ctx, &pricing.GetProductsInput{
		ServiceCode: aws.String(serviceCode),
		Filters:     filters,
		MaxResults:  aws.Int32(1),
	})
	if err != nil {
		return 0, err
	}
	if len(out.PriceList) == 0 {
		return 0, fmt.Errorf("no pricing found for %s %s in %s", serviceCode, instanceType, r.region)
	}

	rate, err := parseHourlyRate(out.PriceList[0])
	if err != nil {
		return 0, err
	}

	r.cache[cacheKey] = rateRecord{Rate: rate, Timestamp: time.Now().Unix()}
	r.saveCache()
	return rate * 730, nil
}

func parseHourlyRate(jsonStr string) (float64, error) {
	type priceDimension struct {
		PricePerUnit map[string]string `json:"pricePerUnit"`
	}
	type term struct {
		PriceDimensions map[string]priceDimension `json:"priceDimensions"`
	}
	type product struct {
		Terms map[string]map[string]term `json:"terms"` // OnDemand -> SKU -> term
	}

	var p product
	if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
		return 0, err
	}

	if onDemand, ok := p.Terms["OnDemand"]; ok {
		for _, t := range onDemand {
			for _, dim := range t.PriceDimensions {
				if valStr, ok := dim.PricePerUnit["USD"]; ok {
					if val, err := strconv.ParseFloat(valStr, 64); err == nil {
						return val, nil
					}
				}
			}
		}
	}
	return 0, fmt.Errorf("price not found in JSON")
}

// StaticRates returns a copy of the fallback table, for offline rendering.
func StaticRates() map[string]float64 {
	rates := make(map[string]float64, len(staticRates))
	for category, rate := range staticRates {
		rates[category] = rate
	}
	return rates
}
