package awsx

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costforge/costforge/pkg/inspector"
)

const priceListFixture = `{
  "terms": {
    "OnDemand": {
      "SKU.ABC": {
        "priceDimensions": {
          "SKU.ABC.DIM": {"pricePerUnit": {"USD": "0.0104"}}
        }
      }
    }
  }
}`

type fakePricing struct {
	calls int
	err   error
}

func (f *fakePricing) GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &pricing.GetProductsOutput{PriceList: []string{priceListFixture}}, nil
}

func testRates(t *testing.T, svc PricingAPI) *Rates {
	t.Helper()
	return &Rates{
		logger:    slog.Default(),
		svc:       svc,
		region:    "us-east-1",
		cache:     make(map[string]rateRecord),
		cachePath: filepath.Join(t.TempDir(), "rates.json"),
		ttl:       time.Hour,
	}
}

func TestParseHourlyRate(t *testing.T) {
	rate, err := parseHourlyRate(priceListFixture)
	require.NoError(t, err)
	assert.InDelta(t, 0.0104, rate, 1e-9)
}

func TestParseHourlyRateMissing(t *testing.T) {
	_, err := parseHourlyRate(`{"terms": {}}`)
	assert.Error(t, err)
}

func TestMonthlyLiveOverlay(t *testing.T) {
	r := testRates(t, &fakePricing{})

	rates := r.Monthly(context.Background())
	// Live rate replaces the static EC2/RDS rows; the rest stay static.
	assert.InDelta(t, 0.0104*730, rates[inspector.CategoryEC2], 1e-6)
	assert.InDelta(t, 0.0104*730, rates[inspector.CategoryRDS], 1e-6)
	assert.Equal(t, staticRates[inspector.CategoryS3], rates[inspector.CategoryS3])
	assert.Equal(t, staticRates[inspector.CategoryELB], rates[inspector.CategoryELB])
}

func TestMonthlyFailsOpen(t *testing.T) {
	r := testRates(t, &fakePricing{err: errors.New("no route to host")})

	rates := r.Monthly(context.Background())
	assert.Equal(t, staticRates, rates)
}

func TestInstanceRateCached(t *testing.T) {
	svc := &fakePricing{}
	r := testRates(t, svc)

	first, err := r.instanceRate(context.Background(), "AmazonEC2", "Compute Instance", "t3.micro")
	require.NoError(t, err)
	second, err := r.instanceRate(context.Background(), "AmazonEC2", "Compute Instance", "t3.micro")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, svc.calls, "second lookup must hit the cache")
}

func TestStaticRatesCopy(t *testing.T) {
	rates := StaticRates()
	rates[inspector.CategoryEC2] = 0
	assert.NotZero(t, StaticRates()[inspector.CategoryEC2])
}
