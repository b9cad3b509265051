package fees

import (
	"github.com/shopspring/decimal"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/money"
)

// Bucket is one gateway fee entry: percentage of the grand total plus a
// fixed per-transaction fee.
type Bucket struct {
	Pct   decimal.Decimal
	Fixed decimal.Decimal
}

// Result is the full fee breakdown stamped onto the order at payment
// confirmation. Once stamped it is immutable.
type Result struct {
	CardClass          string
	GatewayPct         decimal.Decimal
	GatewayFixedFee    decimal.Decimal
	GatewayFeeTotal    decimal.Decimal
	PlatformFeePct     decimal.Decimal
	PlatformFeeAmount  decimal.Decimal
	NetAmountAfterFees decimal.Decimal
}

// Calculator resolves a card class to its bucket and computes the fees.
type Calculator struct {
	classifier     *Classifier
	buckets        map[string]Bucket
	platformFeePct decimal.Decimal
}

func NewCalculator(classifier *Classifier, buckets map[string]Bucket, platformFeePct decimal.Decimal) *Calculator {
	return &Calculator{classifier: classifier, buckets: buckets, platformFeePct: platformFeePct}
}

// Calculate computes the gateway and platform fees for a confirmed payment.
// An unknown or missing card class degrades to the default bucket.
func (c *Calculator) Calculate(grandTotal decimal.Decimal, payMethod, scheme, issuerCountry string) Result {
	class := c.classifier.Classify(payMethod, scheme, issuerCountry)
	bucket, ok := c.buckets[class]
	if !ok {
		class = constant.CardDefault
		bucket = c.buckets[constant.CardDefault]
	}

	gatewayFee := money.Round2(grandTotal.Mul(bucket.Pct).Div(decimal.NewFromInt(100)).Add(bucket.Fixed))
	platformFee := money.Percent(grandTotal, c.platformFeePct)

	return Result{
		CardClass:          class,
		GatewayPct:         bucket.Pct,
		GatewayFixedFee:    bucket.Fixed,
		GatewayFeeTotal:    gatewayFee,
		PlatformFeePct:     c.platformFeePct,
		PlatformFeeAmount:  platformFee,
		NetAmountAfterFees: grandTotal.Sub(gatewayFee).Sub(platformFee),
	}
}
