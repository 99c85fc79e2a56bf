package scoring

import (
	"github.com/returnguard/returnguard/internal/model"
)

// --- Shared test fixtures ---

// testFeatureNames matches the layout the training pipeline exports.
var testFeatureNames = []string{
	"user_age_days",
	"num_orders",
	"avg_order_value",
	"device_count",
	"return_rate",
	"recent_returns_30d",
	"recent_returns_90d",
	"recent_returns_365d",
	"order_value",
	"item_count",
	"product_risk_score",
	"shipping_method_express",
	"billing_shipping_mismatch",
	"days_to_return",
	"return_reason_suspicious",
	"refund_type_cash",
	"refund_type_store_credit",
	"is_high_value",
	"email_domain_risk",
	"hour_of_day",
	"is_weekend",
}

// testImportance is a parallel weight per feature name, all distinct so
// ranking assertions are unambiguous.
var testImportance = []float64{
	0.050, // user_age_days
	0.020, // num_orders
	0.030, // avg_order_value
	0.015, // device_count
	0.120, // return_rate
	0.080, // recent_returns_30d
	0.060, // recent_returns_90d
	0.040, // recent_returns_365d
	0.100, // order_value
	0.010, // item_count
	0.090, // product_risk_score
	0.005, // shipping_method_express
	0.110, // billing_shipping_mismatch
	0.025, // days_to_return
	0.095, // return_reason_suspicious
	0.035, // refund_type_cash
	0.008, // refund_type_store_credit
	0.070, // is_high_value
	0.085, // email_domain_risk
	0.012, // hour_of_day
	0.003, // is_weekend
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// baselineRequest returns a fully populated, benign-looking request.
func baselineRequest() *ReturnRequest {
	return &ReturnRequest{
		UserID:                  "user_123",
		OrderID:                 "order_456",
		UserAgeDays:             intPtr(365),
		NumOrders:               intPtr(20),
		AvgOrderValue:           floatPtr(75.0),
		DeviceCount:             intPtr(1),
		ReturnRate:              floatPtr(0.1),
		RecentReturns30:         intPtr(0),
		RecentReturns90:         intPtr(1),
		RecentReturns365:        intPtr(2),
		OrderValue:              floatPtr(50.0),
		ItemCount:               intPtr(1),
		ProductRiskScore:        floatPtr(0.2),
		ShippingMethodExpress:   intPtr(0),
		BillingShippingMismatch: intPtr(0),
		DaysToReturn:            intPtr(7),
		ReturnReasonSuspicious:  intPtr(0),
		RefundTypeCash:          intPtr(0),
		RefundTypeStoreCredit:   intPtr(1),
		IsHighValue:             intPtr(0),
		EmailDomainRisk:         intPtr(0),
		HourOfDay:               intPtr(14),
		IsWeekend:               intPtr(0),
	}
}

// highRiskRequest matches the documented high-risk pattern: new account,
// expensive order, mismatched addresses, suspicious reason, risky email.
func highRiskRequest() *ReturnRequest {
	req := baselineRequest()
	req.UserID = "user_999"
	req.OrderID = "order_999"
	req.UserAgeDays = intPtr(5)
	req.OrderValue = floatPtr(1000.0)
	req.BillingShippingMismatch = intPtr(1)
	req.ReturnReasonSuspicious = intPtr(1)
	req.EmailDomainRisk = intPtr(1)
	req.IsHighValue = intPtr(1)
	return req
}

// stubScorer is a fixed-score model for pipeline tests.
type stubScorer struct {
	score float64
	err   error
}

func (s *stubScorer) Predict(features []float64) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.score, nil
}

func (s *stubScorer) NumFeatures() int { return len(testFeatureNames) }
func (s *stubScorer) Type() string     { return "stub" }

func testMetadata() *model.Metadata {
	return &model.Metadata{
		ModelType:         "stub",
		Version:           "test",
		TrainingDate:      "2026-08-01T00:00:00Z",
		RandomSeed:        42,
		FeatureNames:      testFeatureNames,
		FeatureImportance: testImportance,
	}
}

// newTestService wires a service around a stub scorer at a fixed score.
func newTestService(score float64) *Service {
	artifact := model.NewArtifact(&stubScorer{score: score}, testMetadata())
	return NewService(artifact, NewPolicy(0.5), NewMemoryStore(), 5, nil)
}
