package scoring

import (
	"github.com/returnguard/returnguard/internal/metrics"
)

// featureValues returns the request's model features keyed by the names the
// training pipeline uses. Identifiers are not features and are excluded.
func (r *ReturnRequest) featureValues() map[string]float64 {
	return map[string]float64{
		"user_age_days":             float64(*r.UserAgeDays),
		"num_orders":                float64(*r.NumOrders),
		"avg_order_value":           *r.AvgOrderValue,
		"device_count":              float64(*r.DeviceCount),
		"return_rate":               *r.ReturnRate,
		"recent_returns_30d":        float64(*r.RecentReturns30),
		"recent_returns_90d":        float64(*r.RecentReturns90),
		"recent_returns_365d":       float64(*r.RecentReturns365),
		"order_value":               *r.OrderValue,
		"item_count":                float64(*r.ItemCount),
		"product_risk_score":        *r.ProductRiskScore,
		"shipping_method_express":   float64(*r.ShippingMethodExpress),
		"billing_shipping_mismatch": float64(*r.BillingShippingMismatch),
		"days_to_return":            float64(*r.DaysToReturn),
		"return_reason_suspicious":  float64(*r.ReturnReasonSuspicious),
		"refund_type_cash":          float64(*r.RefundTypeCash),
		"refund_type_store_credit":  float64(*r.RefundTypeStoreCredit),
		"is_high_value":             float64(*r.IsHighValue),
		"email_domain_risk":         float64(*r.EmailDomainRisk),
		"hour_of_day":               float64(*r.HourOfDay),
		"is_weekend":                float64(*r.IsWeekend),
	}
}

// Vectorize maps a validated request into a fixed-order feature vector.
// Layout follows featureNames exactly, not the request's own field order.
//
// A name absent from the request contributes 0.0 — a silent default, never
// an error. The boundary schema is expected to supply every feature the
// model was trained on; the substitution only cushions metadata/schema
// drift, and each occurrence is counted so drift stays observable.
func Vectorize(req *ReturnRequest, featureNames []string) []float64 {
	values := req.featureValues()

	vector := make([]float64, len(featureNames))
	for i, name := range featureNames {
		if v, ok := values[name]; ok {
			vector[i] = v
			continue
		}
		vector[i] = 0.0
		metrics.FeatureDefaultsTotal.WithLabelValues(name).Inc()
	}
	return vector
}
