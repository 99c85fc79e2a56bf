// Package scoring implements real-time fraud scoring for e-commerce return
// requests.
//
// Each request runs through a fixed pipeline: vectorization against the
// model's feature ordering, invocation of the loaded scorer, threshold-based
// flagging with a boundary-distance confidence, and a ranked explanation
// built from the model's global feature importances. The batch variant runs
// the same pipeline per record but skips the explanation for throughput.
package scoring

import (
	"context"
	"errors"
	"time"

	"github.com/returnguard/returnguard/internal/pagination"
)

// Closed set of scoring error kinds. Callers branch with errors.Is instead
// of matching message strings.
var (
	// ErrModelUnavailable means no scorer is loaded; the service is degraded.
	ErrModelUnavailable = errors.New("model not loaded")
	// ErrMetadataUnavailable means the scorer loaded but its metadata did
	// not, so there is no feature ordering to vectorize against.
	ErrMetadataUnavailable = errors.New("model metadata not loaded")
	// ErrComputation wraps scorer evaluation failures (malformed vectors,
	// non-finite values). Surfaced to the caller, never a crash.
	ErrComputation = errors.New("scoring computation failed")
	// ErrBatchTooLarge means the batch exceeds the configured cap.
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
	// ErrEmptyBatch means the batch carried no records.
	ErrEmptyBatch = errors.New("batch must contain at least one record")
)

// ReturnRequest carries the typed features of one return event plus two
// opaque identifiers. Range constraints are enforced at the HTTP boundary
// via binding tags; required numeric fields are pointers so that an absent
// field is distinguishable from a legitimate zero.
type ReturnRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	OrderID string `json:"order_id" binding:"required"`

	// User features
	UserAgeDays      *int     `json:"user_age_days" binding:"required,gte=0"`
	NumOrders        *int     `json:"num_orders" binding:"required,gte=0"`
	AvgOrderValue    *float64 `json:"avg_order_value" binding:"required,gte=0"`
	DeviceCount      *int     `json:"device_count" binding:"required,gte=1"`
	ReturnRate       *float64 `json:"return_rate" binding:"required,gte=0,lte=1"`
	RecentReturns30  *int     `json:"recent_returns_30d" binding:"required,gte=0"`
	RecentReturns90  *int     `json:"recent_returns_90d" binding:"required,gte=0"`
	RecentReturns365 *int     `json:"recent_returns_365d" binding:"required,gte=0"`

	// Order features
	OrderValue              *float64 `json:"order_value" binding:"required,gte=0"`
	ItemCount               *int     `json:"item_count" binding:"required,gte=1"`
	ProductRiskScore        *float64 `json:"product_risk_score" binding:"required,gte=0,lte=1"`
	ShippingMethodExpress   *int     `json:"shipping_method_express" binding:"required,gte=0,lte=1"`
	BillingShippingMismatch *int     `json:"billing_shipping_mismatch" binding:"required,gte=0,lte=1"`

	// Return features
	DaysToReturn           *int `json:"days_to_return" binding:"required,gte=0"`
	ReturnReasonSuspicious *int `json:"return_reason_suspicious" binding:"required,gte=0,lte=1"`
	RefundTypeCash         *int `json:"refund_type_cash" binding:"required,gte=0,lte=1"`
	RefundTypeStoreCredit  *int `json:"refund_type_store_credit" binding:"required,gte=0,lte=1"`

	// Behavioral features
	IsHighValue     *int `json:"is_high_value" binding:"required,gte=0,lte=1"`
	EmailDomainRisk *int `json:"email_domain_risk" binding:"required,gte=0,lte=1"`
	HourOfDay       *int `json:"hour_of_day" binding:"required,gte=0,lte=23"`
	IsWeekend       *int `json:"is_weekend" binding:"required,gte=0,lte=1"`
}

// RiskFactor is one explanation entry: a generally important feature, the
// request's value for it, its global importance weight, and a coarse
// high/medium classification. Computed per call, never persisted.
type RiskFactor struct {
	Feature    string  `json:"feature"`
	Value      float64 `json:"value"`
	Importance float64 `json:"importance"`
	RiskLevel  string  `json:"risk_level"`
}

// ScoreResult is the outcome of scoring a single return request.
type ScoreResult struct {
	RiskScore      float64      `json:"risk_score"`
	IsFlagged      bool         `json:"is_flagged"`
	Confidence     float64      `json:"confidence"`
	TopRiskFactors []RiskFactor `json:"top_risk_factors"`
	Timestamp      time.Time    `json:"timestamp"`
	ModelVersion   string       `json:"model_version"`
}

// BatchItem is the per-record result of a batch scoring call. Explanation is
// omitted for throughput.
type BatchItem struct {
	UserID    string    `json:"user_id"`
	OrderID   string    `json:"order_id"`
	RiskScore float64   `json:"risk_score"`
	IsFlagged bool      `json:"is_flagged"`
	Timestamp time.Time `json:"timestamp"`
}

// BatchResult aggregates a batch scoring call. TotalProcessed and
// FlaggedCount are derived from Results, never maintained separately.
type BatchResult struct {
	Results        []BatchItem `json:"results"`
	TotalProcessed int         `json:"total_processed"`
	FlaggedCount   int         `json:"flagged_count"`
}

// ImportanceEntry is one row of the service-wide ranked importance list.
type ImportanceEntry struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ScoreEvent is the persisted audit record of one scoring decision.
type ScoreEvent struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	OrderID      string    `json:"orderId"`
	RiskScore    float64   `json:"riskScore"`
	IsFlagged    bool      `json:"isFlagged"`
	Confidence   float64   `json:"confidence"`
	ModelVersion string    `json:"modelVersion"`
	ScoredAt     time.Time `json:"scoredAt"`
}

// Store persists score events for audit trail. ListByUser returns events
// most recent first; a non-nil cursor restricts results to events strictly
// older than the cursor position.
type Store interface {
	Record(ctx context.Context, event *ScoreEvent) error
	ListByUser(ctx context.Context, userID string, before *pagination.Cursor, limit int) ([]*ScoreEvent, error)
}
