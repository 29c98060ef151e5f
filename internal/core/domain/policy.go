package domain

import (
	"github.com/shopspring/decimal"
)

// VerdictKind classifies a payment request after policy evaluation.
type VerdictKind string

const (
	VerdictAllow           VerdictKind = "ALLOW"
	VerdictRequireApproval VerdictKind = "REQUIRE_APPROVAL"
	VerdictDeny            VerdictKind = "DENY"
)

// Verdict is the policy evaluator's output. Reason is the short rule tag
// recorded on the transaction; Message is the human-readable explanation
// returned to the caller.
type Verdict struct {
	Kind    VerdictKind
	Reason  string
	Message string
}

// Policy rule reason tags. Exactly one is recorded per transaction: the
// earliest rule in the fixed evaluation order that fires.
const (
	ReasonBlocklist          = "blocklist"
	ReasonBudgetExceeded     = "budget exceeded"
	ReasonAmountThreshold    = "amount threshold"
	ReasonHighRiskItem       = "high-risk item"
	ReasonSuspiciousMerchant = "suspicious merchant"
)

// PolicyConfig holds the principal's spend rules. It is read-only from the
// evaluator's perspective.
type PolicyConfig struct {
	ApprovalThreshold          decimal.Decimal
	BlockedMerchants           []string
	SuspiciousItemKeywords     []string
	SuspiciousMerchantKeywords []string
}

// DefaultPolicyConfig returns the built-in rule set.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		ApprovalThreshold: decimal.NewFromInt(5000),
		BlockedMerchants:  []string{"sketchy-crypto.com", "unknown-seller.net"},
		SuspiciousItemKeywords: []string{
			"crypto", "gift card", "casino", "mystery", "hacked", "stolen",
		},
		SuspiciousMerchantKeywords: []string{
			"scam", "scammy", "sketchy", "dark", "darkweb", "hack", "illegal",
			"fraud", "suspicious", "unknown", "untrusted", "shady", "fake",
		},
	}
}

// PaymentRequest is a validated agent payment request as seen by the
// policy evaluator and the authorization service.
type PaymentRequest struct {
	AgentID         string
	Merchant        string
	Amount          decimal.Decimal
	ItemDescription string
}
