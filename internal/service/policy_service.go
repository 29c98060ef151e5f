package service

import (
	"fmt"
	"strings"

	"agentguard/internal/core/domain"
)

// PolicyEvaluatorImpl implements ports.PolicyEvaluator as a pure function
// over an ordered rule list. No side effects, no I/O: identical inputs
// produce identical verdicts.
type PolicyEvaluatorImpl struct {
	rules []policyRule
}

// policyRule is one entry in the fixed evaluation order. It returns a
// verdict if it fires, nil otherwise.
type policyRule struct {
	name string
	eval func(req domain.PaymentRequest, budget domain.BudgetSnapshot, cfg domain.PolicyConfig) *domain.Verdict
}

// NewPolicyEvaluator creates the evaluator with the fixed rule order:
// blocklist, budget, amount threshold, item keywords, merchant keywords.
// The first rule that fires wins; later matches are never recorded.
func NewPolicyEvaluator() *PolicyEvaluatorImpl {
	return &PolicyEvaluatorImpl{
		rules: []policyRule{
			{name: "blocked_merchant", eval: evalBlockedMerchant},
			{name: "budget", eval: evalBudget},
			{name: "amount_threshold", eval: evalAmountThreshold},
			{name: "item_keywords", eval: evalItemKeywords},
			{name: "merchant_keywords", eval: evalMerchantKeywords},
		},
	}
}

// Evaluate classifies the request. Text rules use case-insensitive
// substring matching.
func (e *PolicyEvaluatorImpl) Evaluate(req domain.PaymentRequest, budget domain.BudgetSnapshot, cfg domain.PolicyConfig) domain.Verdict {
	for _, rule := range e.rules {
		if v := rule.eval(req, budget, cfg); v != nil {
			return *v
		}
	}
	return domain.Verdict{
		Kind:    domain.VerdictAllow,
		Message: "Transaction approved. Please complete payment.",
	}
}

func evalBlockedMerchant(req domain.PaymentRequest, _ domain.BudgetSnapshot, cfg domain.PolicyConfig) *domain.Verdict {
	for _, blocked := range cfg.BlockedMerchants {
		if strings.EqualFold(req.Merchant, blocked) {
			return &domain.Verdict{
				Kind:    domain.VerdictDeny,
				Reason:  domain.ReasonBlocklist,
				Message: "Merchant is on the Blocklist",
			}
		}
	}
	return nil
}

func evalBudget(req domain.PaymentRequest, budget domain.BudgetSnapshot, _ domain.PolicyConfig) *domain.Verdict {
	if req.Amount.GreaterThan(budget.Remaining) {
		return &domain.Verdict{
			Kind:    domain.VerdictDeny,
			Reason:  domain.ReasonBudgetExceeded,
			Message: fmt.Sprintf("Exceeds daily budget. Remaining: $%s", budget.Remaining.String()),
		}
	}
	return nil
}

func evalAmountThreshold(req domain.PaymentRequest, _ domain.BudgetSnapshot, cfg domain.PolicyConfig) *domain.Verdict {
	if req.Amount.GreaterThan(cfg.ApprovalThreshold) {
		return requireApproval(domain.ReasonAmountThreshold, "Amount exceeds auto-approval limit")
	}
	return nil
}

func evalItemKeywords(req domain.PaymentRequest, _ domain.BudgetSnapshot, cfg domain.PolicyConfig) *domain.Verdict {
	if containsAny(req.ItemDescription, cfg.SuspiciousItemKeywords) {
		return requireApproval(domain.ReasonHighRiskItem, "High-risk item category detected")
	}
	return nil
}

func evalMerchantKeywords(req domain.PaymentRequest, _ domain.BudgetSnapshot, cfg domain.PolicyConfig) *domain.Verdict {
	if containsAny(req.Merchant, cfg.SuspiciousMerchantKeywords) {
		return requireApproval(domain.ReasonSuspiciousMerchant, "Suspicious merchant detected")
	}
	return nil
}

func requireApproval(reason, detail string) *domain.Verdict {
	return &domain.Verdict{
		Kind:    domain.VerdictRequireApproval,
		Reason:  reason,
		Message: fmt.Sprintf("Risk Triggered: %s. Waiting for user.", detail),
	}
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
