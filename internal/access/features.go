package access

import "sort"

// Tier is a subscription plan level. Tiers are totally ordered and higher
// tiers inherit every feature of the tiers below them.
type Tier string

// Known tiers, lowest to highest.
const (
	TierFree       Tier = "free"
	TierBasic      Tier = "basic"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

var tierRank = map[Tier]int{
	TierFree:       0,
	TierBasic:      1,
	TierPremium:    2,
	TierEnterprise: 3,
}

// ParseTier normalizes a raw tier label, defaulting unknown labels to free.
func ParseTier(raw string) Tier {
	t := Tier(raw)
	if _, ok := tierRank[t]; ok {
		return t
	}
	return TierFree
}

// featureTiers maps a feature name to the minimum tier that unlocks it.
var featureTiers = map[string]Tier{
	FeatureGoalTracking:      TierFree,
	FeatureDocumentStorage:   TierBasic,
	FeatureReportExport:      TierBasic,
	FeatureMultiBusiness:     TierPremium,
	FeatureAIAssistant:       TierPremium,
	FeatureAdvancedAnalytics: TierPremium,
	FeatureAuditTrail:        TierEnterprise,
	FeaturePrioritySupport:   TierEnterprise,
}

// Feature names gated by subscription tier.
const (
	FeatureGoalTracking      = "goal_tracking"
	FeatureDocumentStorage   = "document_storage"
	FeatureReportExport      = "report_export"
	FeatureMultiBusiness     = "multi_business"
	FeatureAIAssistant       = "ai_assistant"
	FeatureAdvancedAnalytics = "advanced_analytics"
	FeatureAuditTrail        = "audit_trail"
	FeaturePrioritySupport   = "priority_support"
)

// HasFeature reports whether the tier unlocks the named feature. Unknown
// features and unknown tiers are denied.
func HasFeature(tier Tier, feature string) bool {
	required, ok := featureTiers[feature]
	if !ok {
		return false
	}
	rank, ok := tierRank[tier]
	if !ok {
		return false
	}
	return rank >= tierRank[required]
}

// FeatureEntry is one row of the feature-table dump.
type FeatureEntry struct {
	Feature string
	MinTier Tier
}

// Features returns the feature table in stable order.
func Features() []FeatureEntry {
	entries := make([]FeatureEntry, 0, len(featureTiers))
	for name, tier := range featureTiers {
		entries = append(entries, FeatureEntry{Feature: name, MinTier: tier})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Feature < entries[j].Feature
	})
	return entries
}
