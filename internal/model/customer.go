// Package model defines the domain types shared across the CVO pipeline:
// customers, products, clusters, strategic quadrants and NBO recommendations.
package model

// BandwidthType tags what a raw bandwidth field actually describes. An "IP"
// allocation is a count of addresses, not a bandwidth figure, and must never
// be folded into the zero-bandwidth population.
type BandwidthType string

const (
	BandwidthConnectivity    BandwidthType = "connectivity"
	BandwidthIPOnly          BandwidthType = "ip_only"
	BandwidthNonConnectivity BandwidthType = "non_connectivity"
	BandwidthUnknown         BandwidthType = "unknown"
)

// BandwidthCluster is the coarse peer group a customer is compared within.
// Thresholds, value scores and quadrant labels are only ever meaningful
// relative to other members of the same cluster.
type BandwidthCluster string

const (
	ClusterNoBandwidth BandwidthCluster = "no_bandwidth"
	ClusterIPOnly      BandwidthCluster = "ip_only"
	ClusterATMIoT      BandwidthCluster = "atm_iot"
	ClusterUMKMSmall   BandwidthCluster = "umkm_small"
	ClusterCorporate   BandwidthCluster = "corporate"
	ClusterEnterprise  BandwidthCluster = "enterprise"
)

// AllBandwidthClusters returns the clusters in ascending capacity order.
func AllBandwidthClusters() []BandwidthCluster {
	return []BandwidthCluster{
		ClusterNoBandwidth,
		ClusterIPOnly,
		ClusterATMIoT,
		ClusterUMKMSmall,
		ClusterCorporate,
		ClusterEnterprise,
	}
}

// TenureCluster groups customers by contract age.
type TenureCluster string

const (
	TenureNew     TenureCluster = "new"
	TenureGrowing TenureCluster = "growing"
	TenureLoyal   TenureCluster = "loyal"
)

// Quadrant is a strategic classification label. The set of reachable
// quadrants depends on the customer's bandwidth cluster: the generic
// Star/Risk/Sniper/Incubator vocabulary only applies to the corporate
// cluster, the other families carry their own labels.
type Quadrant string

const (
	QuadrantStar      Quadrant = "star"
	QuadrantRisk      Quadrant = "risk"
	QuadrantSniper    Quadrant = "sniper"
	QuadrantIncubator Quadrant = "incubator"

	QuadrantUMKMPotential Quadrant = "umkm_potential"
	QuadrantUMKMStarter   Quadrant = "umkm_starter"

	QuadrantEnterpriseStar   Quadrant = "enterprise_star"
	QuadrantBackboneOptimize Quadrant = "backbone_optimize"
	QuadrantISPPotential     Quadrant = "isp_potential"
	QuadrantEnterpriseNew    Quadrant = "enterprise_new"

	QuadrantNonBWHighValue Quadrant = "nonbw_high_value"
	QuadrantNonBWEntry     Quadrant = "nonbw_entry"

	QuadrantIPOnlyBundle  Quadrant = "ip_only_bundle"
	QuadrantATMIoT        Quadrant = "atm_iot"
	QuadrantExcluded      Quadrant = "excluded"
	QuadrantUncategorized Quadrant = "uncategorized"
)

// Strategy is the sales action attached to a quadrant.
type Strategy string

const (
	StrategyRetention   Strategy = "RETENTION"
	StrategyCrossSell   Strategy = "CROSS-SELL"
	StrategyUpsell      Strategy = "UPSELL"
	StrategyAutomate    Strategy = "AUTOMATE"
	StrategyEducate     Strategy = "EDUCATE"
	StrategyEfficiency  Strategy = "EFFICIENCY"
	StrategyRenegotiate Strategy = "RENEGOTIATE"
	StrategyBuild       Strategy = "BUILD"
	StrategyMaintain    Strategy = "MAINTAIN"
	StrategyAnalyze     Strategy = "ANALYZE"
)

// TrustQuadrant is the second strategic matrix: predicted lifetime value
// crossed with tenure.
type TrustQuadrant string

const (
	TrustSultanLoyal  TrustQuadrant = "sultan_loyal"
	TrustNewPotential TrustQuadrant = "new_potential"
	TrustLoyalLow     TrustQuadrant = "loyal_low"
	TrustNewLow       TrustQuadrant = "new_low"
)

// Priority buckets an NBO opportunity for the sales team.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Customer is one deduplicated customer identity with raw, normalized and
// derived attributes. Derived fields are written exactly once per batch run
// and are immutable afterwards; nothing is persisted between runs.
type Customer struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`

	// Raw economic attributes, normalized by the field normalizer.
	Revenue         int64         `json:"revenue"`
	PreviousRevenue int64         `json:"previous_revenue,omitempty"`
	TenureYears     float64       `json:"tenure_years"`
	RenewalRisk     bool          `json:"renewal_risk"`
	BandwidthRaw    string        `json:"bandwidth_raw"`
	BandwidthMbps   float64       `json:"bandwidth_mbps"`
	BandwidthType   BandwidthType `json:"bandwidth_type"`

	// Categorical attributes from the snapshot.
	Industry string   `json:"industry"`
	Region   string   `json:"region,omitempty"`
	Category string   `json:"category"`
	Tier     string   `json:"tier"`
	Products []string `json:"products"`

	// Derived, assigned once per run.
	ARPUCategory     string           `json:"arpu_category"`
	ARPULevel        int              `json:"arpu_level"`
	BandwidthCluster BandwidthCluster `json:"bandwidth_cluster"`
	TenureCluster    TenureCluster    `json:"tenure_cluster"`
	ValueScore       float64          `json:"value_score"`
	HighValue        bool             `json:"high_value"`
	HighBandwidth    bool             `json:"high_bandwidth"`
	LowRevenue       bool             `json:"low_revenue"`

	Quadrant        Quadrant      `json:"quadrant"`
	Strategy        Strategy      `json:"strategy"`
	TrustQuadrant   TrustQuadrant `json:"trust_quadrant"`
	ExcludeUpsell   bool          `json:"exclude_upsell"`
	ExclusionReason string        `json:"exclusion_reason,omitempty"`

	// External model inputs (propensity layer).
	UpsellScore  float64 `json:"upsell_score"`
	PredictedCLV int64   `json:"predicted_clv"`
}

// quadrantDisplay maps internal quadrant values to the decorated labels used
// in reports and the dashboard. Control flow never branches on these strings.
var quadrantDisplay = map[Quadrant]string{
	QuadrantStar:             "Star Client",
	QuadrantRisk:             "Risk Area",
	QuadrantSniper:           "Sniper Zone",
	QuadrantIncubator:        "Incubator",
	QuadrantUMKMPotential:    "UMKM Potensial",
	QuadrantUMKMStarter:      "UMKM Pemula",
	QuadrantEnterpriseStar:   "Enterprise Star",
	QuadrantBackboneOptimize: "Backbone Optimize",
	QuadrantISPPotential:     "ISP Potential",
	QuadrantEnterpriseNew:    "Enterprise New",
	QuadrantNonBWHighValue:   "Non-BW High Value",
	QuadrantNonBWEntry:       "Non-BW Entry",
	QuadrantIPOnlyBundle:     "IP-Only Bundle Target",
	QuadrantATMIoT:           "ATM/IoT Device",
	QuadrantExcluded:         "Excluded",
	QuadrantUncategorized:    "Uncategorized",
}

// Display returns the human-readable label for a quadrant.
func (q Quadrant) Display() string {
	if s, ok := quadrantDisplay[q]; ok {
		return s
	}
	return string(q)
}

var trustDisplay = map[TrustQuadrant]string{
	TrustSultanLoyal:  "Sultan Loyal",
	TrustNewPotential: "New Potential",
	TrustLoyalLow:     "Loyal Low Value",
	TrustNewLow:       "New Low Value",
}

// Display returns the human-readable label for a trust quadrant.
func (t TrustQuadrant) Display() string {
	if s, ok := trustDisplay[t]; ok {
		return s
	}
	return string(t)
}
