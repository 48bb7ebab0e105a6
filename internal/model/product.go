package model

// Complexity grades how demanding a product is to adopt and operate.
type Complexity string

const (
	ComplexitySimple  Complexity = "Simple"
	ComplexityMedium  Complexity = "Medium"
	ComplexityComplex Complexity = "Complex"
)

// Product is one catalog entry eligible for NBO recommendation.
type Product struct {
	Name             string   `json:"name" yaml:"name"`
	Nomenklatur      string   `json:"nomenklatur" yaml:"nomenklatur"`
	Category         string   `json:"category" yaml:"category"`
	TargetIndustries []string `json:"target_industries,omitempty" yaml:"target_industries,omitempty"`
	MinBandwidthMbps float64  `json:"min_bandwidth_mbps" yaml:"min_bandwidth_mbps"`
	Connectivity     bool     `json:"connectivity" yaml:"connectivity"`

	// Retention marks offers designed to keep a renewing account, exempt
	// from the steer-to-simple rule at tenure zero.
	Retention bool `json:"retention,omitempty" yaml:"retention,omitempty"`

	// Derived from name and nomenklatur at catalog load time.
	Complexity Complexity `json:"complexity" yaml:"-"`
	CostTier   int        `json:"cost_tier" yaml:"-"`

	// Order is the catalog input position, used to break score ties
	// deterministically.
	Order int `json:"-" yaml:"-"`
}

// Recommendation is one scored next-best-offer for a customer.
type Recommendation struct {
	Product   string  `json:"product"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`

	// Components keeps the per-factor breakdown for explainability.
	Components map[string]float64 `json:"components,omitempty"`
}

// ClusterThresholds holds the relative cut lines computed within one
// bandwidth cluster. A cluster with no members has no thresholds entry at
// all, never a zero-valued one.
type ClusterThresholds struct {
	Cluster         BandwidthCluster `json:"cluster"`
	Members         int              `json:"members"`
	MedianRevenue   float64          `json:"median_revenue"`
	MedianBandwidth float64          `json:"median_bandwidth"`
	Q75Bandwidth    float64          `json:"q75_bandwidth"`
	Q75Revenue      float64          `json:"q75_revenue"`
	Q25Revenue      float64          `json:"q25_revenue"`
	MaxRevenue      float64          `json:"-"`
	MaxBandwidth    float64          `json:"-"`
	MaxTenure       float64          `json:"-"`
}

// DashboardRecord is the flattened per-customer row exported to JSON and to
// the master workbook. Field names are part of the dashboard contract.
type DashboardRecord struct {
	CustomerName     string  `json:"customer_name"`
	Revenue          int64   `json:"revenue"`
	ARPUCategory     string  `json:"arpu_category"`
	BandwidthMbps    float64 `json:"bandwidth_mbps"`
	BandwidthType    string  `json:"bandwidth_type"`
	BandwidthSegment string  `json:"bandwidth_segment"`
	Quadrant         string  `json:"quadrant"`
	StrategyLabel    string  `json:"strategy_label"`
	TrustQuadrant    string  `json:"trust_quadrant"`
	Industry         string  `json:"industry"`
	Tier             string  `json:"tier"`
	UpsellScore      float64 `json:"upsell_score"`
	Priority         string  `json:"priority"`
	PotentialRevenue int64   `json:"potential_revenue"`
	PredictedCLV     int64   `json:"predicted_clv"`

	Recommendations []Recommendation `json:"recommendations"`
}
