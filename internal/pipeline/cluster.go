package pipeline

import (
	"github.com/pln-iconplus/cvo-cli/internal/config"
	"github.com/pln-iconplus/cvo-cli/internal/model"
)

// AssignCluster places a customer into its bandwidth peer group. Type wins
// over magnitude: an IP-only line never lands in a bandwidth cluster no
// matter what the Mbps field says.
func AssignCluster(mbps float64, typ model.BandwidthType, seg config.SegmentsConfig) model.BandwidthCluster {
	switch typ {
	case model.BandwidthNonConnectivity, model.BandwidthUnknown:
		return model.ClusterNoBandwidth
	case model.BandwidthIPOnly:
		return model.ClusterIPOnly
	}

	switch {
	case mbps < seg.ATMIoTMaxMbps:
		return model.ClusterATMIoT
	case mbps <= seg.UMKMMaxMbps:
		return model.ClusterUMKMSmall
	case mbps <= seg.CorporateMaxMbps:
		return model.ClusterCorporate
	default:
		return model.ClusterEnterprise
	}
}

// TenureClusterFor groups a contract age. Under two years the relationship
// is still forming, five years marks an established one.
func TenureClusterFor(years float64) model.TenureCluster {
	switch {
	case years < 2:
		return model.TenureNew
	case years <= 5:
		return model.TenureGrowing
	default:
		return model.TenureLoyal
	}
}
