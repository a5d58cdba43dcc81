package metricskey

import "github.com/effective-security/metrics"

// Perf
var (
	// PerfVerification is perf metric
	PerfVerification = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_jwt_verify",
		Help:         "perf_jwt_verify provides the sample metrics of token verification",
		RequiredTags: []string{"alg", "result"},
	}

	// PerfKeyConstruction is perf metric
	PerfKeyConstruction = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_jwk_key",
		Help:         "perf_jwk_key provides the sample metrics of verification key construction",
		RequiredTags: []string{"kty", "result"},
	}
)

// Inspection
var (
	// PerfInspection is perf metric
	PerfInspection = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_jwt_inspect",
		Help:         "perf_jwt_inspect provides the sample metrics of key and token inspection",
		RequiredTags: []string{"status"},
	}
)

// Metrics returns slice of metrics from this repo
var Metrics = []*metrics.Describe{
	&PerfVerification,
	&PerfKeyConstruction,
	&PerfInspection,
}
