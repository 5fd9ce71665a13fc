package pipeline

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/certen/c2pa-verifier/internal/sigverify"
)

// Metrics holds the pipeline's Prometheus instrumentation. A nil
// *Metrics is safe to use: every method becomes a no-op, so callers
// that don't care about metrics can pass nil to New.
type Metrics struct {
	VerdictsTotal *prometheus.CounterVec
}

// NewMetrics registers the pipeline's counters against reg and returns
// the handle used to record verdicts.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		VerdictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "c2pa_verifier_verdicts_total",
			Help: "Verification verdicts issued, labeled by whether the signature verified (has_c2pa) and its trust classification.",
		}, []string{"has_c2pa", "trust_list_match"}),
	}
	reg.MustRegister(m.VerdictsTotal)
	return m
}

func (m *Metrics) recordVerdict(hasC2PA bool, trust sigverify.TrustLevel) {
	if m == nil {
		return
	}
	m.VerdictsTotal.WithLabelValues(strconv.FormatBool(hasC2PA), string(trust)).Inc()
}
