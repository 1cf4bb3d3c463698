package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation names used as label values.
const (
	OpAdmitPig        = "admit_pig"
	OpRecordWeighing  = "record_weighing"
	OpChangeLifeState = "change_life_state"
	OpTransferPig     = "transfer_pig"
)

// Operations counts every engine command by outcome.
var Operations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "livestock_operations_total",
	Help: "Consistency-engine commands by operation and result.",
}, []string{"op", "result"})

// AuditRepairs counts aggregate drift repairs performed by the nightly audit.
var AuditRepairs = promauto.NewCounter(prometheus.CounterOpts{
	Name: "livestock_audit_repairs_total",
	Help: "Pen aggregates repaired by the audit job.",
})

// RecordOp increments the operation counter with result committed/rejected.
func RecordOp(op string, err error) {
	result := "committed"
	if err != nil {
		result = "rejected"
	}
	Operations.WithLabelValues(op, result).Inc()
}
