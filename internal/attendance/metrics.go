package attendance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	codesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_codes_generated_total",
		Help: "Attendance codes issued by faculty.",
	})

	verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_verifications_total",
		Help: "Attendance verification attempts by outcome.",
	}, []string{"outcome"})
)

const (
	outcomeRecorded    = "recorded"
	outcomeDuplicate   = "duplicate"
	outcomeBadCode     = "bad_code"
	outcomeExpired     = "expired"
	outcomeOutOfRange  = "out_of_range"
	outcomeNotFound    = "not_found"
	outcomeServerError = "server_error"
)
