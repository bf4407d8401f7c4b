package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// to prevent metrics from being initialized multiple times
	isMetricsInitVar uint32 = 0

	// Number of challenge login attempts by result
	AuthChallengeAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_challenge_attempts_total",
		Help: "The total number of app-key challenge login attempts",
	}, []string{"result"})

	// Number of token refresh runs by path taken
	TokenRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_token_refresh_total",
		Help: "The total number of token refresh operations",
	}, []string{"result"})

	// Number of finished key rotation runs by terminal classification
	RotationOutcomeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_key_rotation_outcome_total",
		Help: "The total number of key rotation attempts by outcome",
	}, []string{"outcome"})

	// Number of cloud backup uploads during rotation finalize
	BackupUploadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_rotation_backup_upload_total",
		Help: "The total number of cloud backup uploads during key rotation",
	}, []string{"result"})

	// 1 when a rotation attempt record is pending, 0 otherwise
	PendingRotationAttempt = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "auth_pending_rotation_attempt",
		Help: "Whether a durable key rotation attempt record is pending",
	})
)

func setIsMetricsInit() {
	atomic.StoreUint32(&isMetricsInitVar, 1)
}

func isMetricsInit() bool {
	return atomic.LoadUint32(&isMetricsInitVar) == 1
}

func InitMetrics() {
	if !isMetricsInit() {
		setIsMetricsInit()

		// Metrics have to be registered to be exposed
		prometheus.MustRegister(AuthChallengeAttemptsTotal)
		prometheus.MustRegister(TokenRefreshTotal)
		prometheus.MustRegister(RotationOutcomeTotal)
		prometheus.MustRegister(BackupUploadTotal)
		prometheus.MustRegister(PendingRotationAttempt)
	}
}
