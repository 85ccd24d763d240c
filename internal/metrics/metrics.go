package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsSent counts dispatched notifications by kind and outcome.
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multitool_notifications_sent_total",
			Help: "Notifications dispatched by the schedulers.",
		},
		[]string{"kind", "status"},
	)

	// SchedulerPasses counts completed evaluation passes per scheduler.
	SchedulerPasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multitool_scheduler_passes_total",
			Help: "Completed scheduler evaluation passes.",
		},
		[]string{"scheduler"},
	)

	// SchedulerErrors counts pass-level failures that triggered a cooldown.
	SchedulerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multitool_scheduler_errors_total",
			Help: "Scheduler pass failures followed by a cooldown.",
		},
		[]string{"scheduler"},
	)
)
