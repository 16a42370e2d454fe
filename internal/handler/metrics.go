package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Total number of successful user registrations.",
	})

	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Total number of login attempts by status.",
	}, []string{"status"})

	refreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_refreshes_total",
		Help: "Total number of token refresh attempts by status.",
	}, []string{"status"})

	taskOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tasks_operations_total",
		Help: "Total number of successful task operations by kind.",
	}, []string{"op"})
)

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
