package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "results_total",
			Help:      "终态写入次数，按状态与失败类型统计。",
		},
		[]string{"status", "error_kind"},
	)

	atsScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "ats_score",
			Help:      "ATS 总分分布。",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		},
	)

	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "流水线各阶段耗时（秒）。",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 9),
		},
		[]string{"stage"},
	)

	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "uploads_total",
			Help:      "简历上传次数，按结果统计。",
		},
		[]string{"result"},
	)
)

// ObserveResult 记录一次终态写入，completed 时 errorKind 为空。
func ObserveResult(status, errorKind string) {
	resultsTotal.WithLabelValues(status, errorKind).Inc()
}

// ObserveATSScore 记录一次成功评分的总分。
func ObserveATSScore(score int) {
	atsScore.Observe(float64(score))
}

// ObserveStage 记录流水线阶段耗时。
func ObserveStage(stage string, d time.Duration) {
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveUpload 记录上传结果，如 accepted、rejected、infected、failed。
func ObserveUpload(result string) {
	uploadsTotal.WithLabelValues(result).Inc()
}
