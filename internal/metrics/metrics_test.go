package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleValue 从默认 registry 读取计数器或仪表的当前值。
func sampleValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue next
				}
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestAsynqMetricsMiddlewareLabelsRetryable(t *testing.T) {
	const taskType = "metrics:test"
	errs := []error{
		nil,
		errors.New("transient"),
		fmt.Errorf("bad payload: %w", asynq.SkipRetry),
	}
	i := 0
	h := AsynqMetricsMiddleware()(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		err := errs[i]
		i++
		return err
	}))

	for range errs {
		_ = h.ProcessTask(context.Background(), asynq.NewTask(taskType, nil))
	}

	assert.Equal(t, 3.0, sampleValue(t, "resumeats_asynq_tasks_processed_total", map[string]string{"task_type": taskType}))
	assert.Equal(t, 1.0, sampleValue(t, "resumeats_asynq_tasks_failed_total", map[string]string{"task_type": taskType, "retryable": "true"}))
	assert.Equal(t, 1.0, sampleValue(t, "resumeats_asynq_tasks_failed_total", map[string]string{"task_type": taskType, "retryable": "false"}))
	assert.Equal(t, 0.0, sampleValue(t, "resumeats_asynq_tasks_in_progress", map[string]string{"task_type": taskType}))
}

func TestObserveResult(t *testing.T) {
	labels := map[string]string{"status": "failed", "error_kind": "no_text_extracted"}
	before := sampleValue(t, "resumeats_pipeline_results_total", labels)
	ObserveResult("failed", "no_text_extracted")
	assert.Equal(t, before+1, sampleValue(t, "resumeats_pipeline_results_total", labels))
}
