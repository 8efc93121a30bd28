// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"marboris-intents/internal/common/config"
	apperrors "marboris-intents/internal/common/errors"
	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/common/metrics"
	"marboris-intents/internal/common/validation"
	"marboris-intents/internal/intent"
)

const defaultLocale = "en"

// requestVariables are the only job variables an intent worker fetches.
var requestVariables = []string{"locale", "sentence", "template", "token"}

// Dispatcher runs one intent by name.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, req *intent.Request) intent.Result
}

// IntentWorker serves the jobs of one intent type. Job variables carry the
// request and the job completes with the {tag, message} result.
type IntentWorker struct {
	name           string
	dispatcher     Dispatcher
	validator      *validation.Validator
	errorHandler   *apperrors.ErrorHandler
	timeout        time.Duration
	requestTimeout time.Duration
	logger         logger.Logger
}

func NewIntentWorker(name string, d Dispatcher, wcfg config.WorkerConfig, requestTimeout time.Duration, log logger.Logger) *IntentWorker {
	log = log.WithFields(map[string]interface{}{"taskType": name})
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &IntentWorker{
		name:           name,
		dispatcher:     d,
		validator:      validation.NewIntentRequestValidator(),
		errorHandler:   apperrors.NewErrorHandler(log),
		timeout:        config.GetDuration(wcfg.Timeout),
		requestTimeout: requestTimeout,
		logger:         log,
	}
}

// Handle matches the Zeebe job handler signature.
func (w *IntentWorker) Handle(client worker.JobClient, job entities.Job) {
	w.logger.Debug("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	sendCtx, cancelSend := context.WithTimeout(context.Background(), w.requestTimeout)
	defer cancelSend()

	req, err := w.decode(job.Variables)
	if err != nil {
		w.fail(sendCtx, client, job, err)
		return
	}

	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	res := w.dispatcher.Dispatch(ctx, w.name, req)

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(res)
	if err != nil {
		w.fail(sendCtx, client, job, apperrors.NewInternalError(err))
		return
	}
	if _, err := cmd.Send(sendCtx); err != nil {
		stdErr := apperrors.NewWorkflowEngineUnavailableError("complete job", err)
		metrics.WorkerJobsFailed.WithLabelValues(w.name, string(stdErr.Code)).Inc()
		w.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(w.name).Inc()
	w.logger.Info("job completed", map[string]interface{}{
		"jobKey": job.Key,
		"tag":    res.Tag,
	})
}

// decode validates the job variables against the request schema.
func (w *IntentWorker) decode(variables string) (*intent.Request, error) {
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}

	result, err := w.validator.ValidateJSON([]byte(variables))
	if err != nil {
		return nil, apperrors.NewInvalidRequestError("job variables are not valid JSON")
	}
	if !result.Valid {
		return nil, apperrors.NewInvalidRequestError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var req intent.Request
	if err := json.Unmarshal([]byte(variables), &req); err != nil {
		return nil, apperrors.NewInvalidRequestError(err.Error())
	}
	if req.Locale == "" {
		req.Locale = defaultLocale
	}
	return &req, nil
}

func (w *IntentWorker) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code, _ := apperrors.CodeOf(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	metrics.WorkerJobsFailed.WithLabelValues(w.name, string(code)).Inc()
	w.errorHandler.HandleJobError(ctx, client, job, err)
}

// StartWorkers opens one job worker per registered intent that is enabled in
// cfg. The returned workers must be closed on shutdown.
func StartWorkers(client zbc.Client, d Dispatcher, names []string, cfg *config.Config, log logger.Logger) []worker.JobWorker {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	requestTimeout := config.GetDuration(cfg.Camunda.RequestTimeout)
	workers := make([]worker.JobWorker, 0, len(sorted))
	for _, name := range sorted {
		wcfg := config.GetIntentConfig(cfg, name)
		if !wcfg.Enabled {
			log.Info("worker disabled", map[string]interface{}{"taskType": name})
			continue
		}
		if wcfg.MaxJobsActive <= 0 {
			wcfg.MaxJobsActive = cfg.Camunda.MaxJobsActive
		}

		h := NewIntentWorker(name, d, wcfg, requestTimeout, log)
		workers = append(workers, startWorker(client, name, wcfg, h.Handle, log))
	}
	return workers
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc worker.JobHandler, log logger.Logger) worker.JobWorker {
	jw := client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		FetchVariables(requestVariables...).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jw
}

// StopWorkers closes every worker and waits for in-flight jobs.
func StopWorkers(workers []worker.JobWorker) {
	for _, jw := range workers {
		jw.Close()
	}
	for _, jw := range workers {
		jw.AwaitClose()
	}
}
