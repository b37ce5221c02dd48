package rules

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
	"github.com/xaviermotley/creative-content-security-lab/internal/monitoring/collector"
)

var (
	ErrRules apperrors.Error = apperrors.New("rule evaluation failed").SetStatusCode(http.StatusInternalServerError)
)

const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// FileName is the alert output under the monitoring alerts dir.
const FileName = "alerts.json"

// Alert is a derived view over the event log, never authoritative:
// re-running evaluation regenerates the full set.
type Alert struct {
	Rule     string          `json:"rule"`
	Severity string          `json:"severity"`
	Message  string          `json:"message"`
	Event    collector.Event `json:"event"`
}

// Rule is a single anomaly predicate. Evaluate returns nil when the rule
// does not fire for the event. New rules extend the engine by joining
// the registered list; the evaluation loop never branches on event shape
// itself.
type Rule interface {
	Name() string
	Evaluate(event collector.Event) *Alert
}

// registered is the fixed, ordered rule set applied to every event.
var registered = []Rule{
	downloadAfterExpiry{},
	highSensitivityVendor{},
}

// Evaluate applies every registered rule to every event, in order. Pure:
// the same event log always yields the same alerts. A single event may
// yield zero or multiple alerts.
func Evaluate(ctx context.Context, events []collector.Event) []Alert {
	var alerts []Alert
	for _, event := range events {
		for _, rule := range registered {
			if alert := rule.Evaluate(event); alert != nil {
				log.Ctx(ctx).Warn().
					Str("rule", alert.Rule).
					Str("severity", alert.Severity).
					Msg(alert.Message)
				alerts = append(alerts, *alert)
			}
		}
	}
	return alerts
}

// WriteAlerts overwrites the alert output; alerts are regenerated per
// run, not appended.
func WriteAlerts(path string, alerts []Alert) apperrors.Error {
	if alerts == nil {
		alerts = []Alert{}
	}
	content, err := json.MarshalIndent(alerts, "", "  ")
	if err != nil {
		return ErrRules.MsgErr("unable to encode alerts", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ErrRules.MsgErr("unable to create alerts directory", err)
	}
	if err := os.WriteFile(path, append(content, '\n'), 0o644); err != nil {
		return ErrRules.MsgErr("unable to write alerts", err)
	}
	return nil
}
