package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xaviermotley/creative-content-security-lab/internal/config"
	"github.com/xaviermotley/creative-content-security-lab/internal/monitoring/collector"
	"github.com/xaviermotley/creative-content-security-lab/internal/monitoring/rules"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Merge all event sources into the monitoring log",
	Long: `Reads build events, vendor download events, and any simulated
events, tags each with its source, and writes the merged, ordered event
log. Re-running with unchanged sources produces identical output.`,
	RunE: runCollect,
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate anomaly rules over the collected event log",
	Long: `Applies the registered rule set to every collected event and
overwrites the alert output. Alerts are a derived view; evaluation is
deterministic and re-runnable.`,
	RunE: runEvaluate,
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, apperr := openStore()
	if apperr != nil {
		return apperr
	}
	defer store.Close()

	c := &collector.Collector{
		Events:        store,
		SimulationDir: config.Config().SimulationDir,
	}
	events, apperr := c.Collect(ctx)
	if apperr != nil {
		return apperr
	}
	if apperr := collector.WriteEvents(monitoringEventsPath(), events); apperr != nil {
		return apperr
	}
	log.Info().Int("events", len(events)).Str("path", monitoringEventsPath()).Msg("event log written")
	return nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	events, apperr := collector.ReadEvents(monitoringEventsPath())
	if apperr != nil {
		return apperr
	}

	alerts := rules.Evaluate(ctx, events)
	if apperr := rules.WriteAlerts(monitoringAlertsPath(), alerts); apperr != nil {
		return apperr
	}
	log.Info().Int("alerts", len(alerts)).Str("path", monitoringAlertsPath()).Msg("alerts written")
	return nil
}
