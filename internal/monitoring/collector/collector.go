package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
	"github.com/xaviermotley/creative-content-security-lab/internal/db"
)

var (
	ErrCollect apperrors.Error = apperrors.New("event collection failed").SetStatusCode(http.StatusInternalServerError)
)

// Event sources, in the fixed order they are merged.
const (
	SourcePipeline     = "pipeline"
	SourceVendorPortal = "vendor_portal"
	SourceSimulation   = "simulation"
)

const EventTypeVendorDownload = "vendor_download"

// FileName is the merged event log written under the monitoring dir.
const FileName = "events.json"

// Event is the normalized record in the merged log. Fields absent for a
// given event type are omitted, keeping the serialized log stable.
type Event struct {
	Type          string     `json:"type"`
	Source        string     `json:"source"`
	BuildID       string     `json:"build_id,omitempty"`
	VendorID      string     `json:"vendor_id,omitempty"`
	WatermarkID   string     `json:"watermark_id,omitempty"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
	DownloadedAt  *time.Time `json:"downloaded_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	TargetVendors []string   `json:"target_vendors,omitempty"`
}

// Collector merges the independent event logs into one ordered sequence:
// pipeline build events, then portal download events, then simulated
// events, each tagged with its source. Missing sources contribute zero
// events. Collection is read-only on its inputs; re-running with
// unchanged sources yields an identical sequence.
type Collector struct {
	Events        db.EventManager
	SimulationDir string
}

func (c *Collector) Collect(ctx context.Context) ([]Event, apperrors.Error) {
	var events []Event

	buildEvents, err := c.Events.ListBuildEvents(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range buildEvents {
		ts := e.Timestamp
		events = append(events, Event{
			Type:          e.Type,
			Source:        SourcePipeline,
			BuildID:       e.BuildID,
			Timestamp:     &ts,
			TargetVendors: e.TargetVendors,
		})
	}

	downloads, err := c.Events.ListDownloadEvents(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range downloads {
		downloadedAt := d.DownloadedAt
		expiresAt := d.ExpiresAt
		events = append(events, Event{
			Type:         EventTypeVendorDownload,
			Source:       SourceVendorPortal,
			BuildID:      d.BuildID,
			VendorID:     d.VendorID,
			WatermarkID:  d.WatermarkID,
			DownloadedAt: &downloadedAt,
			ExpiresAt:    &expiresAt,
		})
	}

	simEvents, apperr := c.readSimulationEvents(ctx)
	if apperr != nil {
		return nil, apperr
	}
	events = append(events, simEvents...)

	log.Ctx(ctx).Info().Int("events", len(events)).Msg("collected events")
	return events, nil
}

// readSimulationEvents loads externally supplied events, if any. The
// file is optional; absence is not an error.
func (c *Collector) readSimulationEvents(ctx context.Context) ([]Event, apperrors.Error) {
	if c.SimulationDir == "" {
		return nil, nil
	}
	path := filepath.Join(c.SimulationDir, "logs", FileName)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, ErrCollect.MsgErr("unable to read simulation events", err)
	}
	var events []Event
	if err := json.Unmarshal(content, &events); err != nil {
		return nil, ErrCollect.MsgErr("unable to parse simulation events", err)
	}
	for i := range events {
		events[i].Source = SourceSimulation
	}
	log.Ctx(ctx).Info().Int("events", len(events)).Msg("loaded simulation events")
	return events, nil
}

// WriteEvents serializes the merged log. Output is deterministic:
// identical event sequences produce byte-identical files.
func WriteEvents(path string, events []Event) apperrors.Error {
	if events == nil {
		events = []Event{}
	}
	content, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return ErrCollect.MsgErr("unable to encode events", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ErrCollect.MsgErr("unable to create monitoring directory", err)
	}
	if err := os.WriteFile(path, append(content, '\n'), 0o644); err != nil {
		return ErrCollect.MsgErr("unable to write events", err)
	}
	return nil
}

// ReadEvents loads a previously written merged log.
func ReadEvents(path string) ([]Event, apperrors.Error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrCollect.MsgErr("unable to read events", err)
	}
	var events []Event
	if err := json.Unmarshal(content, &events); err != nil {
		return nil, ErrCollect.MsgErr("unable to parse events", err)
	}
	return events, nil
}
