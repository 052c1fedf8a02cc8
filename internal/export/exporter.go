// Package export renders vendor performance history as CSV and ships it to
// object storage for downstream reporting.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vendorpulse/backend-go/internal/repository"
	"github.com/vendorpulse/backend-go/internal/storage"
)

const historyObjectPrefix = "exports/performance-history/"

var csvHeader = []string{
	"vendor_code",
	"vendor_name",
	"recorded_at",
	"on_time_delivery_rate",
	"quality_rating_avg",
	"average_response_time",
	"fulfillment_rate",
}

// Exporter walks every vendor's history trail and writes one CSV per run.
type Exporter struct {
	vendors repository.VendorRepository
	history repository.PerformanceHistoryRepository
	store   storage.ObjectStorage
	now     func() time.Time
}

func NewExporter(
	vendors repository.VendorRepository,
	history repository.PerformanceHistoryRepository,
	store storage.ObjectStorage,
) *Exporter {
	return &Exporter{
		vendors: vendors,
		history: history,
		store:   store,
		now:     time.Now,
	}
}

// BuildHistoryCSV renders the full history trail, vendors in listing order
// and each vendor's snapshots in recording order.
func (e *Exporter) BuildHistoryCSV(ctx context.Context) ([]byte, int, error) {
	vendors, err := e.vendors.ListVendors(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("export: list vendors: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, 0, fmt.Errorf("export: write header: %w", err)
	}

	rows := 0
	for _, vendor := range vendors {
		entries, err := e.history.ListHistoryByVendor(ctx, vendor.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("export: history for %s: %w", vendor.Code, err)
		}

		for _, entry := range entries {
			record := []string{
				vendor.Code,
				vendor.Name,
				entry.RecordedAt.UTC().Format(time.RFC3339),
				formatMetric(entry.OnTimeDeliveryRate),
				formatMetric(entry.QualityRatingAvg),
				formatMetric(entry.AverageResponseTime),
				formatMetric(entry.FulfillmentRate),
			}
			if err := w.Write(record); err != nil {
				return nil, 0, fmt.Errorf("export: write row: %w", err)
			}
			rows++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, fmt.Errorf("export: flush: %w", err)
	}

	return buf.Bytes(), rows, nil
}

// Run builds the CSV and uploads it under a timestamped key. Returns the
// object key written.
func (e *Exporter) Run(ctx context.Context) (string, error) {
	payload, rows, err := e.BuildHistoryCSV(ctx)
	if err != nil {
		return "", err
	}

	key := historyObjectPrefix + e.now().UTC().Format("20060102T150405Z") + ".csv"
	if err := e.store.UploadObject(ctx, key, "text/csv", payload); err != nil {
		return "", fmt.Errorf("export: upload: %w", err)
	}

	log.Info().Str("object_key", key).Int("rows", rows).Msg("performance history exported")

	return key, nil
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
