package export

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/vendorpulse/backend-go/internal/domain"
	"github.com/vendorpulse/backend-go/internal/repository/memory"
	"github.com/vendorpulse/backend-go/internal/storage"
)

type captureStorage struct {
	key         string
	contentType string
	data        []byte
}

func (c *captureStorage) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (c *captureStorage) DownloadObject(ctx context.Context, key, destPath string) error {
	return nil
}

func (c *captureStorage) UploadObject(ctx context.Context, key, contentType string, data []byte) error {
	c.key = key
	c.contentType = contentType
	c.data = data
	return nil
}

func seedHistory(t *testing.T, store *memory.Store) *domain.Vendor {
	t.Helper()
	ctx := context.Background()

	vendor := &domain.Vendor{
		ID:        "vendor-1",
		Code:      "V100",
		Name:      "Vendor V100",
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := store.CreateVendor(ctx, vendor); err != nil {
		t.Fatalf("seed vendor: %v", err)
	}

	entries := []domain.PerformanceHistory{
		{
			ID:                 "h1",
			VendorID:           vendor.ID,
			RecordedAt:         time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
			OnTimeDeliveryRate: 100.0,
			FulfillmentRate:    50.0,
		},
		{
			ID:                  "h2",
			VendorID:            vendor.ID,
			RecordedAt:          time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC),
			OnTimeDeliveryRate:  67.0,
			QualityRatingAvg:    4.5,
			AverageResponseTime: 30.0,
			FulfillmentRate:     100.0,
		},
	}
	for i := range entries {
		if err := store.AppendHistory(ctx, &entries[i]); err != nil {
			t.Fatalf("seed history: %v", err)
		}
	}

	return vendor
}

func TestBuildHistoryCSV(t *testing.T) {
	store := memory.NewStore()
	seedHistory(t, store)

	exporter := NewExporter(store, store, nil)

	payload, rows, err := exporter.BuildHistoryCSV(context.Background())
	if err != nil {
		t.Fatalf("build csv: %v", err)
	}
	if rows != 2 {
		t.Fatalf("rows = %d, want 2", rows)
	}

	records, err := csv.NewReader(strings.NewReader(string(payload))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("record count = %d, want header + 2", len(records))
	}

	if records[0][0] != "vendor_code" || records[0][6] != "fulfillment_rate" {
		t.Errorf("unexpected header: %v", records[0])
	}

	first := records[1]
	if first[0] != "V100" || first[1] != "Vendor V100" {
		t.Errorf("row identity = %v", first[:2])
	}
	if first[2] != "2024-03-02T10:00:00Z" {
		t.Errorf("recorded_at = %s", first[2])
	}
	if first[3] != "100.00" || first[6] != "50.00" {
		t.Errorf("metric formatting = %v", first[3:])
	}

	second := records[2]
	if second[3] != "67.00" || second[4] != "4.50" || second[5] != "30.00" || second[6] != "100.00" {
		t.Errorf("metric formatting = %v", second[3:])
	}
}

func TestRunUploadsTimestampedCSV(t *testing.T) {
	store := memory.NewStore()
	seedHistory(t, store)

	sink := &captureStorage{}
	exporter := NewExporter(store, store, sink)
	exporter.now = func() time.Time {
		return time.Date(2024, 3, 4, 12, 30, 0, 0, time.UTC)
	}

	key, err := exporter.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := "exports/performance-history/20240304T123000Z.csv"
	if key != want {
		t.Errorf("object key = %s, want %s", key, want)
	}
	if sink.key != want {
		t.Errorf("uploaded key = %s, want %s", sink.key, want)
	}
	if sink.contentType != "text/csv" {
		t.Errorf("content type = %s, want text/csv", sink.contentType)
	}
	if !strings.Contains(string(sink.data), "V100") {
		t.Errorf("uploaded payload missing vendor row: %q", sink.data)
	}
}

func TestBuildHistoryCSVEmpty(t *testing.T) {
	store := memory.NewStore()
	exporter := NewExporter(store, store, nil)

	payload, rows, err := exporter.BuildHistoryCSV(context.Background())
	if err != nil {
		t.Fatalf("build csv: %v", err)
	}
	if rows != 0 {
		t.Errorf("rows = %d, want 0", rows)
	}
	if !strings.HasPrefix(string(payload), "vendor_code,") {
		t.Errorf("header missing: %q", payload)
	}
}
