package services

import (
	"strings"
	"testing"
)

func TestDashboard_UseSample(t *testing.T) {
	d := NewDashboard(nil)
	d.UseSample(10, 42)

	rows := d.Rows()
	if rows.Len() != 10*len(sampleProducts) {
		t.Errorf("expected %d records, got %d", 10*len(sampleProducts), rows.Len())
	}
}

func TestDashboard_LoadUpload(t *testing.T) {
	d := NewDashboard(nil)

	if err := d.LoadUpload(strings.NewReader(validCSV), "sales.csv"); err != nil {
		t.Fatalf("valid upload should not error: %v", err)
	}
	if d.Rows().Len() != 3 {
		t.Errorf("expected 3 records, got %d", d.Rows().Len())
	}
}

func TestDashboard_FailedUploadInstallsEmptySet(t *testing.T) {
	d := NewDashboard(nil)
	d.UseSample(10, 42)

	err := d.LoadUpload(strings.NewReader("not,a\n\"valid csv"), "broken.csv")
	if err == nil {
		t.Fatal("expected a load error")
	}

	// The previous dataset is gone: the dashboard now shows the empty state.
	if d.Rows().Len() != 0 {
		t.Errorf("failed upload must leave an empty RowSet, got %d records", d.Rows().Len())
	}
}

func TestDashboard_Stats(t *testing.T) {
	d := NewDashboard(nil)
	d.UseSample(10, 42)

	stats := d.Stats()

	if stats["record_count"] != 10*len(sampleProducts) {
		t.Errorf("record_count = %v", stats["record_count"])
	}
	if stats["source"] != "sample" {
		t.Errorf("source = %v, want sample", stats["source"])
	}
	if stats["products"] != len(sampleProducts) {
		t.Errorf("products = %v, want %d", stats["products"], len(sampleProducts))
	}
	if _, ok := stats["date_from"]; !ok {
		t.Error("stats should report the date span of a non-empty dataset")
	}
}

func TestDashboard_ConcurrentReads(t *testing.T) {
	d := NewDashboard(nil)
	d.UseSample(20, 42)

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- true }()

			rows := d.Rows()
			_ = SummarizeKPIs(rows)
			_ = TimeSeries(rows)
			_ = MonthlyProductSales(rows)
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
