package sources

import (
	"testing"
	"time"

	"logrelay/internal/record"
)

func TestParseJournalLine(t *testing.T) {
	line := `{"MESSAGE":"backup finished","_SYSTEMD_UNIT":"taskflows-backup.service","__REALTIME_TIMESTAMP":"1700000000123456","PRIORITY":"6"}`

	raw, ok := ParseJournalLine(line, "journal")
	if !ok {
		t.Fatal("expected a parsed record")
	}
	if raw.Message != "backup finished" {
		t.Errorf("message: got %q", raw.Message)
	}
	if raw.Fields[record.FieldUnit] != "taskflows-backup.service" {
		t.Errorf("unit: got %q", raw.Fields[record.FieldUnit])
	}
	if raw.Fields[record.FieldRealtimeTS] != "1700000000123456" {
		t.Errorf("timestamp: got %q", raw.Fields[record.FieldRealtimeTS])
	}
	if raw.Source != "journal" {
		t.Errorf("source: got %q", raw.Source)
	}
}

func TestParseJournalLine_NonScalarFieldsIgnored(t *testing.T) {
	line := `{"MESSAGE":[104,105],"_PID":4242,"SYSLOG_IDENTIFIER":"docker.redis"}`

	raw, ok := ParseJournalLine(line, "journal")
	if !ok {
		t.Fatal("expected a parsed record")
	}
	if raw.Message != "" {
		t.Errorf("binary message should be dropped, got %q", raw.Message)
	}
	if raw.Fields["_PID"] != "4242" {
		t.Errorf("numeric field should be stringified, got %q", raw.Fields["_PID"])
	}
}

func TestParseJournalLine_Invalid(t *testing.T) {
	if _, ok := ParseJournalLine("not json", "journal"); ok {
		t.Error("invalid line should not parse")
	}
}

func TestDockerLine(t *testing.T) {
	raw := dockerLine("2023-11-14T22:13:20.123456789Z job started", "taskflows-worker-3f2a1b9c8d7e")

	if raw.Message != "job started" {
		t.Errorf("message: got %q", raw.Message)
	}
	if raw.Fields[record.FieldContainer] != "taskflows-worker-3f2a1b9c8d7e" {
		t.Errorf("container_name: got %q", raw.Fields[record.FieldContainer])
	}
	want := time.Date(2023, 11, 14, 22, 13, 20, 123456789, time.UTC).UnixMicro()
	if got := raw.Fields[record.FieldRealtimeTS]; got != "1700000000123456" {
		t.Errorf("timestamp: want %d, got %s", want, got)
	}
}

func TestDockerLine_NoTimestampPrefix(t *testing.T) {
	before := time.Now()
	raw := dockerLine("no timestamp here", "c")

	if raw.Message != "no timestamp here" {
		t.Errorf("message: got %q", raw.Message)
	}
	if _, ok := raw.Fields[record.FieldRealtimeTS]; ok {
		t.Error("no realtime field should be set without a parseable prefix")
	}
	if raw.Time.Before(before) {
		t.Error("fallback time should be recent")
	}
}
