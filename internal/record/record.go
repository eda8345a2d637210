package record

import "time"

// Raw is one log record as received from a source. It is owned by the
// caller for the duration of a single Process call.
type Raw struct {
	Message string
	Fields  map[string]string
	Source  string
	Time    time.Time // wall-clock fallback when the source carries no timestamp
}

// Source field keys shared between sources and the pipeline. Journal
// sources keep the journald export names as-is; the docker source fills
// the same keys so the pipeline reads one vocabulary.
const (
	FieldUnit       = "_SYSTEMD_UNIT"
	FieldSyslogID   = "SYSLOG_IDENTIFIER"
	FieldContainer  = "container_name"
	FieldRealtimeTS = "__REALTIME_TIMESTAMP"
	FieldMessage    = "MESSAGE"
)

// Timestamp is the seconds/nanoseconds pair the log store consumes.
type Timestamp struct {
	Sec  int64 `json:"sec"`
	Nsec int64 `json:"nsec"`
}

func (t Timestamp) UnixNano() int64 {
	return t.Sec*1_000_000_000 + t.Nsec
}

// Before reports whether t is strictly earlier than o.
func (t Timestamp) Before(o Timestamp) bool {
	if t.Sec != o.Sec {
		return t.Sec < o.Sec
	}
	return t.Nsec < o.Nsec
}

// Normalized is the pipeline output: one record attributed to a managed
// service, carrying the bounded label set and a per-service monotonic
// timestamp. Logger and App are extracted alongside the labels but are
// never indexed; the label set stays closed on purpose.
type Normalized struct {
	Message     string    `json:"message"`
	ServiceName string    `json:"service_name"`
	SourceKind  string    `json:"source_kind,omitempty"`
	Level       string    `json:"level,omitempty"`
	Environment string    `json:"environment,omitempty"`
	Logger      string    `json:"logger,omitempty"`
	App         string    `json:"app,omitempty"`
	Timestamp   Timestamp `json:"timestamp"`
}
