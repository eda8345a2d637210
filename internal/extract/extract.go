package extract

import (
	"encoding/json"

	"github.com/valyala/fastjson"
)

// Mode selects how structured payloads are read.
type Mode string

const (
	// ModeFull decodes the whole payload with encoding/json.
	ModeFull Mode = "full"
	// ModeScan looks up the fixed fields with fastjson, without building
	// an intermediate map. Unlike the historical pattern search it
	// requires well-formed JSON and handles escaped quotes in values.
	ModeScan Mode = "scan"
)

// Fields is the fixed field set extracted from structured payloads. The
// set is deliberately closed: it is what bounds label cardinality at the
// store, so it must not grow ad hoc keys.
type Fields struct {
	Level       string
	Logger      string
	App         string
	Environment string
	Event       string
}

// Extractor pulls the fixed field set out of structured log payloads and
// recovers over-escaped plain-text messages. The zero value uses full
// decoding and no escape decoding.
type Extractor struct {
	Mode   Mode
	Decode DecodeMode

	parsers fastjson.ParserPool
}

// Extract reads the fixed field set when message looks structured and
// returns the final message body: the extracted event for structured
// payloads that carry one, the original text otherwise. structured
// reports whether the payload entered extraction. Non-structured messages
// pass through escape decoding according to the configured mode.
func (e *Extractor) Extract(message string) (Fields, string, bool) {
	// Cheap positional check, not validation.
	if len(message) == 0 || message[0] != '{' {
		return Fields{}, e.decode(message), false
	}

	var f Fields
	var ok bool
	if e.Mode == ModeScan {
		f, ok = e.scanFields(message)
	} else {
		f, ok = fullFields(message)
	}
	if !ok {
		// Looked structured but did not decode; degrade to plain text.
		return Fields{}, e.decode(message), false
	}
	if f.Event != "" {
		return f, f.Event, true
	}
	return f, message, true
}

func fullFields(message string) (Fields, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(message), &raw); err != nil {
		return Fields{}, false
	}

	f := Fields{
		Level:       stringField(raw, "level_name"),
		Logger:      stringField(raw, "logger"),
		App:         stringField(raw, "app"),
		Environment: stringField(raw, "environment"),
		Event:       stringField(raw, "event"),
	}
	if f.Level == "" {
		f.Level = stringField(raw, "level")
	}
	return f, true
}

func (e *Extractor) scanFields(message string) (Fields, bool) {
	p := e.parsers.Get()
	defer e.parsers.Put(p)

	v, err := p.Parse(message)
	if err != nil || v.Type() != fastjson.TypeObject {
		return Fields{}, false
	}

	f := Fields{
		Level:       string(v.GetStringBytes("level_name")),
		Logger:      string(v.GetStringBytes("logger")),
		App:         string(v.GetStringBytes("app")),
		Environment: string(v.GetStringBytes("environment")),
		Event:       string(v.GetStringBytes("event")),
	}
	if f.Level == "" {
		f.Level = string(v.GetStringBytes("level"))
	}
	return f, true
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}
