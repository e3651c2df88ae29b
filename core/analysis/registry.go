package analysis

import (
	"encoding/json"
	"fmt"
)

// Factory builds one analyzer stage from its raw "properties" JSON
// object. format is always "json" for the registered built-ins; the
// registry key is (type name, format) so a future binary config format
// could register a factory for the same type name without colliding.
type Factory func(properties json.RawMessage) (Analyzer, error)

type registryKey struct {
	typeName string
	format   string
}

// registry is the process-wide (type_name, config_format) -> factory
// map. It is written once, by RegisterAnalyzer calls from package
// init()s, and read-only thereafter; the teacher's analogous singletons
// (e.g. the codec registry) follow the same eager, init-time-only
// mutation discipline.
var registry = map[registryKey]Factory{}

// RegisterAnalyzer installs a factory for typeName under the "json"
// config format. Calling it twice for the same type name replaces the
// previous factory; this is only safe during package init().
func RegisterAnalyzer(typeName string, factory Factory) {
	registry[registryKey{typeName, "json"}] = factory
}

func lookupAnalyzer(typeName string) (Factory, bool) {
	f, ok := registry[registryKey{typeName, "json"}]
	return f, ok
}

// pipelineConfig is the JSON document shape from spec.md §6:
//
//	{ "pipeline": [ { "type": "<name>", "properties": <object> }, ... ] }
type pipelineConfig struct {
	Pipeline []stageConfig `json:"pipeline"`
}

type stageConfig struct {
	Type       string          `json:"type"`
	Properties json.RawMessage `json:"properties"`
}

// ConfigError describes a malformed pipeline configuration: missing or
// non-object members, an unknown analyzer type, or a sub-analyzer
// construction failure. Per spec.md §7 this is surfaced by the factory
// as a nil analyzer plus this error, and the factory logs it; it never
// panics.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "analysis: config error: " + e.Reason }

// NewPipelineFromJSON parses doc per the §6 shape and constructs the
// composed PipelineTokenStream. Any failure — malformed JSON, a missing
// "pipeline" member, an unknown type, or a sub-analyzer's own
// construction error — aborts the whole construction and returns a
// *ConfigError, after logging it; the caller treats the analyzer as
// absent (a "null analyzer").
func NewPipelineFromJSON(doc []byte) (*PipelineTokenStream, error) {
	var cfg pipelineConfig
	if err := json.Unmarshal(doc, &cfg); err != nil {
		log.Errorf("malformed pipeline config: %v", err)
		return nil, &ConfigError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	if len(cfg.Pipeline) == 0 {
		log.Error("pipeline config missing non-empty \"pipeline\" array")
		return nil, &ConfigError{Reason: `missing or empty "pipeline" member`}
	}

	analyzers := make([]Analyzer, 0, len(cfg.Pipeline))
	for i, sc := range cfg.Pipeline {
		if sc.Type == "" {
			log.Errorf("pipeline stage %d missing \"type\"", i)
			return nil, &ConfigError{Reason: fmt.Sprintf("stage %d missing \"type\"", i)}
		}
		factory, ok := lookupAnalyzer(sc.Type)
		if !ok {
			log.Errorf("unknown analyzer type %q", sc.Type)
			return nil, &ConfigError{Reason: fmt.Sprintf("unknown analyzer type %q", sc.Type)}
		}
		a, err := factory(sc.Properties)
		if err != nil {
			log.Errorf("stage %d (%s) construction failed: %v", i, sc.Type, err)
			return nil, &ConfigError{Reason: fmt.Sprintf("stage %d (%s): %v", i, sc.Type, err)}
		}
		analyzers = append(analyzers, a)
	}
	return NewPipelineTokenStream(analyzers...), nil
}
