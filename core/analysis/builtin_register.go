package analysis

import (
	"encoding/json"

	acore "github.com/elfringham/iresearch/core/analysis/core"
)

func init() {
	RegisterAnalyzer("lowercase", func(json.RawMessage) (Analyzer, error) {
		return acore.NewLowercaseAnalyzer(), nil
	})
	RegisterAnalyzer("whitespace", func(json.RawMessage) (Analyzer, error) {
		return acore.NewWhitespaceAnalyzer(), nil
	})
	RegisterAnalyzer("delimiter", func(properties json.RawMessage) (Analyzer, error) {
		var props struct {
			Delimiter string `json:"delimiter"`
		}
		if len(properties) > 0 {
			if err := json.Unmarshal(properties, &props); err != nil {
				return nil, err
			}
		}
		if props.Delimiter == "" {
			return nil, &ConfigError{Reason: `"delimiter" analyzer requires non-empty "delimiter" property`}
		}
		return acore.NewDelimiterAnalyzer(props.Delimiter), nil
	})
	RegisterAnalyzer("stop", func(properties json.RawMessage) (Analyzer, error) {
		var props struct {
			Words []string `json:"words"`
		}
		if len(properties) > 0 {
			if err := json.Unmarshal(properties, &props); err != nil {
				return nil, err
			}
		}
		var set map[string]bool
		if len(props.Words) > 0 {
			set = make(map[string]bool, len(props.Words))
			for _, w := range props.Words {
				set[w] = true
			}
		}
		return acore.NewStopAnalyzer(set), nil
	})
}
