package logging

import "time"

type Config struct {
	EnabledSinks     []string       `yaml:"sinks" json:"sinks"`
	BufferSize       int            `yaml:"buffer_size" json:"bufferSize"`
	MinimumSeverity  Severity       `yaml:"minimum_severity" json:"minimumSeverity"`
	Fields           map[string]any `yaml:"fields" json:"fields,omitempty"`
	JSON             JSONConfig     `yaml:"json" json:"json"`
	Console          ConsoleConfig  `yaml:"console" json:"console"`
	DropWarnInterval time.Duration  `yaml:"drop_warn_interval" json:"dropWarnInterval"`
}

type JSONConfig struct {
	FilePath      string        `yaml:"file_path" json:"filePath,omitempty"`
	MaxBatch      int           `yaml:"max_batch" json:"maxBatch"`
	FlushInterval time.Duration `yaml:"flush_interval" json:"flushInterval"`
}

type ConsoleConfig struct {
	UseColor bool `yaml:"use_color" json:"useColor"`
}

func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{"console"},
		BufferSize:       512,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
		JSON: JSONConfig{
			MaxBatch:      32,
			FlushInterval: 2 * time.Second,
		},
	}
}

func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if s == name {
			return true
		}
	}
	return false
}

func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		cloned[k] = v
	}
	return cloned
}
