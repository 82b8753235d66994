package domain

// Connection links an output pin of one node to an input pin of another.
type Connection struct {
	FromNode string `json:"fromNode" yaml:"fromNode" mapstructure:"fromNode"`
	FromPin  string `json:"fromPin" yaml:"fromPin" mapstructure:"fromPin"`
	ToNode   string `json:"toNode" yaml:"toNode" mapstructure:"toNode"`
	ToPin    string `json:"toPin" yaml:"toPin" mapstructure:"toPin"`
}

// Graph is the snapshot of a user diagram handed to the compiler.
type Graph struct {
	Nodes       []NodeInstance `json:"nodes" yaml:"nodes" mapstructure:"nodes"`
	Connections []Connection   `json:"connections" yaml:"connections" mapstructure:"connections"`
}
