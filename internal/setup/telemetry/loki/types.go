package loki

// pushRequest is the JSON payload of the Loki push API.
type pushRequest struct {
	Streams []stream `json:"streams"`
}

// stream is a set of log lines sharing one label set.
type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

// logEntry is a single log line waiting to be pushed.
type logEntry struct {
	level     string
	timestamp int64 // unix nanoseconds
	line      string
}

// logLine is the JSON body of a log line.
type logLine struct {
	Level   string         `json:"level"`
	Time    string         `json:"ts"`
	Logger  string         `json:"logger,omitempty"`
	Message string         `json:"msg"`
	Caller  string         `json:"caller,omitempty"`
	Stack   string         `json:"stacktrace,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
}
