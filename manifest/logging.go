package manifest

import (
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// ConfigureLogging routes every scratchc logger to stderr. Verbosity 0
// shows warnings and above, 1 notices, 2 info, 3 and up debug; a negative
// verbosity silences logging.
func ConfigureLogging(verbosity int) {
	commonlog.Configure(level(verbosity), nil)
}

func level(verbosity int) int {
	if verbosity < 0 {
		return -5
	}
	return verbosity - 2
}

// ConfigureLoggingFile is ConfigureLogging writing to a file instead.
func ConfigureLoggingFile(verbosity int, path string) {
	commonlog.Configure(level(verbosity), &path)
}
