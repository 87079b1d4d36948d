package core

import (
	"os"

	"github.com/ndnself/forwarder/log"
)

// Log is the process-wide logger, reconfigured by OpenLogger once C is
// populated from the config file.
var Log = log.Default

// OpenLogger applies C.Core.LogLevel/LogFile to Log. Called once at startup
// after configuration has been loaded.
func OpenLogger() error {
	Log.SetLevel(log.ParseLevel(C.Core.LogLevel))
	if C.Core.LogFile == "" {
		return nil
	}
	f, err := os.OpenFile(C.Core.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	Log = log.NewText(f)
	Log.SetLevel(log.ParseLevel(C.Core.LogLevel))
	return nil
}
