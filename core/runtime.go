package core

import "time"

// StartTimestamp records process start for uptime reporting.
var StartTimestamp = time.Time{}

// ShouldQuit is flipped by signal handling in cmd to begin shutdown.
var ShouldQuit = false
