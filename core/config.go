// Package core holds process-wide configuration and startup state shared by
// every other package, following the teacher's fw/core layout.
package core

import "time"

// Config is the top-level configuration tree, decoded from YAML by cmd.
type Config struct {
	Core struct {
		LogLevel string `json:"log_level"`
		LogFile  string `json:"log_file"`
	} `json:"core"`

	Fw struct {
		Threads         int `json:"threads"`
		QueueSize       int `json:"queue_size"`
		RetxSuppression struct {
			Initial time.Duration `json:"initial"`
			Max     time.Duration `json:"max"`
		} `json:"retx_suppression"`
	} `json:"fw"`

	Tables struct {
		Pit struct {
			QueueSize int `json:"queue_size"`
		} `json:"pit"`
	} `json:"tables"`

	Rib struct {
		RouteRenewLifetime time.Duration `json:"route_renew_lifetime"`
		QueueSize          int           `json:"queue_size"`
		// TrustAnchors lists the hex-encoded ed25519 public keys allowed to
		// sign Prefix Announcements the rib manager will install routes
		// from (§3: PAs are verified against a configured trust anchor,
		// not merely checked for internal signature consistency).
		TrustAnchors []string `json:"trust_anchors"`
	} `json:"rib"`
}

// DefaultConfig returns the defaults that cmd decodes the configuration
// file over, matching the constants named in the strategy spec.
func DefaultConfig() *Config {
	c := new(Config)
	c.Core.LogLevel = "INFO"
	c.Fw.Threads = 1
	c.Fw.QueueSize = 1024
	c.Fw.RetxSuppression.Initial = 10 * time.Millisecond
	c.Fw.RetxSuppression.Max = 250 * time.Millisecond
	c.Tables.Pit.QueueSize = 1024
	c.Rib.RouteRenewLifetime = 10 * time.Minute
	c.Rib.QueueSize = 1024
	return c
}

// C is the active, immutable-after-startup configuration.
var C = DefaultConfig()
