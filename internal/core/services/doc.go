// Package services implements the driving ports. DedupService runs the
// shingle, sketch, bucket and verify pipeline over a batch; SettingsService
// layers stored overrides onto the defaults and validates them.
//
// Hashers, the candidate index, storage and configuration all arrive as
// driven ports, so nothing here imports an adapter.
package services
