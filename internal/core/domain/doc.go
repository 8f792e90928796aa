// Package domain holds the value types shared by every layer of neardup:
// documents and their change events, MinHash tags and fingerprints, the
// resolver settings, and the per-batch report with one outcome per
// submitted document.
//
// Only the standard library may be imported here. Services, ports and
// adapters all depend on domain; domain depends on none of them.
package domain
