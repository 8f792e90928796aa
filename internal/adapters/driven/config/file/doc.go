// Package file persists neardup settings as a TOML document, by default
// at ~/.neardup/config.toml. The settings service reads and writes it
// through the driven.ConfigStore port.
package file
