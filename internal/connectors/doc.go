// Package connectors provides document sources that feed the deduplication
// pipeline. Each source knows how to load documents from one kind of
// location (a directory tree, a YAML manifest) and implements
// driven.DocumentSource.
package connectors
