// Package html provides a Normaliser for HTML pages. Markup is tokenised
// rather than parsed into a tree, so broken pages still yield their text.
package html
