// Package normalisers provides implementations of the Normaliser interface
// for the document formats the extraction pipeline reads. Each normaliser
// knows how to turn one format's raw bytes into plain text.
package normalisers
