// Package connectors provides document source implementations.
// Each connector knows how to enumerate documents from one kind of
// location and hand them to the extraction pipeline as plain text.
package connectors
