// Package extractors provides the registry that picks a document extractor
// for an upload. Each subpackage implements driven.Extractor for one format.
//
// Extractors are registered with the Registry at startup.
package extractors
