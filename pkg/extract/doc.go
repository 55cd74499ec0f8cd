// Package extract turns free text into a [model.Diagram].
//
// # Extractors
//
// An [Extractor] is the upstream collaborator of the rendering core. Two
// implementations are provided:
//
//   - [Client] posts the text to an extraction service over HTTP and decodes
//     its [Response].
//   - [Heuristic] runs a small set of regular-expression rules locally. It is
//     what `textuml serve` answers with and what `--local` uses.
//
// # Failures
//
// Extraction can fail in two distinct ways, reported with distinct codes:
//
//   - The service answered with success=false. The error carries
//     [errors.ErrCodeExtraction] and the service's message verbatim.
//   - The service could not be reached, or answered with something that is
//     not a [Response]. The error carries [errors.ErrCodeTransport].
//
// Neither is retried. A new call is a new user action.
//
// [errors.ErrCodeExtraction]: github.com/matzehuels/textuml/pkg/errors.ErrCodeExtraction
// [errors.ErrCodeTransport]: github.com/matzehuels/textuml/pkg/errors.ErrCodeTransport
package extract
