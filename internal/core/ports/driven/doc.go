// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Transforms raw documents into indexed form
//   - NormaliserRegistry: Selects appropriate normaliser
//   - PostProcessorPipeline: Splits documents into chunks
//   - DocumentStore: Document and chunk persistence
//   - ProjectStore: Project persistence
//   - ConfigStore: Application configuration
//   - Renderer: Turns highlighted text into an output format
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SearchEngine: Keyword search (bleve). Without it, search returns ErrSearchUnavailable.
//   - ContentCache: Document content cache. Without it, content is read from the store every time.
//   - CapabilityProbe: Terminal detection. Without it, output is treated as a non-colour pipe.
//   - Clock: Time source. Defaults to the system clock.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
