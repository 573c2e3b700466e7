// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Extractor: Recovers text and facts from submitted documents
//   - Classifier: Describes sanitized text through the classification service
//   - CorpusStore: Metadata record persistence
//   - UploadStore: Raw upload persistence
//   - ConfigStore: Application configuration
//
// # Supporting Interfaces
//
//   - LLMService: Language model transport used by the classifier
//   - PromptStore: Editable prompt templates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
