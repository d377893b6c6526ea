// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - QuestionIndex: embedding-backed storage and retrieval of question text
//   - EmbeddingService: generates vector embeddings for index and queries
//   - LLMService: the generative model the pipeline calls
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
//   - PromptStore: user-customisable prompt templates; services fall back
//     to embedded defaults when nil
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: any adapter package
package driven
