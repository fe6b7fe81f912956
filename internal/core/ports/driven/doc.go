// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - LLMService: Text generation against one provider
//   - BookmarkStore: The host bookmark library being organized
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - PromptStore: User-customisable prompt templates. When nil,
//     services fall back to embedded defaults.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
