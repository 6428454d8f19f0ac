// Package llm provides the text-generation capability surface used by
// the turn engine, plus the interchangeable providers that implement it.
//
// # Overview
//
// The engine depends on three operations: judge (is an attribute
// relevant to this turn), extract (pull a new attribute value out of
// the user's input), and generate_response (produce the assistant
// reply). Providers implement a single low-level Completer primitive;
// the capability adapter layers the task prompts on top and normalizes
// the no-information sentinel, so the engine never sees raw model
// output.
//
// # Providers
//
//   - mock: canned responses for tests and offline development
//   - ollama: local Ollama /api/generate endpoint
//   - anthropic: Claude messages API
//   - openai: chat completions API
//
// Providers are selected at construction time via New and injected into
// the engine; there is no process-wide provider singleton.
package llm
