// Package llm provides language model clients for the insight features.
// It supports Anthropic, OpenAI and Gemini, with retry logic, rate limiting,
// and response caching layered on top by Service.
package llm
