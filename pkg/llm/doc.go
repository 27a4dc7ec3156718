/*
Package llm defines the language model contract and its langchaingo
adapters.

Providers emit streaming items in different shapes; Delta is the tagged
variant (text, struct, raw) and Token normalizes any of them to plain
text. Stream is a lazy delta sequence with a terminal error, consumed like
a channel and checked with Err after the channel closes, so a mid-stream
backend failure still delivers the tokens produced before it.

OpenAICompatible wraps any OpenAI-style completion endpoint (DeepSeek,
OpenAI, local gateways) through langchaingo. NewOllamaEmbedder builds an
embedder served by an Ollama instance; the result satisfies the vector
store's Embedder contract directly.
*/
package llm
