/*
Package config loads server configuration.

Precedence is defaults, then an optional YAML file, then environment
overrides (KB_LISTEN_ADDR, REDIS_ADDR, REDIS_PASSWORD, QDRANT_URL,
QDRANT_API_KEY, EMBED_MODEL, OLLAMA_API_BASE_URL, OPENAI_MODEL,
OPENAI_API_KEY, OPENAI_API_BASE_URL, KB_LOG_LEVEL).
*/
package config
