/*
Package log provides structured logging using zerolog.

Init configures the global logger once at startup (level, JSON or console
output). Helpers return loggers pre-tagged with common fields:
WithComponent, WithWorkspaceID, WithKB, WithSessionID. All log lines are
JSON in production so they can be filtered by workspace and knowledge
base.

	logger := log.WithKB("ws1", "kb1")
	logger.Info().Msg("knowledge base running")
*/
package log
