/*
Package events provides an in-process broker for knowledge base lifecycle
events.

The manager publishes an event at each lifecycle transition (registered,
running, error, enabled, disabled, deleted) and when indexes build or
streams start and end. Subscribers receive events on buffered channels; a
subscriber that falls behind misses events rather than blocking the
broker. Events are advisory: all authoritative state lives in the status
store.
*/
package events
