/*
Package session tracks in-flight streaming answer sessions.

Sessions live only in process memory: a replica can only report on streams
it started. Each session records the originating query, the content
streamed so far, and a completion flag. A timer reaps every session when
its TTL (thirty minutes by default) elapses, so sessions abandoned by a
disconnected client never accumulate. Session ids look like
stream_<16 hex chars>.
*/
package session
