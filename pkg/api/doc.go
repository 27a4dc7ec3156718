/*
Package api provides the HTTP surface for the knowledge base service.

Handlers unmarshal requests and invoke the manager; no orchestration logic
lives here. The router is chi with a recoverer and a Prometheus metrics
middleware.

# Routes

	POST /api/register                       queue a knowledge base registration
	GET  /api/view/{workspace}?kb_id=...     data sources, folder trees, documents
	GET  /api/kb_status/{workspace}/{kb}     lifecycle status
	GET  /api/documents/{kb}                 documents located by kb id alone
	POST /api/sync                           re-ingest every running KB in a workspace
	POST /api/update_kb_status               toggle running/disabled
	POST /api/delete_kb                      remove a knowledge base entirely
	POST /api/query                          RAG answer, blocking or streaming
	POST /api/retrieve                       raw similarity retrieval
	GET  /api/query_status/{session}         poll a streaming session
	GET  /healthz                            status and vector store reachability
	GET  /metrics                            Prometheus metrics

# Streaming

A streaming query responds as server-sent events:

	event: start
	data: {}

	event: token
	data: {"token": "..."}

	event: end
	data: {}

Tokens are paced ten milliseconds apart. The session id is exposed in the
X-Session-ID response header. If the client disconnects mid-stream the
session is marked complete with the content delivered so far and left in
the registry until its TTL expires, so a poller can recover the partial
answer through /api/query_status.
*/
package api
