package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/onlysaid/onlysaid-kb/pkg/events"
	"github.com/onlysaid/onlysaid-kb/pkg/log"
	"github.com/onlysaid/onlysaid-kb/pkg/metrics"
	"github.com/onlysaid/onlysaid-kb/pkg/types"
)

// tokenDelay paces token events so slow clients are not overwhelmed
const tokenDelay = 10 * time.Millisecond

// streamTokens serves one streaming answer as server-sent events. The
// session outlives a client disconnect so pollers can read the partial
// content until the TTL reaps it; a stream that ends normally removes its
// session on the way out.
func (s *Server) streamTokens(w http.ResponseWriter, r *http.Request, q *types.QueryRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sess, err := s.manager.Sessions().Create(q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logger := log.WithSessionID(sess.ID)

	metrics.SessionsLive.Inc()
	defer metrics.SessionsLive.Dec()

	s.manager.Events().Publish(&events.Event{
		Type:        events.EventStreamStarted,
		WorkspaceID: q.WorkspaceID,
		Metadata:    map[string]string{"session_id": sess.ID},
	})
	defer s.manager.Events().Publish(&events.Event{
		Type:        events.EventStreamEnded,
		WorkspaceID: q.WorkspaceID,
		Metadata:    map[string]string{"session_id": sess.ID},
	})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Session-ID", sess.ID)

	fmt.Fprint(w, "event: start\ndata: {}\n\n")
	flusher.Flush()

	stream, err := s.manager.StreamAnswer(r.Context(), q)
	if err != nil {
		logger.Error().Err(err).Msg("could not start answer stream")
		s.manager.Sessions().Complete(sess.ID)
		fmt.Fprint(w, "event: end\ndata: {}\n\n")
		flusher.Flush()
		s.manager.Sessions().Remove(sess.ID)
		return
	}

	disconnected := false
	for delta := range stream.Deltas() {
		token := delta.Token()
		s.manager.Sessions().Append(sess.ID, token)
		metrics.TokensStreamed.Inc()

		data, _ := json.Marshal(map[string]string{"token": token})
		fmt.Fprintf(w, "event: token\ndata: %s\n\n", data)
		flusher.Flush()

		select {
		case <-time.After(tokenDelay):
		case <-r.Context().Done():
			disconnected = true
		}
		if disconnected {
			break
		}
	}

	// A stream error still completes the session with whatever accumulated
	s.manager.Sessions().Complete(sess.ID)

	if disconnected {
		logger.Info().Msg("client disconnected, session left for TTL expiry")
		return
	}
	if err := stream.Err(); err != nil {
		logger.Error().Err(err).Msg("streaming error")
	}

	fmt.Fprint(w, "event: end\ndata: {}\n\n")
	flusher.Flush()
	s.manager.Sessions().Remove(sess.ID)
}
