package realtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/livepoll-dev/server/pkg/internal/livestate"
	"github.com/livepoll-dev/server/pkg/internal/models"
	"github.com/livepoll-dev/server/pkg/internal/services"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

// Coordinator validates inbound channel events, writes through the durable
// store, keeps the live registry in step, and fans results out via the hub.
// Validation and state-conflict failures only ever reach the originating
// peer; nothing here is fatal to the process.
type Coordinator struct {
	store    Store
	registry *livestate.Registry
	hub      *RoomHub

	// StrictJoin rejects joins on unknown codes instead of creating a
	// session on the fly.
	StrictJoin bool
}

func NewCoordinator(store Store, registry *livestate.Registry, hub *RoomHub) *Coordinator {
	return &Coordinator{
		store:    store,
		registry: registry,
		hub:      hub,
	}
}

// Dispatch routes one decoded frame from a peer. Unknown events and
// malformed payloads turn into error events scoped to that peer.
func (c *Coordinator) Dispatch(ctx context.Context, peer *Peer, frame Frame) {
	switch frame.Event {
	case EventJoinSession:
		var payload JoinSessionPayload
		if err := jsoniter.Unmarshal(frame.Payload, &payload); err != nil {
			peer.SendError(CodeValidationError, "malformed join-session payload")
			return
		}
		c.JoinSession(ctx, peer, payload)
	case EventCreatePoll:
		var payload CreatePollPayload
		if err := jsoniter.Unmarshal(frame.Payload, &payload); err != nil {
			peer.SendError(CodeValidationError, "malformed create-poll payload")
			return
		}
		c.CreatePoll(ctx, peer, payload)
	case EventSubmitVote:
		var payload SubmitVotePayload
		if err := jsoniter.Unmarshal(frame.Payload, &payload); err != nil {
			peer.SendError(CodeValidationError, "malformed submit-vote payload")
			return
		}
		c.SubmitVote(ctx, peer, payload)
	case EventEndPoll:
		var payload EndPollPayload
		if err := jsoniter.Unmarshal(frame.Payload, &payload); err != nil {
			peer.SendError(CodeValidationError, "malformed end-poll payload")
			return
		}
		c.EndPoll(ctx, peer, payload)
	case EventEndSession:
		var payload EndSessionPayload
		if err := jsoniter.Unmarshal(frame.Payload, &payload); err != nil {
			peer.SendError(CodeValidationError, "malformed end-session payload")
			return
		}
		c.EndSession(ctx, peer, payload)
	default:
		peer.SendError(CodeValidationError, fmt.Sprintf("unsupported event %q", frame.Event))
	}
}

// Disconnect removes the peer from every room. Never fails.
func (c *Coordinator) Disconnect(peer *Peer) {
	c.hub.Disconnect(peer)
}

// JoinSession subscribes the peer to the room under the code and replays the
// session's polls to it. Without StrictJoin a missing session is created on
// the fly rather than treated as an error.
func (c *Coordinator) JoinSession(ctx context.Context, peer *Peer, payload JoinSessionPayload) {
	code := strings.TrimSpace(payload.SessionCode)
	if code == "" {
		peer.SendError(CodeValidationError, "sessionCode is required")
		return
	}

	session, err := c.store.FindActiveSession(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("Unable to look up session on join...")
		peer.SendError(CodePersistenceError, "unable to look up session")
		return
	}
	if session == nil {
		if c.StrictJoin {
			peer.SendError(CodeNotFound, "invalid session code")
			return
		}
		session, err = c.findOrCreateSession(ctx, code)
		if err != nil {
			log.Error().Err(err).Str("code", code).Msg("Unable to create session on join...")
			peer.SendError(CodePersistenceError, "unable to create session")
			return
		}
	}

	c.hub.Subscribe(peer, code)
	c.registry.Ensure(code)

	if err := peer.Send(EventSessionJoined, SessionJoinedPayload{
		SessionID:   session.ID,
		SessionCode: code,
		Message:     "Joined session",
	}); err != nil {
		log.Debug().Err(err).Str("code", code).Msg("Unable to confirm join to peer...")
	}

	for _, pollId := range session.PollIDs {
		poll, err := c.store.FindPoll(ctx, pollId)
		if err != nil || poll == nil {
			log.Warn().Err(err).Uint("poll", pollId).Str("code", code).
				Msg("Session references a poll that cannot be loaded, skipping...")
			continue
		}

		responses, err := c.store.FindResponsesForPoll(ctx, poll.ID)
		if err != nil {
			log.Warn().Err(err).Uint("poll", poll.ID).Msg("Unable to load poll responses on join...")
			continue
		}

		metric := services.CountResponses(poll.Options, responses)
		c.registry.Hydrate(code, poll.ID, livestate.LivePoll{
			Question: poll.Question,
			Options:  poll.Options,
			Metric:   metric,
			IsActive: poll.IsActive,
		})

		if err := peer.Send(EventNewPoll, NewPollPayload{
			PollID:   poll.ID,
			Question: poll.Question,
			Options:  poll.Options,
			Duration: poll.Duration,
			IsActive: poll.IsActive,
			Results:  metric.ByOption,
		}); err != nil {
			log.Debug().Err(err).Uint("poll", poll.ID).Msg("Unable to announce poll to peer...")
		}
	}

	log.Info().Str("code", code).Str("user", payload.UserID).Msg("User joined session.")
}

// CreatePoll validates the option set, writes the poll and its session link
// durably, hydrates the registry and announces the poll to the room.
func (c *Coordinator) CreatePoll(ctx context.Context, peer *Peer, payload CreatePollPayload) {
	code := strings.TrimSpace(payload.SessionCode)
	if code == "" {
		peer.SendError(CodeValidationError, "sessionCode is required")
		return
	}
	if _, err := services.NormalizePollOptions(payload.Options); err != nil {
		peer.SendError(CodeValidationError, err.Error())
		return
	}
	if strings.TrimSpace(payload.Question) == "" {
		peer.SendError(CodeValidationError, services.ErrInvalidQuestion.Error())
		return
	}

	session, err := c.findOrCreateSession(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("Unable to resolve session for poll creation...")
		peer.SendError(CodePersistenceError, "unable to resolve session")
		return
	}

	poll, err := c.store.CreatePoll(ctx, *session, payload.Question, payload.Options, payload.Duration)
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("Unable to create poll...")
		peer.SendError(CodePersistenceError, "unable to create poll")
		return
	}

	// The append is not compensated when it fails after the poll row landed;
	// the hourly maintenance pass re-links orphaned polls.
	if err := c.store.AppendPollToSession(ctx, *session, poll.ID); err != nil {
		log.Warn().Err(err).Uint("poll", poll.ID).Str("code", code).
			Msg("Poll created but not appended to its session...")
		peer.SendError(CodePersistenceError, "unable to attach poll to session")
		return
	}

	metric := services.CountResponses(poll.Options, nil)
	c.registry.Hydrate(code, poll.ID, livestate.LivePoll{
		Question: poll.Question,
		Options:  poll.Options,
		Metric:   metric,
		IsActive: true,
	})

	c.hub.Publish(code, EventNewPoll, NewPollPayload{
		PollID:   poll.ID,
		Question: poll.Question,
		Options:  poll.Options,
		Duration: poll.Duration,
		IsActive: true,
		Results:  metric.ByOption,
	})

	log.Info().Uint("poll", poll.ID).Str("code", code).Msg("New poll created in session.")
}

// SubmitVote records one response and rebroadcasts the full recomputed tally
// to the poll's room. The option index is checked against the current
// durable record, never a cached copy, and the tally is always recomputed
// over the complete durable response set.
func (c *Coordinator) SubmitVote(ctx context.Context, peer *Peer, payload SubmitVotePayload) {
	if strings.TrimSpace(payload.UserID) == "" {
		peer.SendError(CodeValidationError, "userId is required")
		return
	}

	poll, err := c.store.FindPoll(ctx, payload.PollID)
	if err != nil {
		log.Error().Err(err).Uint("poll", payload.PollID).Msg("Unable to look up poll for vote...")
		peer.SendError(CodePersistenceError, "unable to look up poll")
		return
	}
	if poll == nil {
		peer.SendError(CodeNotFound, services.ErrPollNotFound.Error())
		return
	}
	if !poll.IsActive {
		peer.SendError(CodeStateConflict, services.ErrPollInactive.Error())
		return
	}
	if payload.SelectedOption < 0 || payload.SelectedOption >= len(poll.Options) {
		peer.SendError(CodeValidationError, services.ErrInvalidOption.Error())
		return
	}

	if _, err := c.store.CreateResponse(ctx, *poll, payload.UserID, payload.SelectedOption); err != nil {
		log.Error().Err(err).Uint("poll", poll.ID).Msg("Unable to record response...")
		peer.SendError(CodePersistenceError, "unable to record response")
		return
	}

	responses, err := c.store.FindResponsesForPoll(ctx, poll.ID)
	if err != nil {
		log.Error().Err(err).Uint("poll", poll.ID).Msg("Unable to recompute tally...")
		peer.SendError(CodePersistenceError, "unable to recompute tally")
		return
	}
	metric := services.CountResponses(poll.Options, responses)

	code, ok := c.sessionCodeFor(ctx, poll)
	if !ok {
		log.Warn().Uint("poll", poll.ID).Msg("Vote recorded for a poll with no resolvable session...")
		return
	}

	c.registry.Hydrate(code, poll.ID, livestate.LivePoll{
		Question: poll.Question,
		Options:  poll.Options,
		Metric:   metric,
		IsActive: poll.IsActive,
	})

	c.hub.Publish(code, EventPollUpdated, PollUpdatedPayload{
		PollID: poll.ID,
		Results: PollResults{
			Question:  poll.Question,
			Options:   poll.Options,
			Responses: metric.ByOption,
		},
		IsActive: poll.IsActive,
	})

	log.Info().Uint("poll", poll.ID).Str("user", payload.UserID).Msg("Response recorded for poll.")
}

// EndPoll closes voting on a poll and broadcasts the final tally. Untracked
// polls are ignored without surfacing an error.
func (c *Coordinator) EndPoll(ctx context.Context, peer *Peer, payload EndPollPayload) {
	code := strings.TrimSpace(payload.SessionCode)
	live, ok := c.registry.Get(code, payload.PollID)
	if !ok {
		log.Debug().Uint("poll", payload.PollID).Str("code", code).
			Msg("End-poll for an untracked poll, ignoring...")
		return
	}

	if err := c.store.SetPollActive(ctx, payload.PollID, false); err != nil {
		log.Error().Err(err).Uint("poll", payload.PollID).Msg("Unable to deactivate poll...")
		if peer != nil {
			peer.SendError(CodePersistenceError, "unable to end poll")
		}
		return
	}

	metric := live.Metric
	if responses, err := c.store.FindResponsesForPoll(ctx, payload.PollID); err == nil {
		metric = services.CountResponses(live.Options, responses)
	} else {
		log.Warn().Err(err).Uint("poll", payload.PollID).
			Msg("Unable to recompute final tally, broadcasting last known one...")
	}

	c.registry.Hydrate(code, payload.PollID, livestate.LivePoll{
		Question: live.Question,
		Options:  live.Options,
		Metric:   metric,
		IsActive: false,
	})

	c.hub.Publish(code, EventPollUpdated, PollUpdatedPayload{
		PollID: payload.PollID,
		Results: PollResults{
			Question:  live.Question,
			Options:   live.Options,
			Responses: metric.ByOption,
		},
		IsActive: false,
	})

	log.Info().Uint("poll", payload.PollID).Str("code", code).Msg("Poll ended.")
}

// EndSession marks the session ended durably, notifies the room and evicts
// the live projection. A missing session is ignored silently.
func (c *Coordinator) EndSession(ctx context.Context, peer *Peer, payload EndSessionPayload) {
	code := strings.TrimSpace(payload.SessionCode)
	if code == "" {
		return
	}

	session, err := c.store.EndSession(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("Unable to end session...")
		if peer != nil {
			peer.SendError(CodePersistenceError, "unable to end session")
		}
		return
	}
	if session == nil {
		log.Debug().Str("code", code).Msg("End-session for an unknown code, ignoring...")
		return
	}

	c.hub.Publish(code, EventSessionEnded, SessionEndedPayload{
		SessionCode: code,
		Message:     "Session has ended",
	})
	c.registry.Remove(code)

	log.Info().Str("code", code).Msg("Session ended.")
}

// findOrCreateSession resolves the active session under code, creating one
// when none exists. Two concurrent creations race on the store's unique
// active-code constraint; the loser re-reads and joins the winner's session,
// so a code never identifies more than one active session.
func (c *Coordinator) findOrCreateSession(ctx context.Context, code string) (*models.Session, error) {
	session, err := c.store.FindActiveSession(ctx, code)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	created, err := c.store.CreateSession(ctx, code)
	if err == nil {
		return &created, nil
	}

	session, findErr := c.store.FindActiveSession(ctx, code)
	if findErr == nil && session != nil {
		return session, nil
	}
	return nil, err
}

// sessionCodeFor resolves a poll's room key, preferring the live registry
// and falling back to the durable record.
func (c *Coordinator) sessionCodeFor(ctx context.Context, poll *models.Poll) (string, bool) {
	if code, ok := c.registry.SessionFor(poll.ID); ok {
		return code, true
	}

	session, err := c.store.FindSessionByID(ctx, poll.SessionID)
	if err != nil || session == nil {
		return "", false
	}
	return session.Code, true
}
