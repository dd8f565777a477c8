package events

import (
	"context"
	"errors"
	"time"
)

type Type string

const (
	PostCreated    Type = "post_created"
	PostEdited     Type = "post_edited"
	PostLiked      Type = "post_liked"
	PostUnliked    Type = "post_unliked"
	UserFollowed   Type = "user_followed"
	UserUnfollowed Type = "user_unfollowed"
)

// Event describes one social action.
// SubjectID is the user whose profile the action concerns: the post's author for
// post events, the followed user for follow events.
type Event struct {
	Type      Type        `json:"type"`
	ActorID   uint        `json:"actor_id"`
	SubjectID uint        `json:"subject_id"`
	PostID    uint        `json:"post_id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	At        time.Time   `json:"at"`
}

// Publisher delivers events somewhere. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// MultiPublisher fans an event out to every publisher and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps published events in memory.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.Events = append(r.Events, event)
	return nil
}

// Types lists the recorded event types in order.
func (r *Recorder) Types() []Type {
	types := make([]Type, 0, len(r.Events))
	for _, e := range r.Events {
		types = append(types, e.Type)
	}
	return types
}
