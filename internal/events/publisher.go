// Package events is the boundary to the realtime propagation layer. Pushing
// ad changes to connected clients is handled by an external pub/sub service;
// this package only defines the interface the services publish through.
package events

import "context"

// AdEvent names a change to an ad that connected clients may care about.
type AdEvent string

const (
	AdCreated  AdEvent = "ad.created"
	AdFeatured AdEvent = "ad.featured"
	AdDeleted  AdEvent = "ad.deleted"
)

// Publisher pushes ad change events to the realtime layer. Implementations
// must be non-blocking best-effort; a lost event only delays the next refresh.
type Publisher interface {
	AdChanged(ctx context.Context, event AdEvent, adID string)
}

// NopPublisher discards events. Used when no realtime layer is configured.
type NopPublisher struct{}

func (NopPublisher) AdChanged(context.Context, AdEvent, string) {}
