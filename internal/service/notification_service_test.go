package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/events"
)

type recordingSink struct {
	got  []events.EventType
	full bool
}

func (s *recordingSink) Enqueue(event events.Event) bool {
	if s.full {
		return false
	}
	s.got = append(s.got, event.Type)
	return true
}

func TestNotificationInvalidatesCacheOnCatalogEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	published := &fakePublishedCache{}
	sink := &recordingSink{}
	NewNotificationService(dispatcher, nil, published, sink).RegisterHandlers()
	ctx := context.Background()

	published.Set(ctx, []domain.Wisata{{ID: 1}}, published.Version(ctx))
	_ = dispatcher.Publish(ctx, events.New(events.EventUserReviewCreated, 1, nil, nil))
	assert.True(t, published.ok, "reviews do not touch the listing")

	_ = dispatcher.Publish(ctx, events.New(events.EventImageDeleted, 1, nil, nil))
	assert.False(t, published.ok)
	assert.Equal(t, 1, published.invalidated)

	assert.Equal(t, []events.EventType{events.EventUserReviewCreated, events.EventImageDeleted}, sink.got)
}

func TestNotificationToleratesFullSink(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	NewNotificationService(dispatcher, nil, nil, &recordingSink{full: true}).RegisterHandlers()

	assert.NoError(t, dispatcher.Publish(context.Background(), events.New(events.EventWisataCreated, 1, nil, nil)))
}
