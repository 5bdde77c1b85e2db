package broadcast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liquers-go/liquers/pkg/asset/broadcast"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	b := broadcast.New()
	ch1, un1 := b.Subscribe()
	defer un1()
	ch2, un2 := b.Subscribe()
	defer un2()

	b.Publish(broadcast.Message{Status: "submitted"})

	assert.Equal(t, "submitted", (<-ch1).Status)
	assert.Equal(t, "submitted", (<-ch2).Status)
}

func TestFullSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := broadcast.New()
	ch, un := b.Subscribe()
	defer un()

	for i := 0; i < broadcast.Capacity+10; i++ {
		b.Publish(broadcast.Message{Status: i})
	}

	count := 0
drain:
	for {
		select {
		case <-ch:
			count++
		default:
			break drain
		}
	}
	assert.Equal(t, broadcast.Capacity, count)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := broadcast.New()
	ch, un := b.Subscribe()
	un()

	_, ok := <-ch
	assert.False(t, ok)
}

func TestPublishAfterUnsubscribeDoesNotPanic(t *testing.T) {
	b := broadcast.New()
	_, un := b.Subscribe()
	un()

	b.Publish(broadcast.Message{Status: "ready"})
}
