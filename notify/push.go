package notify

import (
	"context"
	"log"
)

// PushNotifier is a queued stub: it accepts every payload and logs it.
// Web-push delivery sits behind the same Outcome contract once wired up.
type PushNotifier struct{}

func NewPushNotifier() *PushNotifier { return &PushNotifier{} }

func (n *PushNotifier) Channel() Channel { return ChannelPush }

func (n *PushNotifier) Send(ctx context.Context, recipient string, p Payload) Outcome {
	log.Printf("Push notification queued for user %s: %s", recipient, PushTitle(p))
	return success(ChannelPush, recipient, "")
}
