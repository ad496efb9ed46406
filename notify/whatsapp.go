package notify

import (
	"context"
	"fmt"
	"strings"

	"aicruel-backend/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// WhatsAppNotifier sends reminders through Twilio's WhatsApp gateway.
// Twilio addresses WhatsApp endpoints as "whatsapp:+<E.164>".
type WhatsAppNotifier struct {
	client *twilio.RestClient
	from   string
}

func NewWhatsAppNotifier(client *twilio.RestClient, from string) *WhatsAppNotifier {
	return &WhatsAppNotifier{client: client, from: from}
}

func (n *WhatsAppNotifier) Channel() Channel { return ChannelWhatsApp }

func (n *WhatsAppNotifier) Send(ctx context.Context, recipient string, p Payload) Outcome {
	if n.client == nil || n.from == "" {
		return failure(ChannelWhatsApp, recipient, ErrorKindConfig, "WhatsApp configuration incomplete")
	}
	if !utils.ValidatePhone(recipient) {
		return failure(ChannelWhatsApp, recipient, ErrorKindRecipient, fmt.Sprintf("invalid phone number %q", recipient))
	}
	if err := ctx.Err(); err != nil {
		return failure(ChannelWhatsApp, recipient, ErrorKindProvider, err.Error())
	}

	from := n.from
	if !strings.HasPrefix(from, "whatsapp:") {
		from = "whatsapp:" + from
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:" + recipient)
	params.SetFrom(from)
	params.SetBody(WhatsAppBody(p))

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		return failure(ChannelWhatsApp, recipient, ErrorKindProvider, err.Error())
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	return success(ChannelWhatsApp, recipient, sid)
}
