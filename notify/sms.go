package notify

import (
	"context"
	"fmt"

	"aicruel-backend/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSNotifier sends reminder texts through Twilio.
type SMSNotifier struct {
	client *twilio.RestClient
	from   string
}

func NewSMSNotifier(client *twilio.RestClient, from string) *SMSNotifier {
	return &SMSNotifier{client: client, from: from}
}

func (n *SMSNotifier) Channel() Channel { return ChannelSMS }

func (n *SMSNotifier) Send(ctx context.Context, recipient string, p Payload) Outcome {
	if n.client == nil || n.from == "" {
		return failure(ChannelSMS, recipient, ErrorKindConfig, "SMS configuration incomplete")
	}
	if !utils.ValidatePhone(recipient) {
		return failure(ChannelSMS, recipient, ErrorKindRecipient, fmt.Sprintf("invalid phone number %q", recipient))
	}
	if err := ctx.Err(); err != nil {
		return failure(ChannelSMS, recipient, ErrorKindProvider, err.Error())
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(n.from)
	params.SetBody(SMSBody(p))

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		return failure(ChannelSMS, recipient, ErrorKindProvider, err.Error())
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	return success(ChannelSMS, recipient, sid)
}
