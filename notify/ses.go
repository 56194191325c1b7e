package notify

import (
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/pkg/errors"
)

const charset = "UTF-8"

// SES sends plain text mail from a fixed source address. Both the source and,
// while the account is in the sandbox, every recipient must be verified.
type SES struct {
	api    sesiface.SESAPI
	source string
}

func NewSES(api sesiface.SESAPI, source string) *SES {
	return &SES{api: api, source: source}
}

func (s *SES) Send(ctx context.Context, m Message) error {
	_, err := s.api.SendEmailWithContext(ctx, &ses.SendEmailInput{
		Source: &s.source,
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(m.To)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{Charset: aws.String(charset), Data: aws.String(m.Subject)},
			Body: &ses.Body{
				Text: &ses.Content{Charset: aws.String(charset), Data: aws.String(m.Body)},
			},
		},
	})
	return errors.WithStack(err)
}
