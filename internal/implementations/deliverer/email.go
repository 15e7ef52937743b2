package deliverer

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/reminder"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Email sends notifications through Amazon SES.
type Email struct {
	client sesAPI
	// This address must be verified with Amazon SES.
	sender    string
	recipient string
}

func NewEmail(awsConfig aws.Config, sender string, recipient string) *Email {
	return newEmail(ses.NewFromConfig(awsConfig), sender, recipient)
}

func newEmail(client sesAPI, sender string, recipient string) *Email {
	if client == nil {
		panic(e.NewNilArgumentError("client"))
	}
	return &Email{client: client, sender: sender, recipient: recipient}
}

func (m *Email) Deliver(ctx context.Context, n reminder.Notification, behavior reminder.DisplayBehavior) error {
	if !behavior.ShowAlert {
		return nil
	}
	_, err := m.client.SendEmail(
		ctx,
		&ses.SendEmailInput{
			Source: aws.String(m.sender),
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{m.recipient},
			},
			Message: &types.Message{
				Subject: &types.Content{Data: aws.String(n.Title)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(n.Body)},
				},
			},
		},
	)
	return err
}

func (m *Email) Available(ctx context.Context) bool {
	return m.sender != "" && m.recipient != ""
}
