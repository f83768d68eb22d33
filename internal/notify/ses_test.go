package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSESClient struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSESClient) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESNotifier(t *testing.T) {
	cfg := SESConfig{
		From:             "tasks@example.com",
		To:               "admin@example.com",
		ConfigurationSet: "tracking",
	}

	t.Run("sends a plain-text email", func(t *testing.T) {
		buf, log := logger.NewBufferedLogger()
		client := &fakeSESClient{}
		n := NewSESNotifier(cfg, log, WithSESClient(client))

		require.NoError(t, n.Notify(context.Background(), sampleTask()))

		require.NotNil(t, client.input)
		assert.Equal(t, []string{"admin@example.com"}, client.input.Destination.ToAddresses)
		assert.Equal(t, "tasks@example.com", aws.ToString(client.input.Source))
		assert.Equal(t, "New task created: Write report", aws.ToString(client.input.Message.Subject.Data))
		assert.Contains(t, aws.ToString(client.input.Message.Body.Text.Data), "Title: Write report")
		assert.Nil(t, client.input.Message.Body.Html)
		assert.Equal(t, "tracking", aws.ToString(client.input.ConfigurationSetName))
		assert.Contains(t, buf.String(), "msg-1")
	})

	t.Run("wraps client errors", func(t *testing.T) {
		_, log := logger.NewBufferedLogger()
		boom := errors.New("throttled")
		n := NewSESNotifier(cfg, log, WithSESClient(&fakeSESClient{err: boom}))

		err := n.Notify(context.Background(), sampleTask())
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "ses: send email")
	})

	t.Run("requires addresses", func(t *testing.T) {
		_, log := logger.NewBufferedLogger()
		client := &fakeSESClient{}

		err := NewSESNotifier(SESConfig{From: "tasks@example.com"}, log, WithSESClient(client)).
			Notify(context.Background(), sampleTask())
		assert.Error(t, err)

		err = NewSESNotifier(SESConfig{To: "admin@example.com"}, log, WithSESClient(client)).
			Notify(context.Background(), sampleTask())
		assert.Error(t, err)
		assert.Nil(t, client.input, "client should not be called without addresses")
	})

	t.Run("defaults region", func(t *testing.T) {
		n := NewSESNotifier(SESConfig{}, nil)
		assert.Equal(t, "us-east-1", n.cfg.Region)
	})
}
