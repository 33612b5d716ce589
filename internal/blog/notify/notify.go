// Package notify announces newly stored blog artifacts over SNS and SES.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	apperrors "blog-generator/internal/common/errors"
	"blog-generator/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/samber/lo"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	ChannelSNS = "sns"
	ChannelSES = "ses"
)

// Event describes one successfully stored artifact.
type Event struct {
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
	Topic  string `json:"topic"`
	Size   int    `json:"size"`
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSNotifier struct {
	client   SNSService
	topicARN string
}

func NewSNSNotifier(client SNSService, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

// Notify publishes the event as a JSON message to the configured topic.
func (n *SNSNotifier) Notify(ctx context.Context, event Event) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return apperrors.NewNotificationFailedError(ChannelSNS, err)
	}
	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(snsSubject(event)),
		Message:  aws.String(string(msg)),
	})
	if err != nil {
		return apperrors.NewNotificationFailedError(ChannelSNS, err)
	}
	return nil
}

type SESNotifier struct {
	client    SESService
	fromEmail string
	toEmails  []string
}

// NewSESNotifier trims recipients and drops blanks and duplicates.
func NewSESNotifier(client SESService, fromEmail string, toEmails []string) *SESNotifier {
	recipients := lo.Uniq(lo.Compact(lo.Map(toEmails, func(e string, _ int) string {
		return strings.TrimSpace(e)
	})))
	return &SESNotifier{client: client, fromEmail: fromEmail, toEmails: recipients}
}

func (n *SESNotifier) Recipients() []string { return n.toEmails }

func (n *SESNotifier) Notify(ctx context.Context, event Event) error {
	if len(n.toEmails) == 0 {
		return apperrors.NewNotificationFailedError(ChannelSES, fmt.Errorf("no recipients"))
	}
	body := fmt.Sprintf("A new blog on %q was stored.\n\nBucket: %s\nKey: %s\nSize: %d bytes\n",
		event.Topic, event.Bucket, event.Key, event.Size)

	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: n.toEmails,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(emailSubject(event)), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.fromEmail),
	})
	if err != nil {
		return apperrors.NewNotificationFailedError(ChannelSES, err)
	}
	return nil
}

// Multi fans an event out to every notifier. All notifiers run even when
// earlier ones fail; the failures are joined.
type Multi struct {
	notifiers []Notifier
	logger    logger.Logger
}

func NewMulti(log logger.Logger, notifiers ...Notifier) *Multi {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Multi{
		notifiers: lo.Filter(notifiers, func(n Notifier, _ int) bool { return n != nil }),
		logger:    log.With(map[string]interface{}{"component": "notify"}),
	}
}

func (m *Multi) Len() int { return len(m.notifiers) }

func (m *Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, event); err != nil {
			m.logger.Warn("notification failed", map[string]interface{}{
				"key":   event.Key,
				"error": err.Error(),
			})
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SNS accepts only printable ASCII subjects shorter than 100 characters.
const maxSNSSubject = 99

// emailSubject keeps UTF-8 but folds line breaks, which SES rejects.
func emailSubject(event Event) string {
	subject := strings.NewReplacer("\r", " ", "\n", " ").Replace("New blog: " + event.Topic)
	if r := []rune(subject); len(r) > 100 {
		subject = string(r[:100])
	}
	return subject
}

// snsSubject transliterates accented letters to ASCII, replaces anything
// else outside printable ASCII with '?', and truncates.
func snsSubject(event Event) string {
	// Chained transformers hold state, so each call builds its own.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, emailSubject(event))
	if err != nil {
		folded = emailSubject(event)
	}

	var b strings.Builder
	for _, r := range folded {
		if b.Len() == maxSNSSubject {
			break
		}
		if r < 0x20 || r > 0x7e {
			r = '?'
		}
		b.WriteRune(r)
	}
	return b.String()
}
