package sqsqueue

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"phonebook/internal/domain"
)

const (
	EventContactAdded = "contact.added"

	// one group keeps FIFO delivery in insertion order
	contactsGroupID = "contacts"
)

type SQSAPI interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type Producer struct {
	SQS      SQSAPI
	QueueURL string
}

func (p *Producer) PublishContactAdded(ctx context.Context, ev domain.ContactAddedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	in := &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.QueueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(EventContactAdded)},
		},
	}
	if isFIFO(p.QueueURL) {
		in.MessageGroupId = aws.String(contactsGroupID)
		in.MessageDeduplicationId = aws.String(ev.ContactID)
	}
	_, err = p.SQS.SendMessage(ctx, in)
	return err
}

func isFIFO(queueURL string) bool {
	return strings.HasSuffix(queueURL, ".fifo")
}
