package aws

import (
	"context"
	"log"
	"time"

	"travl/src/lib"
	"travl/src/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

const retryDelay = 5 * time.Second

// SQSConsumer hands booking events from a queue to a handler.
type SQSConsumer struct {
	Name    string
	client  lib.SQSAPI
	handler types.Handler
}

func NewSQSConsumer(queue string, client lib.SQSAPI, handler types.Handler) *SQSConsumer {
	return &SQSConsumer{
		Name:    queue,
		client:  client,
		handler: handler,
	}
}

// Listen long-polls the queue in the background until ctx is done.
func (s *SQSConsumer) Listen(ctx context.Context) {
	go func() {
		qurl, err := lib.SQSGetQueueURL(ctx, s.client, s.Name)
		if err != nil {
			return
		}
		log.Printf("%s: Listening for messages...", s.Name)
		for ctx.Err() == nil {
			if _, err := s.Poll(ctx, qurl); err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("[SQS] Error receiving messages: %s\n", err.Error())
				select {
				case <-ctx.Done():
					return
				case <-time.After(retryDelay):
				}
			}
		}
	}()
}

// Poll receives one batch. Each message is deleted after its handler returns.
func (s *SQSConsumer) Poll(ctx context.Context, qurl *string) (int, error) {
	output, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            qurl,
		WaitTimeSeconds:     20,
		MaxNumberOfMessages: 10,
	})
	if err != nil {
		return 0, err
	}
	for i := range output.Messages {
		m := &output.Messages[i]
		s.handler(aws.ToString(m.Body))
		_ = lib.SQSDeleteMessage(ctx, s.client, qurl, m)
	}
	return len(output.Messages), nil
}
