package lib

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// awsGetSdkConfig assumes AWS_IAM_ROLE_ARN when set, otherwise uses the default chain.
func awsGetSdkConfig(ctx context.Context) (*aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("Error loading default config: %s\n", err.Error())
		return nil, err
	}
	iamRole := os.Getenv("AWS_IAM_ROLE_ARN")
	if iamRole == "" {
		return &cfg, nil
	}
	stsClient := sts.NewFromConfig(cfg)
	output, err := stsClient.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(iamRole),
		RoleSessionName: aws.String("travl-backend"),
	})
	if err != nil {
		log.Printf("Error configuring STS client: %s\n", err.Error())
		return nil, err
	}
	creds := output.Credentials
	cfg, err = config.LoadDefaultConfig(ctx, config.WithCredentialsProvider(
		credentials.NewStaticCredentialsProvider(*creds.AccessKeyId, *creds.SecretAccessKey, *creds.SessionToken),
	))
	if err != nil {
		log.Printf("Error configuration: %s\n", err.Error())
		return nil, err
	}

	return &cfg, nil
}

var sqsClient *sqs.Client

func AWSGetSQSClient() *sqs.Client {
	if sqsClient != nil {
		return sqsClient
	}
	cfg, err := awsGetSdkConfig(context.Background())
	if err != nil {
		log.Printf("Failed to initialize SQS client: %s\n", err.Error())
		return nil
	}
	sqsClient = sqs.NewFromConfig(*cfg)
	return sqsClient
}

func NewSQSClient(c *sqs.Client) {
	sqsClient = c
}

// SQSAPI is the part of the SQS client used for booking events.
type SQSAPI interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

func SQSGetQueueURL(ctx context.Context, client SQSAPI, queue string) (*string, error) {
	qurl, err := client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(queue),
	})
	if err != nil {
		log.Printf("Failed to retrieve queue URL for %s: %s\n", queue, err.Error())
		return nil, err
	}
	return qurl.QueueUrl, nil
}

func SQSProduceMessage(ctx context.Context, client SQSAPI, queue string, body string) error {
	qurl, err := SQSGetQueueURL(ctx, client, queue)
	if err != nil {
		return err
	}
	out, err := client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    qurl,
		MessageBody: aws.String(body),
	})
	if err != nil {
		log.Printf("[SQS] Error sending message to %s: %s\n", queue, err.Error())
		return err
	}
	log.Printf("[SQS] Sent message %s to %s\n", aws.ToString(out.MessageId), queue)
	return nil
}

func SQSDeleteMessage(ctx context.Context, client SQSAPI, qurl *string, msg *sqsTypes.Message) error {
	_, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      qurl,
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		log.Printf("Error deleting message from queue: %s\n", err.Error())
		return err
	}
	return nil
}
