package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspection-backend/internal/queue"
)

type fakeSQS struct {
	deleted []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeDeliverer struct {
	err   error
	calls int
}

func (f *fakeDeliverer) Deliver(ctx context.Context, msg queue.Message) error {
	f.calls++
	return f.err
}

func sqsMessage(t *testing.T, id string, msg queue.Message) sqstypes.Message {
	t.Helper()
	body, err := queue.EncodeMessage(msg)
	require.NoError(t, err)
	return sqstypes.Message{
		MessageId:     aws.String(id),
		ReceiptHandle: aws.String("r-" + id),
		Body:          aws.String(string(body)),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	client := &fakeSQS{}
	d := &fakeDeliverer{}
	msg := sqsMessage(t, "m1", queue.Message{NotificationID: "n-1", RequestID: "req-1", To: "+15551234567", Body: "hi"})

	handleMessage(context.Background(), client, "queue", d, msg)

	assert.Equal(t, 1, d.calls)
	assert.Equal(t, []string{"r-m1"}, client.deleted)
}

func TestWorkerKeepsMessageOnDeliveryFailure(t *testing.T) {
	client := &fakeSQS{}
	d := &fakeDeliverer{err: errors.New("throttled")}
	msg := sqsMessage(t, "m2", queue.Message{NotificationID: "n-2", To: "+15551234567", Body: "hi"})

	handleMessage(context.Background(), client, "queue", d, msg)

	assert.Equal(t, 1, d.calls)
	assert.Empty(t, client.deleted)
}

func TestWorkerDropsInvalidJSON(t *testing.T) {
	client := &fakeSQS{}
	d := &fakeDeliverer{}
	msg := sqstypes.Message{
		MessageId:     aws.String("m3"),
		ReceiptHandle: aws.String("r3"),
		Body:          aws.String("{bad-json"),
	}

	handleMessage(context.Background(), client, "queue", d, msg)

	assert.Zero(t, d.calls)
	assert.Equal(t, []string{"r3"}, client.deleted)
}

func TestWorkerDropsMissingRecipient(t *testing.T) {
	client := &fakeSQS{}
	d := &fakeDeliverer{}
	msg := sqsMessage(t, "m4", queue.Message{NotificationID: "n-4", Body: "hi"})

	handleMessage(context.Background(), client, "queue", d, msg)

	assert.Zero(t, d.calls)
	assert.Equal(t, []string{"r-m4"}, client.deleted)
}

func TestReceiveCount(t *testing.T) {
	assert.Equal(t, 0, receiveCount(sqstypes.Message{}))
	assert.Equal(t, 3, receiveCount(sqstypes.Message{Attributes: map[string]string{"ApproximateReceiveCount": "3"}}))
	assert.Equal(t, 0, receiveCount(sqstypes.Message{Attributes: map[string]string{"ApproximateReceiveCount": "x"}}))
}
