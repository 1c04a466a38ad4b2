package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSClientSend(t *testing.T) {
	fake := &fakeSQS{}
	client := &SQSClient{client: fake, queueURL: "https://sqs.test/queue"}

	require.NoError(t, client.Send(context.Background(), Message{InspectionID: "insp-1", To: "+15555550100", Body: "hi"}))
	require.Len(t, fake.inputs, 1)
	assert.Equal(t, "https://sqs.test/queue", aws.ToString(fake.inputs[0].QueueUrl))
	assert.Contains(t, aws.ToString(fake.inputs[0].MessageBody), `"inspectionId":"insp-1"`)

	fake.err = errors.New("throttled")
	assert.Error(t, client.Send(context.Background(), Message{}))
}

func TestNewSQSClientRequiresURL(t *testing.T) {
	_, err := NewSQSClient(context.Background(), "us-east-1", " ")
	assert.Error(t, err)
}
