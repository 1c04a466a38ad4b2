package queue

import "encoding/json"

// MessageVersion is the current payload version.
const MessageVersion = 1

// Message is an SMS notification job for the worker.
type Message struct {
	NotificationID string `json:"notificationId"`
	InspectionID   string `json:"inspectionId"`
	RequestID      string `json:"requestId"`
	To             string `json:"to"`
	Body           string `json:"body"`
	EnqueuedAt     string `json:"enqueuedAt"`
	Version        int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
