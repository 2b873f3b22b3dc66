package rsmq

import (
	"context"
	"time"
)

// TypedMessage is a Message whose payload has already been decoded into T.
type TypedMessage[T any] struct {
	ID      string
	Message T
	RC      int64
	FR      int64
	Sent    time.Time
}

// Decoder converts raw message bytes into a caller-chosen type T. It is
// Go's substitute for the Rust source's TryFrom<RedisBytes> bound: Go has
// no generic methods, so ReceiveMessage/PopMessage/SendMessage below are
// free functions parameterized over *Rsmq rather than methods.
type Decoder[T any] func([]byte) (T, error)

// Encoder converts a caller-chosen type T into raw message bytes for
// SendMessage.
type Encoder[T any] func(T) ([]byte, error)

// StringDecoder decodes a message payload as UTF-8 text.
func StringDecoder(b []byte) (string, error) { return string(b), nil }

// StringEncoder encodes a string payload as its UTF-8 bytes.
func StringEncoder(s string) ([]byte, error) { return []byte(s), nil }

// BytesDecoder returns the payload unchanged.
func BytesDecoder(b []byte) ([]byte, error) { return b, nil }

// BytesEncoder returns the payload unchanged.
func BytesEncoder(b []byte) ([]byte, error) { return b, nil }

func decodeTyped[T any](op string, m *Message, dec Decoder[T]) (*TypedMessage[T], error) {
	if m == nil {
		return nil, nil
	}
	value, err := dec(m.Message)
	if err != nil {
		return nil, newDecodeError(op, m.Message, err)
	}
	return &TypedMessage[T]{
		ID:      m.ID,
		Message: value,
		RC:      m.RC,
		FR:      m.FR,
		Sent:    m.Sent,
	}, nil
}

// ReceiveMessage is ReceiveMessageBytes with the payload decoded via dec.
// A decode failure surfaces as a *Error with Kind KindCannotDecodeMessage
// carrying the original bytes.
func ReceiveMessage[T any](ctx context.Context, r *Rsmq, qname string, dec Decoder[T], secondsHidden *int64) (*TypedMessage[T], error) {
	m, err := r.ReceiveMessageBytes(ctx, qname, secondsHidden)
	if err != nil {
		return nil, err
	}
	return decodeTyped("receive_message", m, dec)
}

// PopMessage is PopMessageBytes with the payload decoded via dec.
func PopMessage[T any](ctx context.Context, r *Rsmq, qname string, dec Decoder[T]) (*TypedMessage[T], error) {
	m, err := r.PopMessageBytes(ctx, qname)
	if err != nil {
		return nil, err
	}
	return decodeTyped("pop_message", m, dec)
}

// SendMessage is SendMessageBytes with the payload encoded via enc.
func SendMessage[T any](ctx context.Context, r *Rsmq, qname string, body T, enc Encoder[T], delay *int64) (string, error) {
	raw, err := enc(body)
	if err != nil {
		return "", newError("send_message", KindInvalidValue, err)
	}
	return r.SendMessageBytes(ctx, qname, raw, delay)
}
