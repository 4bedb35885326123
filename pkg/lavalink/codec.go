package lavalink

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Codec turns raw wire payloads into typed records and back. Session and
// Player never look at raw opcode strings; everything they see has already
// been decoded here.
type Codec interface {
	// DecodeMessage decodes one inbound websocket frame into a typed event.
	// Unrecognized opcodes and event subtypes return (nil, nil); broken
	// frames return a BuildError.
	DecodeMessage(sessionName string, data []byte) (Event, error)

	// DecodeRESTError decodes the backend's structured REST error body.
	DecodeRESTError(data []byte) (*RestRequestError, error)

	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default Codec for the backend's JSON wire format.
type JSONCodec struct{}

var _ Codec = JSONCodec{}

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// envelope carries the two discriminators every frame is routed on.
type envelope struct {
	Op   string `json:"op"`
	Type string `json:"type"`
}

func (c JSONCodec) DecodeMessage(sessionName string, data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &BuildError{Err: err}
	}

	switch env.Op {
	case "ready":
		ev := &ReadyEvent{SessionName: sessionName}
		if err := json.Unmarshal(data, ev); err != nil {
			return nil, &BuildError{Err: err}
		}
		return ev, nil

	case "playerUpdate":
		ev := &PlayerUpdateEvent{SessionName: sessionName}
		if err := json.Unmarshal(data, ev); err != nil {
			return nil, &BuildError{Err: err}
		}
		return ev, nil

	case "stats":
		ev := &StatisticsEvent{SessionName: sessionName}
		if err := json.Unmarshal(data, &ev.Statistics); err != nil {
			return nil, &BuildError{Err: err}
		}
		return ev, nil

	case "event":
		return c.decodeEvent(sessionName, env.Type, data)
	}

	return nil, nil
}

func (JSONCodec) decodeEvent(sessionName, eventType string, data []byte) (Event, error) {
	var ev Event
	switch eventType {
	case "TrackStartEvent":
		ev = &TrackStartEvent{SessionName: sessionName}
	case "TrackEndEvent":
		ev = &TrackEndEvent{SessionName: sessionName}
	case "TrackExceptionEvent":
		ev = &TrackExceptionEvent{SessionName: sessionName}
	case "TrackStuckEvent":
		ev = &TrackStuckEvent{SessionName: sessionName}
	case "WebSocketClosedEvent":
		ev = &WebSocketClosedEvent{SessionName: sessionName}
	default:
		return nil, nil
	}

	if err := json.Unmarshal(data, ev); err != nil {
		return nil, &BuildError{Err: err}
	}
	return ev, nil
}

func (JSONCodec) DecodeRESTError(data []byte) (*RestRequestError, error) {
	var restErr RestRequestError
	if err := json.Unmarshal(data, &restErr); err != nil {
		return nil, &BuildError{Err: err}
	}
	if restErr.Status == 0 && restErr.ErrorText == "" {
		return nil, &BuildError{Err: fmt.Errorf("body is not a structured error")}
	}
	return &restErr, nil
}
