package live

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coder/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Subprotocols offered by the live endpoint, preferred first.
const (
	SubprotocolMsgPack = "lab.v1.msgpack"
	SubprotocolJSON    = "lab.v1.json"
)

// ErrInvalidMessage is returned for frames that do not decode to an event.
var ErrInvalidMessage = errors.New("live: invalid message")

// Codec converts between frames and protocol messages.
type Codec interface {
	Encode(msg Outbound) ([]byte, error)
	Decode(data []byte) (Inbound, error)
	Name() string
	MessageType() websocket.MessageType
}

// CodecFor returns the codec negotiated for subprotocol. Anything other
// than msgpack, including no subprotocol, selects JSON.
func CodecFor(subprotocol string) Codec {
	if subprotocol == SubprotocolMsgPack {
		return MsgPackCodec{}
	}
	return JSONCodec{}
}

// JSONCodec sends text frames.
type JSONCodec struct{}

func (JSONCodec) Encode(msg Outbound) ([]byte, error) { return json.Marshal(msg) }

func (JSONCodec) Decode(data []byte) (Inbound, error) {
	var ev Inbound
	if err := json.Unmarshal(data, &ev); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if ev.Type == "" {
		return Inbound{}, ErrInvalidMessage
	}
	return ev, nil
}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) MessageType() websocket.MessageType { return websocket.MessageText }

// MsgPackCodec sends binary frames.
type MsgPackCodec struct{}

func (MsgPackCodec) Encode(msg Outbound) ([]byte, error) { return msgpack.Marshal(msg) }

func (MsgPackCodec) Decode(data []byte) (Inbound, error) {
	var ev Inbound
	if err := msgpack.Unmarshal(data, &ev); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if ev.Type == "" {
		return Inbound{}, ErrInvalidMessage
	}
	return ev, nil
}

func (MsgPackCodec) Name() string { return "msgpack" }

func (MsgPackCodec) MessageType() websocket.MessageType { return websocket.MessageBinary }
