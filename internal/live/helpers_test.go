package live

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

func msgpackOrJSON(codec Codec, ev Inbound) ([]byte, error) {
	if codec.Name() == "msgpack" {
		return msgpack.Marshal(ev)
	}
	return json.Marshal(ev)
}

func jsonUnmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
