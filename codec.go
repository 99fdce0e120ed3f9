package mpvipc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// docs: https://mpv.io/manual/stable/#json-ipc

const statusSuccess = "success"

type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// response is a reply correlated with a request by RequestID.
type response struct {
	RequestID int64
	Error     string
	Data      json.RawMessage
}

func (r *response) success() bool { return r.Error == statusSuccess }

// wireMessage is the union of every field a peer line may carry. Pointers
// tell "absent" apart from zero values.
type wireMessage struct {
	RequestID *int64          `json:"request_id"`
	Error     *string         `json:"error"`
	Data      json.RawMessage `json:"data"`

	Event *string `json:"event"`
	ID    *int64  `json:"id"`
	Name  string  `json:"name"`
}

// encodeRequest renders one request line without the trailing newline.
// Arguments are passed through as given.
func encodeRequest(id int64, command string, args ...any) ([]byte, error) {
	cmd := make([]any, 0, len(args)+1)
	cmd = append(cmd, command)
	cmd = append(cmd, args...)

	data, err := json.Marshal(request{Command: cmd, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", command, err)
	}
	return data, nil
}

// decodeMessage classifies one line as a response or an event. Exactly one
// of the results is non-nil; anything else is a *ProtocolError.
func decodeMessage(line []byte) (*response, *Event, error) {
	var msg wireMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		return nil, nil, &ProtocolError{Line: line, Err: err}
	}

	switch {
	case msg.RequestID != nil:
		resp := &response{RequestID: *msg.RequestID, Data: msg.Data}
		if msg.Error != nil {
			resp.Error = *msg.Error
		}
		return resp, nil, nil
	case msg.Event != nil:
		ev := &Event{Kind: EventKind(*msg.Event), Name: msg.Name, Data: msg.Data, raw: line}
		if msg.ID != nil {
			ev.ID = *msg.ID
			ev.hasID = true
		}
		if msg.Error != nil {
			ev.Error = *msg.Error
		}
		return nil, ev, nil
	default:
		return nil, nil, &ProtocolError{Line: line, Err: errors.New("neither request_id nor event present")}
	}
}
