// Package envelope is the wire codec for the protocol verbs, each a JSON
// array labeled by its first element. Inbound from clients: EVENT, REQ,
// CLOSE. Outbound from the relay: EVENT, OK, EOSE, CLOSED, NOTICE.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nostrtools/simulatr/pkg/nostr/event"
	"github.com/nostrtools/simulatr/pkg/nostr/eventid"
	"github.com/nostrtools/simulatr/pkg/nostr/filter"
	"github.com/nostrtools/simulatr/pkg/nostr/filters"
	"github.com/nostrtools/simulatr/pkg/nostr/subscriptionid"
)

// Envelope labels.
const (
	LEvent  = "EVENT"
	LReq    = "REQ"
	LClose  = "CLOSE"
	LOK     = "OK"
	LEose   = "EOSE"
	LClosed = "CLOSED"
	LNotice = "NOTICE"
)

// E is an envelope of any verb.
type E interface {
	Label() string
	json.Marshaler
	json.Unmarshaler
}

// ParseMessage decodes one inbound message into its envelope. A nil return
// means the message is malformed: not a labeled array, an unknown label, or
// a payload that does not decode.
func ParseMessage(message []byte) (E, error) {
	firstComma := bytes.Index(message, []byte{','})
	if firstComma == -1 {
		return nil, fmt.Errorf("message is not a labeled array: %.80s", message)
	}
	label := message[0:firstComma]

	var v E
	switch {
	case bytes.Contains(label, []byte(LEvent)):
		v = &Event{}
	case bytes.Contains(label, []byte(LReq)):
		v = &Req{}
	case bytes.Contains(label, []byte(LNotice)):
		v = &Notice{}
	case bytes.Contains(label, []byte(LEose)):
		v = &Eose{}
	case bytes.Contains(label, []byte(LOK)):
		v = &OK{}
	case bytes.Contains(label, []byte(LClosed)):
		v = &Closed{}
	case bytes.Contains(label, []byte(LClose)):
		v = &Close{}
	default:
		return nil, fmt.Errorf("unknown envelope label: %.80s", message)
	}
	if err := v.UnmarshalJSON(message); err != nil {
		return nil, err
	}
	return v, nil
}

func marshalArray(elems ...interface{}) ([]byte, error) {
	return json.Marshal(elems)
}

func splitArray(label string, data []byte, minElems int) (arr []json.RawMessage,
	err error) {

	if err = json.Unmarshal(data, &arr); err != nil {
		return nil, fmt.Errorf("%s envelope: %w", label, err)
	}
	if len(arr) < minElems {
		return nil, fmt.Errorf("%s envelope: expected at least %d elements, got %d",
			label, minElems, len(arr))
	}
	var got string
	if err = json.Unmarshal(arr[0], &got); err != nil || got != label {
		return nil, fmt.Errorf("%s envelope: wrong label %s", label, arr[0])
	}
	return arr[1:], nil
}

// Event carries one event, with the subscription id set when flowing from
// relay to client and empty when submitted by a client.
type Event struct {
	SubscriptionID subscriptionid.T
	Event          *event.T
}

func (env *Event) Label() string { return LEvent }

func (env *Event) MarshalJSON() ([]byte, error) {
	if env.SubscriptionID == "" {
		return marshalArray(LEvent, env.Event)
	}
	return marshalArray(LEvent, env.SubscriptionID, env.Event)
}

func (env *Event) UnmarshalJSON(data []byte) (err error) {
	var arr []json.RawMessage
	if arr, err = splitArray(LEvent, data, 2); err != nil {
		return
	}
	if len(arr) > 1 {
		if err = json.Unmarshal(arr[0], &env.SubscriptionID); err != nil {
			return
		}
		arr = arr[1:]
	}
	env.Event = &event.T{}
	return json.Unmarshal(arr[0], env.Event)
}

// Req opens or replaces a subscription with an ordered filter list.
type Req struct {
	SubscriptionID subscriptionid.T
	Filters        filters.T
}

func (env *Req) Label() string { return LReq }

func (env *Req) MarshalJSON() ([]byte, error) {
	elems := []interface{}{LReq, env.SubscriptionID}
	for _, f := range env.Filters {
		elems = append(elems, f)
	}
	return json.Marshal(elems)
}

func (env *Req) UnmarshalJSON(data []byte) (err error) {
	var arr []json.RawMessage
	if arr, err = splitArray(LReq, data, 2); err != nil {
		return
	}
	if err = json.Unmarshal(arr[0], &env.SubscriptionID); err != nil {
		return
	}
	if !env.SubscriptionID.IsValid() {
		return fmt.Errorf("REQ envelope: invalid subscription id")
	}
	for _, raw := range arr[1:] {
		f := &filter.T{}
		if err = json.Unmarshal(raw, f); err != nil {
			return
		}
		env.Filters = append(env.Filters, f)
	}
	return
}

// Close cancels one subscription.
type Close struct {
	SubscriptionID subscriptionid.T
}

func (env *Close) Label() string { return LClose }

func (env *Close) MarshalJSON() ([]byte, error) {
	return marshalArray(LClose, env.SubscriptionID)
}

func (env *Close) UnmarshalJSON(data []byte) (err error) {
	var arr []json.RawMessage
	if arr, err = splitArray(LClose, data, 2); err != nil {
		return
	}
	return json.Unmarshal(arr[0], &env.SubscriptionID)
}

// OK acknowledges an EVENT submission, the bool carrying acceptance and the
// reason a machine-readable-prefixed explanation when it was not accepted.
type OK struct {
	ID     eventid.T
	OK     bool
	Reason string
}

func (env *OK) Label() string { return LOK }

func (env *OK) MarshalJSON() ([]byte, error) {
	return marshalArray(LOK, env.ID, env.OK, env.Reason)
}

func (env *OK) UnmarshalJSON(data []byte) (err error) {
	var arr []json.RawMessage
	if arr, err = splitArray(LOK, data, 4); err != nil {
		return
	}
	if err = json.Unmarshal(arr[0], &env.ID); err != nil {
		return
	}
	if err = json.Unmarshal(arr[1], &env.OK); err != nil {
		return
	}
	return json.Unmarshal(arr[2], &env.Reason)
}

// Eose is the boundary marker: all stored events matching the subscription
// have been delivered and whatever follows is live.
type Eose struct {
	SubscriptionID subscriptionid.T
}

func (env *Eose) Label() string { return LEose }

func (env *Eose) MarshalJSON() ([]byte, error) {
	return marshalArray(LEose, env.SubscriptionID)
}

func (env *Eose) UnmarshalJSON(data []byte) (err error) {
	var arr []json.RawMessage
	if arr, err = splitArray(LEose, data, 2); err != nil {
		return
	}
	return json.Unmarshal(arr[0], &env.SubscriptionID)
}

// Closed tells the client the relay ended a subscription on its side.
type Closed struct {
	SubscriptionID subscriptionid.T
	Reason         string
}

func (env *Closed) Label() string { return LClosed }

func (env *Closed) MarshalJSON() ([]byte, error) {
	return marshalArray(LClosed, env.SubscriptionID, env.Reason)
}

func (env *Closed) UnmarshalJSON(data []byte) (err error) {
	var arr []json.RawMessage
	if arr, err = splitArray(LClosed, data, 3); err != nil {
		return
	}
	if err = json.Unmarshal(arr[0], &env.SubscriptionID); err != nil {
		return
	}
	return json.Unmarshal(arr[1], &env.Reason)
}

// Notice is a free-form relay-to-client message, used for malformed input
// among other things.
type Notice struct {
	Text string
}

func (env *Notice) Label() string { return LNotice }

func (env *Notice) MarshalJSON() ([]byte, error) {
	return marshalArray(LNotice, env.Text)
}

func (env *Notice) UnmarshalJSON(data []byte) (err error) {
	var arr []json.RawMessage
	if arr, err = splitArray(LNotice, data, 2); err != nil {
		return
	}
	return json.Unmarshal(arr[0], &env.Text)
}
