package action

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/scenekit/internal/scene"
)

// Envelope is the wire form of an action.
type Envelope struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type batchPayload struct {
	Actions []Envelope `json:"actions"`
}

// ErrMissingType is returned when an envelope carries no type.
var ErrMissingType = errors.New("action envelope has no type")

// Marshal encodes a as a {"type","payload"} envelope.
func Marshal(a Action) ([]byte, error) {
	env, err := ToEnvelope(a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// ToEnvelope converts a into its wire envelope.
func ToEnvelope(a Action) (Envelope, error) {
	if a == nil {
		return Envelope{}, fmt.Errorf("marshal action: nil action")
	}

	var (
		payload []byte
		err     error
	)
	switch v := a.(type) {
	case Batch:
		bp := batchPayload{Actions: make([]Envelope, 0, len(v.Actions))}
		for i, sub := range v.Actions {
			env, subErr := ToEnvelope(sub)
			if subErr != nil {
				return Envelope{}, fmt.Errorf("batch step %d: %w", i, subErr)
			}
			bp.Actions = append(bp.Actions, env)
		}
		payload, err = json.Marshal(bp)
	case LoadScene:
		if v.Scene == nil {
			return Envelope{Type: TypeLoadScene}, nil
		}
		payload, err = json.Marshal(v.Scene)
	case ClearSelection, ResetScene:
		return Envelope{Type: a.Kind()}, nil
	case Unknown:
		return Envelope{Type: v.Type, Payload: v.Payload}, nil
	default:
		payload, err = json.Marshal(v)
	}
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", a.Kind(), err)
	}
	return Envelope{Type: a.Kind(), Payload: payload}, nil
}

// Unmarshal decodes an envelope. Unrecognised types decode to Unknown so
// that newer producers never break older consumers; a malformed payload of a
// known type is an error.
func Unmarshal(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode action envelope: %w", err)
	}
	return FromEnvelope(env)
}

// FromEnvelope decodes the payload of env according to its type.
func FromEnvelope(env Envelope) (Action, error) {
	if env.Type == "" {
		return nil, ErrMissingType
	}

	switch env.Type {
	case TypeAddObject:
		return decodeInto[AddObject](env)
	case TypeUpdateObject:
		return decodeInto[UpdateObject](env)
	case TypeRemoveObject:
		return decodeInto[RemoveObject](env)
	case TypeDuplicateObject:
		return decodeInto[DuplicateObject](env)
	case TypeMoveObject:
		return decodeInto[MoveObject](env)
	case TypeReorderChildren:
		return decodeInto[ReorderChildren](env)
	case TypeAddMaterial:
		return decodeInto[AddMaterial](env)
	case TypeUpdateMaterial:
		return decodeInto[UpdateMaterial](env)
	case TypeApplyMaterial:
		return decodeInto[ApplyMaterial](env)
	case TypeSelect:
		return decodeInto[Select](env)
	case TypeClearSelection:
		return ClearSelection{}, nil
	case TypeUpdateCamera:
		return decodeInto[UpdateCamera](env)
	case TypeUpdateEnvironment:
		return decodeInto[UpdateEnvironment](env)
	case TypeAddLight:
		return decodeInto[AddLight](env)
	case TypeUpdateLight:
		return decodeInto[UpdateLight](env)
	case TypeRemoveLight:
		return decodeInto[RemoveLight](env)
	case TypeResetScene:
		return ResetScene{}, nil
	case TypeLoadScene:
		if isEmptyPayload(env.Payload) {
			return LoadScene{}, nil
		}
		s := new(scene.Scene)
		if err := strictDecode(env.Payload, s); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return LoadScene{Scene: s}, nil
	case TypeBatch:
		var bp batchPayload
		if !isEmptyPayload(env.Payload) {
			if err := strictDecode(env.Payload, &bp); err != nil {
				return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
			}
		}
		b := Batch{Actions: make([]Action, 0, len(bp.Actions))}
		for i, sub := range bp.Actions {
			a, err := FromEnvelope(sub)
			if err != nil {
				return nil, fmt.Errorf("batch step %d: %w", i, err)
			}
			b.Actions = append(b.Actions, a)
		}
		return b, nil
	default:
		return Unknown{Type: env.Type, Payload: env.Payload}, nil
	}
}

func decodeInto[T Action](env Envelope) (Action, error) {
	var v T
	if isEmptyPayload(env.Payload) {
		return v, nil
	}
	if err := strictDecode(env.Payload, &v); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return v, nil
}

func strictDecode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isEmptyPayload(p json.RawMessage) bool {
	trimmed := bytes.TrimSpace(p)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
