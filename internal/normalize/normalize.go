package normalize

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"activityScope/internal/model"
)

var (
	// ErrMissingField marks a required argument absent from the raw log.
	ErrMissingField = errors.New("missing field")
	// ErrFieldType marks an argument whose decoded type is not the expected one.
	ErrFieldType = errors.New("unexpected field type")
	// ErrUnknownKind marks a raw log whose kind has no normalizer.
	ErrUnknownKind = errors.New("unknown event kind")
)

// FieldError reports a required argument that could not be read.
type FieldError struct {
	Kind  model.Kind
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Kind, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Normalize turns a raw log into exactly one event of its kind. Every
// argument is required; nothing is defaulted.
func Normalize(raw model.RawLog) (model.Event, error) {
	f := fields{kind: raw.Kind, args: raw.Args}
	meta := raw.Meta()

	switch raw.Kind {
	case model.KindProposalCreated:
		ev := model.ProposalCreated{
			Meta:        meta,
			ID:          f.bigInt("id"),
			Description: f.text("description"),
			Deadline:    f.bigInt("deadline"),
		}
		return f.result(ev)
	case model.KindProposalFulfilled:
		ev := model.ProposalFulfilled{
			Meta:        meta,
			ID:          f.bigInt("id"),
			Description: f.text("description"),
			Recipient:   f.address("recipient"),
			Amount:      f.bigInt("amount"),
		}
		return f.result(ev)
	case model.KindVoted:
		ev := model.Voted{
			Meta:    meta,
			ID:      f.bigInt("id"),
			Voter:   f.address("voter"),
			State:   model.ProposalState(f.small("state")),
			Comment: f.text("comment"),
		}
		return f.result(ev)
	case model.KindNameRegistered:
		ev := model.NameRegistered{
			Meta:      meta,
			Name:      f.text("name"),
			Owner:     f.address("owner"),
			ImageHash: f.text("imageHash"),
		}
		return f.result(ev)
	case model.KindNameTransferred:
		ev := model.NameTransferred{
			Meta:     meta,
			Name:     f.text("name"),
			OldOwner: f.address("oldOwner"),
			NewOwner: f.address("newOwner"),
		}
		return f.result(ev)
	case model.KindNameUpdated:
		ev := model.NameUpdated{
			Meta:         meta,
			Name:         f.text("name"),
			NewAddress:   f.address("newAddress"),
			NewImageHash: f.text("newImageHash"),
		}
		return f.result(ev)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, raw.Kind)
	}
}

// fields reads typed arguments and keeps the first failure.
type fields struct {
	kind model.Kind
	args map[string]interface{}
	err  error
}

func (f *fields) result(ev model.Event) (model.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return ev, nil
}

func (f *fields) lookup(name string) (interface{}, bool) {
	if f.err != nil {
		return nil, false
	}
	v, ok := f.args[name]
	if !ok || v == nil {
		f.err = &FieldError{Kind: f.kind, Field: name, Err: ErrMissingField}
		return nil, false
	}
	return v, true
}

func (f *fields) typeError(name string, v interface{}) {
	f.err = &FieldError{Kind: f.kind, Field: name, Err: fmt.Errorf("%w %T", ErrFieldType, v)}
}

func (f *fields) bigInt(name string) *big.Int {
	v, ok := f.lookup(name)
	if !ok {
		return nil
	}
	n, ok := v.(*big.Int)
	if !ok || n == nil {
		f.typeError(name, v)
		return nil
	}
	return new(big.Int).Set(n)
}

func (f *fields) text(name string) string {
	v, ok := f.lookup(name)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		f.typeError(name, v)
		return ""
	}
	return s
}

func (f *fields) address(name string) common.Address {
	v, ok := f.lookup(name)
	if !ok {
		return common.Address{}
	}
	addr, ok := v.(common.Address)
	if !ok {
		f.typeError(name, v)
		return common.Address{}
	}
	return addr
}

func (f *fields) small(name string) uint8 {
	v, ok := f.lookup(name)
	if !ok {
		return 0
	}
	n, ok := v.(uint8)
	if !ok {
		f.typeError(name, v)
		return 0
	}
	return n
}
