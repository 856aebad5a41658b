package io

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/errors"
)

// cborEnc produces deterministic output, so equal documents encode to equal
// bytes and can be used as cache keys.
var cborEnc = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

var cborDec = func() cbor.DecMode {
	dm, err := cbor.DecOptions{ExtraReturnErrors: cbor.ExtraDecErrorUnknownField}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

// MarshalCBOR encodes d as deterministic CBOR. Field names follow the JSON
// format.
func MarshalCBOR(d *document.Document) ([]byte, error) {
	b, err := cborEnc.Marshal(Serialize(d))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return b, nil
}

// WriteCBOR encodes d as CBOR and writes it to w.
func WriteCBOR(d *document.Document, w io.Writer) error {
	b, err := MarshalCBOR(d)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// UnmarshalCBOR decodes a CBOR tree into a document.
func UnmarshalCBOR(data []byte) (*document.Document, error) {
	var t Tree
	if err := cborDec.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	return Deserialize(t)
}

// ReadCBOR decodes a CBOR tree from r. ReadCBOR does not close r.
func ReadCBOR(r io.Reader) (*document.Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return UnmarshalCBOR(b)
}
