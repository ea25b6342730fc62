// Package decoder contains the default [domain.Decoder] implementation.
package decoder

import (
	"github.com/mitchellh/mapstructure"
	"github.com/nonibytes/docquery/domain"
)

// Decoder implements domain.Decoder.
type Decoder struct{}

// NewDecoder returns a new implementation of domain.Decoder.
func NewDecoder() domain.Decoder {
	return &Decoder{}
}

// Decode implements domain.Decoder. WeaklyTypedInput is set because
// records loaded from JSON seed data carry every number as float64;
// decoding one into an int/string struct field should coerce rather
// than fail the whole materialized result over a numeric kind
// mismatch.
func (d *Decoder) Decode(src any, tgt any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "docquery",
		WeaklyTypedInput: true,
		Result:           tgt,
	})
	if err != nil {
		return err
	}
	return dec.Decode(src)
}
