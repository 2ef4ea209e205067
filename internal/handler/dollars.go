package handler

import (
	"bytes"
	"encoding/json"
	"errors"

	"buildseason/internal/domain/money"
)

var errInvalidDollars = errors.New("invalid dollar amount")

// dollarAmount は "19.99" と 19.99 のどちらでも受け取り、セントで持つ。
// 数値はjson.Numberのまま文字列として解釈するので浮動小数の誤差は入らない。
type dollarAmount struct {
	Cents int64
	Set   bool
}

func (d *dollarAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = dollarAmount{}
		return nil
	}

	var raw string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return errInvalidDollars
		}
	} else {
		var n json.Number
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		if err := dec.Decode(&n); err != nil {
			return errInvalidDollars
		}
		raw = n.String()
	}

	cents, err := money.ParseDollars(raw)
	if err != nil {
		return err
	}
	d.Cents = cents
	d.Set = true
	return nil
}
