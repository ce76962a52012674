package transport

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// OptionalString различает отсутствующий ключ и явный null
type OptionalString struct {
	Set   bool
	Null  bool
	Value string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		o.Null = true
		o.Value = ""
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Ptr возвращает nil для отсутствующего ключа.
// null передается дальше как пустое значение: поле учитывается, а схема его отвергает.
func (o OptionalString) Ptr() *string {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}
