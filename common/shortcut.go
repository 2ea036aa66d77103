package common

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
)

func Encode(data interface{}) ([]byte, error) {
	buff := new(bytes.Buffer)
	encoder := json.NewEncoder(buff)
	err := encoder.Encode(data)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

func Decode[T interface{}](bs []byte) (*T, error) {
	buff := new(bytes.Buffer)
	var data T
	buff.Write(bs)
	decoder := json.NewDecoder(buff)
	err := decoder.Decode(&data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// DecodeOver decodes bs on top of data, leaving fields absent from bs
// untouched.
func DecodeOver[T interface{}](bs []byte, data *T) error {
	decoder := json.NewDecoder(bytes.NewReader(bs))
	return decoder.Decode(data)
}

// CanonicalEncode encodes data as JSON with every object's keys sorted,
// whatever the field order of the Go type. Numbers pass through
// json.Number so they are never re-rounded.
func CanonicalEncode(data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var generic interface{}
	err = decoder.Decode(&generic)
	if err != nil {
		return nil, err
	}
	// maps are always marshalled with sorted keys
	return json.Marshal(generic)
}

func ToHex[T comparable](num T) ([]byte, error) {
	buff := new(bytes.Buffer)
	err := binary.Write(buff, binary.BigEndian, num)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

func ExistFile(name string) bool {
	_, err := os.Stat(name)
	return !os.IsNotExist(err)
}
