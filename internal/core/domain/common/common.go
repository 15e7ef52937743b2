package common

import (
	"encoding/json"
	"fmt"
)

type Optional[T any] struct {
	Value     T
	IsPresent bool
}

func (p *Optional[T]) String() string {
	if !p.IsPresent {
		return "[-]"
	}
	return fmt.Sprintf("[%v]", p.Value)
}

func NewOptional[T any](value T, isPresent bool) Optional[T] {
	return Optional[T]{Value: value, IsPresent: isPresent}
}

func (p Optional[T]) MarshalJSON() ([]byte, error) {
	if !p.IsPresent {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

func (p *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		var zero T
		p.Value, p.IsPresent = zero, false
		return nil
	}
	if err := json.Unmarshal(data, &p.Value); err != nil {
		return err
	}
	p.IsPresent = true
	return nil
}
