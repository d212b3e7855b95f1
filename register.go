package formfeed

import (
	"errors"
	"fmt"
)

// ErrRegisterAfterStart is returned by Register once the form has started receiving parts.
var ErrRegisterAfterStart = errors.New("register after parsing started")

// Register sets fn as the hook of the parts named name.
// fn receives the part payload as a stream. If the required parts have not
// been parsed yet, the payload is buffered and fn runs once they have.
func (f *Form) Register(name string, fn StreamHookFunc, options ...RegisterOption) error {
	if f.gate != nil {
		return ErrRegisterAfterStart
	}
	if _, ok := f.hookMap[name]; ok {
		return DuplicateHookNameError{Name: name}
	}

	c := &registerConfig{}
	for _, opt := range options {
		opt(c)
	}

	f.hookMap[name] = streamHook{
		fn:           fn,
		requireParts: c.requireParts,
	}

	return nil
}

type DuplicateHookNameError struct {
	Name string
}

func (e DuplicateHookNameError) Error() string {
	return fmt.Sprintf("duplicate hook name: %s", e.Name)
}

type registerConfig struct {
	requireParts []string
}

type RegisterOption func(*registerConfig)

// WithRequiredPart delays the hook until a part named name has been parsed.
func WithRequiredPart(name string) RegisterOption {
	return func(c *registerConfig) {
		c.requireParts = append(c.requireParts, name)
	}
}
