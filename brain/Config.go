package brain

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/samuelfneumann/gridrl/environment"
)

// Type represents a specific type of a brain Config. Config's with this
// type create Brains of the corresponding algorithm.
type Type string

const (
	SampleAveraging Type = "sampleaveraging"
	QLearning       Type = "qlearning"
	PolicyGradient  Type = "policygradient"
)

// Config represents a configuration for creating a Brain
type Config interface {
	// Create creates the Brain that the Config describes
	Create(env environment.Environment, seed uint64) (Brain, error)

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of Brain created by the Config
	Type() Type
}

// Registered types with the package. Once a Type has been registered
// with this map, a Config with that type can be created.
//
// No Type's are registered with this package upon initialization.
// Each algorithm package registers its own Type to avoid circular
// imports.
var registeredTypes = make(map[Type]reflect.Type)

// Register registers a brain Type with a concrete Config type so that
// upon deserialization of a TypedConfig, Configs of type t are
// deserialized into the concrete type of c.
func Register(t Type, c Config) {
	registeredTypes[t] = reflect.TypeOf(c)
}

// ParseType returns the registered Type named by s, ignoring case
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := registeredTypes[t]; !ok {
		return "", fmt.Errorf("parseType: unknown brain %q", s)
	}
	return t, nil
}

// TypedConfig stores a Config together with its Type so that it can be
// JSON serialized and deserialized without knowing the concrete type
// of the Config beforehand.
type TypedConfig struct {
	Type
	Config
}

// NewTypedConfig types the argument Config and returns it as a
// TypedConfig which explicitly holds its Type.
func NewTypedConfig(c Config) TypedConfig {
	return TypedConfig{Type: c.Type(), Config: c}
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (j *TypedConfig) UnmarshalJSON(data []byte) error {
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	var typeName string
	if err := json.Unmarshal(m["Type"], &typeName); err != nil {
		return fmt.Errorf("unmarshalJSON: could not read type: %v", err)
	}

	config, err := NewConfig(Type(typeName), m["Config"])
	if err != nil {
		return fmt.Errorf("unmarshalJSON: %v", err)
	}

	j.Type = config.Type()
	j.Config = config
	return nil
}

// NewConfig uses reflection to unmarshal the JSON object data into the
// concrete Config type registered for t. Fields missing from data keep
// their zero values and unknown fields are ignored.
func NewConfig(t Type, data []byte) (Config, error) {
	ty, found := registeredTypes[t]
	if !found {
		return nil, fmt.Errorf("newConfig: unregistered brain type %q", t)
	}

	value := reflect.New(ty)
	if len(data) > 0 {
		if err := json.Unmarshal(data, value.Interface()); err != nil {
			return nil, fmt.Errorf("newConfig: could not unmarshal %v "+
				"config: %v", t, err)
		}
	}
	return value.Elem().Interface().(Config), nil
}
