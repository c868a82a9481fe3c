// Package initwfn implements seeded Gorgonia weight initializers that
// can be selected by name and JSON serialized into configuration files.
package initwfn

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Type describes different types of InitWFn that are available.
// Type is used to implement a basic type system of InitWFn's.
type Type string

// Available InitWFn types
const (
	GlorotU  Type = "glorotu"
	GlorotN  Type = "glorotn"
	HeU      Type = "heu"
	HeN      Type = "hen"
	Uniform  Type = "uniform"
	Gaussian Type = "gaussian"
	Zeroes   Type = "zeroes"
	Constant Type = "constant"
)

var registeredTypes = map[Type]reflect.Type{
	GlorotU:  reflect.TypeOf(GlorotUConfig{}),
	GlorotN:  reflect.TypeOf(GlorotNConfig{}),
	HeU:      reflect.TypeOf(HeUConfig{}),
	HeN:      reflect.TypeOf(HeNConfig{}),
	Uniform:  reflect.TypeOf(UniformConfig{}),
	Gaussian: reflect.TypeOf(GaussianConfig{}),
	Zeroes:   reflect.TypeOf(ZeroesConfig{}),
	Constant: reflect.TypeOf(ConstantConfig{}),
}

// ParseType returns the InitWFn Type named by s, ignoring case
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := registeredTypes[t]; !ok {
		return "", fmt.Errorf("parseType: unknown weight initializer %q", s)
	}
	return t, nil
}

// InitWFn wraps a seeded Gorgonia InitWFn so that it can be JSON
// marshalled and unmarshalled.
type InitWFn struct {
	Type
	Config
	Seed uint64
}

// newInitWFn returns a new InitWFn
func newInitWFn(c Config, seed uint64) *InitWFn {
	return &InitWFn{Type: c.Type(), Config: c, Seed: seed}
}

// NewDefault returns an InitWFn of type t with default parameters: a
// gain of 1, a unit interval or standard normal, or a constant of 0.
func NewDefault(t Type, seed uint64) (*InitWFn, error) {
	var c Config
	switch t {
	case GlorotU:
		c = GlorotUConfig{Gain: 1}
	case GlorotN:
		c = GlorotNConfig{Gain: 1}
	case HeU:
		c = HeUConfig{Gain: 1}
	case HeN:
		c = HeNConfig{Gain: 1}
	case Uniform:
		c = UniformConfig{Low: -1, High: 1}
	case Gaussian:
		c = GaussianConfig{Mean: 0, StdDev: 1}
	case Zeroes:
		c = ZeroesConfig{}
	case Constant:
		c = ConstantConfig{}
	default:
		return nil, fmt.Errorf("newDefault: unknown weight initializer %q",
			t)
	}
	return newInitWFn(c, seed), nil
}

// InitWFn returns the wrapped Gorgonia InitWFn. Each call returns an
// initializer with a freshly seeded source, so that equal seeds give
// equal weights.
func (i *InitWFn) InitWFn() G.InitWFn {
	return i.Config.Create(i.Seed)
}

// String implements the fmt.Stringer interface
func (i *InitWFn) String() string {
	return fmt.Sprintf("{%v InitWFn: %v}", i.Type, i.Config)
}

// UnmarshalJSON implements the json.Unmarshaller interface
func (i *InitWFn) UnmarshalJSON(data []byte) error {
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	var typeName string
	if err := json.Unmarshal(m["Type"], &typeName); err != nil {
		return fmt.Errorf("unmarshalJSON: could not read type: %v", err)
	}
	t, err := ParseType(typeName)
	if err != nil {
		return fmt.Errorf("unmarshalJSON: %v", err)
	}

	value := reflect.New(registeredTypes[t])
	if raw, ok := m["Config"]; ok {
		if err := json.Unmarshal(raw, value.Interface()); err != nil {
			return fmt.Errorf("unmarshalJSON: %v", err)
		}
	}

	var seed uint64
	if raw, ok := m["Seed"]; ok {
		if err := json.Unmarshal(raw, &seed); err != nil {
			return fmt.Errorf("unmarshalJSON: could not read seed: %v", err)
		}
	}

	*i = *newInitWFn(value.Elem().Interface().(Config), seed)
	return nil
}

// Config implements a Gorgonia InitWFn configuration and can be used to
// create the described Gorgonia InitWFn's.
type Config interface {
	// Create returns the Gorgonia InitWFn that the Config describes,
	// drawing from a source seeded with seed
	Create(seed uint64) G.InitWFn

	// Type returns the type of Gorgonia InitWFn that is returned
	Type() Type
}

// fill returns a backing slice of dtype dt for a tensor of shape s
// whose elements are produced by draw
func fill(dt tensor.Dtype, s []int, draw func() float64) interface{} {
	size := tensor.Shape(s).TotalSize()
	switch dt {
	case tensor.Float64:
		data := make([]float64, size)
		for i := range data {
			data[i] = draw()
		}
		return data
	case tensor.Float32:
		data := make([]float32, size)
		for i := range data {
			data[i] = float32(draw())
		}
		return data
	default:
		panic(fmt.Sprintf("initwfn: unsupported dtype %v", dt))
	}
}

// fans returns the fan in and fan out of a weight tensor of shape s
func fans(s []int) (in, out float64) {
	switch len(s) {
	case 0:
		return 1, 1
	case 1:
		return float64(s[0]), float64(s[0])
	default:
		receptive := 1
		for _, d := range s[2:] {
			receptive *= d
		}
		return float64(s[0] * receptive), float64(s[1] * receptive)
	}
}

// uniform returns an InitWFn drawing from U[low(s), high(s))
func uniform(seed uint64, limit func(in, out float64) float64) G.InitWFn {
	src := rand.NewSource(seed)
	return func(dt tensor.Dtype, s ...int) interface{} {
		l := limit(fans(s))
		dist := distuv.Uniform{Min: -l, Max: l, Src: src}
		return fill(dt, s, dist.Rand)
	}
}

// normal returns an InitWFn drawing from N(0, std(s)²)
func normal(seed uint64, std func(in, out float64) float64) G.InitWFn {
	src := rand.NewSource(seed)
	return func(dt tensor.Dtype, s ...int) interface{} {
		dist := distuv.Normal{Mu: 0, Sigma: std(fans(s)), Src: src}
		return fill(dt, s, dist.Rand)
	}
}
