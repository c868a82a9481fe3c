package network

import (
	"encoding/gob"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/gridrl/utils/matutils"
)

// mlpNet is a single computational graph of an MLP at a fixed batch
// size. Training nets also hold a mean squared error loss against a
// targets node, along with its gradient.
type mlpNet struct {
	g          *G.ExprGraph
	input      *G.Node
	layers     []*fcLayer
	prediction *G.Node
	predVal    G.Value
	targets    *G.Node
	vm         G.VM
	batch      int
}

func (n *mlpNet) learnables() G.Nodes {
	learnables := make(G.Nodes, 0, 2*len(n.layers))
	for _, l := range n.layers {
		learnables = append(learnables, l.learnables()...)
	}
	return learnables
}

func (n *mlpNet) model() []G.ValueGrad {
	learnables := n.learnables()
	model := make([]G.ValueGrad, len(learnables))
	for i := range learnables {
		model[i] = learnables[i]
	}
	return model
}

// MLP implements a multi-layered perceptron with a fully connected
// final layer of Outputs() units. If built with a softmax output, the
// MLP predicts a probability distribution over its outputs.
//
// The parameters are owned by the MLP and copied into the graph that
// runs each prediction or training step, so that a single set of
// parameters serves every batch size.
type MLP struct {
	features    int
	outputs     int
	hiddenSizes []int
	activations []*Activation
	softmax     bool

	params [][]float64
	solver G.Solver

	predict *mlpNet
	train   map[int]*mlpNet
}

// NewMLP creates and returns a new multi-layered perceptron with
// len(hiddenSizes) hidden layers followed by a linear output layer of
// outputs units. For index i, hiddenSizes[i] is the number of units in
// hidden layer i and activations[i] is its activation. Weights are
// initialized with init and biases with zeroes. The solver is used by
// Fit.
func NewMLP(features, outputs int, hiddenSizes []int,
	activations []*Activation, softmax bool, init G.InitWFn,
	solver G.Solver) (*MLP, error) {
	if features <= 0 || outputs <= 0 {
		return nil, fmt.Errorf("newMLP: features and outputs must be "+
			"positive, got %v and %v", features, outputs)
	}

	// Ensure we have one activation per layer
	if len(hiddenSizes) != len(activations) {
		msg := "newMLP: invalid number of activations\n\twant(%d)" +
			"\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(activations))
	}
	for i, size := range hiddenSizes {
		if size <= 0 {
			return nil, fmt.Errorf("newMLP: hidden layer %v has size %v",
				i, size)
		}
	}

	m := &MLP{
		features:    features,
		outputs:     outputs,
		hiddenSizes: append([]int(nil), hiddenSizes...),
		activations: append([]*Activation(nil), activations...),
		softmax:     softmax,
		solver:      solver,
		train:       make(map[int]*mlpNet),
	}

	sizes := m.layerSizes()
	m.params = make([][]float64, 0, 2*(len(sizes)-1))
	for i := 1; i < len(sizes); i++ {
		weights := init(tensor.Float64, sizes[i-1], sizes[i]).([]float64)
		m.params = append(m.params, weights, make([]float64, sizes[i]))
	}

	var err error
	if m.predict, err = m.build(1, false); err != nil {
		return nil, fmt.Errorf("newMLP: %v", err)
	}
	return m, nil
}

// layerSizes returns the number of units in each layer, including the
// input and output layers
func (m *MLP) layerSizes() []int {
	sizes := make([]int, 0, len(m.hiddenSizes)+2)
	sizes = append(sizes, m.features)
	sizes = append(sizes, m.hiddenSizes...)
	return append(sizes, m.outputs)
}

// build constructs the computational graph of the MLP at a batch size
func (m *MLP) build(batch int, train bool) (*mlpNet, error) {
	g := G.NewGraph()
	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, m.features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	net := &mlpNet{g: g, input: input, batch: batch}

	sizes := m.layerSizes()
	for i := 1; i < len(sizes); i++ {
		act := Identity()
		if i-1 < len(m.activations) {
			act = m.activations[i-1]
		}
		net.layers = append(net.layers, newFCLayer(g, sizes[i-1], sizes[i],
			i-1, act))
	}

	pred := input
	var err error
	for i, l := range net.layers {
		if pred, err = l.fwd(pred); err != nil {
			msg := "build: could not compute forward pass of layer %v: %v"
			return nil, fmt.Errorf(msg, i, err)
		}
	}

	if m.softmax {
		lse := LogSumExp(pred, 1)
		pred = G.Must(G.BroadcastSub(pred, lse, nil, []byte{1}))
		pred = G.Must(G.Exp(pred))
	}
	net.prediction = pred
	G.Read(net.prediction, &net.predVal)

	if !train {
		net.vm = G.NewTapeMachine(g)
		return net, nil
	}

	net.targets = G.NewMatrix(g, tensor.Float64,
		G.WithShape(pred.Shape()...), G.WithName("targets"),
		G.WithInit(G.Zeroes()))

	loss := G.Must(G.Sub(net.prediction, net.targets))
	loss = G.Must(G.Square(loss))
	loss = G.Must(G.Mean(loss))

	if _, err := G.Grad(loss, net.learnables()...); err != nil {
		return nil, fmt.Errorf("build: could not compute gradient: %v", err)
	}
	net.vm = G.NewTapeMachine(g, G.BindDualValues(net.learnables()...))

	return net, nil
}

// LogSumExp returns the log of the sum of exponentials of logits along
// an axis, computed stably by subtracting the maximum
func LogSumExp(logits *G.Node, along int) *G.Node {
	// Calculate the max logit per row
	max := G.Must(G.Max(logits, along))

	exponent := G.Must(G.BroadcastSub(logits, max, nil, []byte{1}))
	exponent = G.Must(G.Exp(exponent))

	// Sum along rows
	sum := G.Must(G.Sum(exponent, along))

	log := G.Must(G.Log(sum))

	return G.Must(G.Add(max, log))
}

// Features returns the number of inputs per sample
func (m *MLP) Features() int {
	return m.features
}

// Outputs returns the number of outputs per sample
func (m *MLP) Outputs() int {
	return m.outputs
}

// Params returns a copy of the parameters of the MLP, alternating
// between the weights and bias of each layer
func (m *MLP) Params() [][]float64 {
	params := make([][]float64, len(m.params))
	for i := range m.params {
		params[i] = append([]float64(nil), m.params[i]...)
	}
	return params
}

// setParams copies the parameters of the MLP into the graph of net
func (m *MLP) setParams(net *mlpNet) {
	for i, node := range net.learnables() {
		copy(node.Value().Data().([]float64), m.params[i])
	}
}

// getParams copies the parameters in the graph of net into the MLP
func (m *MLP) getParams(net *mlpNet) {
	for i, node := range net.learnables() {
		copy(m.params[i], node.Value().Data().([]float64))
	}
}

func (m *MLP) checkInput(x *mat.Dense) error {
	if _, c := x.Dims(); c != m.features {
		return fmt.Errorf("invalid number of features\n\twant(%v)"+
			"\n\thave(%v)", m.features, c)
	}
	return nil
}

// Predict returns the predictions of the MLP for each row of x
func (m *MLP) Predict(x *mat.Dense) (*mat.Dense, error) {
	if err := m.checkInput(x); err != nil {
		return nil, fmt.Errorf("predict: %v", err)
	}

	m.setParams(m.predict)
	rows, _ := x.Dims()
	out := mat.NewDense(rows, m.outputs, nil)

	for i := 0; i < rows; i++ {
		input := tensor.NewDense(tensor.Float64, m.predict.input.Shape(),
			tensor.WithBacking(mat.Row(nil, i, x)))
		if err := G.Let(m.predict.input, input); err != nil {
			return nil, fmt.Errorf("predict: could not set input: %v", err)
		}
		if err := m.predict.vm.RunAll(); err != nil {
			return nil, fmt.Errorf("predict: %v", err)
		}
		out.SetRow(i, m.predict.predVal.Data().([]float64))
		m.predict.vm.Reset()
	}
	return out, nil
}

// Fit takes one solver step on the mean squared error between the
// predictions of the MLP on x and the targets y. All rows of x form a
// single batch.
func (m *MLP) Fit(x, y *mat.Dense) error {
	if err := m.checkInput(x); err != nil {
		return fmt.Errorf("fit: %v", err)
	}
	rows, _ := x.Dims()
	if r, c := y.Dims(); r != rows || c != m.outputs {
		return fmt.Errorf("fit: targets must be (%v, %v), got (%v, %v)",
			rows, m.outputs, r, c)
	}
	if m.solver == nil {
		return fmt.Errorf("fit: no solver")
	}

	net, ok := m.train[rows]
	if !ok {
		var err error
		if net, err = m.build(rows, true); err != nil {
			return fmt.Errorf("fit: %v", err)
		}
		m.train[rows] = net
	}

	m.setParams(net)

	input := tensor.NewDense(tensor.Float64, net.input.Shape(),
		tensor.WithBacking(matutils.Flatten(x)))
	if err := G.Let(net.input, input); err != nil {
		return fmt.Errorf("fit: could not set input: %v", err)
	}
	targets := tensor.NewDense(tensor.Float64, net.targets.Shape(),
		tensor.WithBacking(matutils.Flatten(y)))
	if err := G.Let(net.targets, targets); err != nil {
		return fmt.Errorf("fit: could not set targets: %v", err)
	}

	if err := net.vm.RunAll(); err != nil {
		return fmt.Errorf("fit: %v", err)
	}
	if err := m.solver.Step(net.model()); err != nil {
		return fmt.Errorf("fit: could not step solver: %v", err)
	}
	net.vm.Reset()

	m.getParams(net)
	return nil
}

// mlp is the serialized form of an MLP
type mlp struct {
	Features    int
	Outputs     int
	HiddenSizes []int
	Activations []*Activation
	Softmax     bool
	Params      [][]float64
}

// Save gob encodes the architecture and parameters of the MLP to path.
// Solver state is not saved.
func (m *MLP) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save: could not create file: %v", err)
	}
	defer file.Close()

	enc := gob.NewEncoder(file)
	err = enc.Encode(mlp{
		Features:    m.features,
		Outputs:     m.outputs,
		HiddenSizes: m.hiddenSizes,
		Activations: m.activations,
		Softmax:     m.softmax,
		Params:      m.params,
	})
	if err != nil {
		return fmt.Errorf("save: could not encode MLP: %v", err)
	}
	return nil
}

// Load replaces the parameters of the MLP with those saved at path. The
// saved MLP must have the same architecture.
func (m *MLP) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load: could not open file: %v", err)
	}
	defer file.Close()

	var saved mlp
	if err := gob.NewDecoder(file).Decode(&saved); err != nil {
		return fmt.Errorf("load: could not decode MLP: %v", err)
	}

	if saved.Features != m.features || saved.Outputs != m.outputs ||
		saved.Softmax != m.softmax ||
		len(saved.HiddenSizes) != len(m.hiddenSizes) ||
		len(saved.Activations) != len(m.activations) {
		return fmt.Errorf("load: saved MLP architecture does not match")
	}
	for i := range m.hiddenSizes {
		if saved.HiddenSizes[i] != m.hiddenSizes[i] ||
			saved.Activations[i].String() != m.activations[i].String() {
			return fmt.Errorf("load: saved MLP layer %v does not match", i)
		}
	}
	if len(saved.Params) != len(m.params) {
		return fmt.Errorf("load: expected %v parameter tensors, got %v",
			len(m.params), len(saved.Params))
	}
	for i := range m.params {
		if len(saved.Params[i]) != len(m.params[i]) {
			return fmt.Errorf("load: parameter tensor %v has %v values, "+
				"expected %v", i, len(saved.Params[i]), len(m.params[i]))
		}
	}

	m.params = saved.Params
	return nil
}
