package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// fcLayer implements a fully connected layer of a feed forward neural
// network
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	act     *Activation
}

// newFCLayer adds the weights and bias of a layer mapping in features
// to out features to the graph g. Values are zero until set.
func newFCLayer(g *G.ExprGraph, in, out, index int,
	act *Activation) *fcLayer {
	weights := G.NewMatrix(g, tensor.Float64, G.WithShape(in, out),
		G.WithName(fmt.Sprintf("W%d", index)), G.WithInit(G.Zeroes()))
	bias := G.NewMatrix(g, tensor.Float64, G.WithShape(1, out),
		G.WithName(fmt.Sprintf("b%d", index)), G.WithInit(G.Zeroes()))

	return &fcLayer{weights: weights, bias: bias, act: act}
}

// Fwd adds the forward pass of the fcLayer to the computational graph
func (f *fcLayer) fwd(x *G.Node) (*G.Node, error) {
	x, err := G.Mul(x, f.weights)
	if err != nil {
		return nil, err
	}

	// Broadcast the bias weights to all samples along the batch
	// dimension
	x, err = G.BroadcastAdd(x, f.bias, nil, []byte{0})
	if err != nil {
		return nil, err
	}

	if f.act == nil {
		return x, nil
	}
	return f.act.fwd(x)
}

func (f *fcLayer) learnables() G.Nodes {
	return G.Nodes{f.weights, f.bias}
}
