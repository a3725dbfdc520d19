// Package factorgraph is the message-passing substrate for the rating
// engine: variable nodes that hold a running Gaussian marginal plus the last
// message received from each adjacent factor, and the factor kinds that push
// updated messages along their edges.
//
// Every push returns the magnitude of change it caused so the schedule
// driver can test convergence. A graph is built for a single inference run
// and discarded afterwards; nothing here is safe for concurrent mutation.
package factorgraph

import (
	"podiumpe.com/skill_rating/numerics"
)

// Factor is implemented by all factor kinds. It exists so variables can key
// their message tables by the adjacent factor; the schedule driver works
// with the concrete kinds directly.
type Factor interface {
	attach()
}

// Variable is a node holding the current marginal and the per-factor
// incoming messages.
type Variable struct {
	Value    numerics.Gaussian
	messages map[Factor]numerics.Gaussian
}

func NewVariable() *Variable {
	return &Variable{messages: make(map[Factor]numerics.Gaussian)}
}

// Message returns the last message received from f, uninformative if none.
func (v *Variable) Message(f Factor) numerics.Gaussian {
	return v.messages[f]
}

// set replaces the marginal and reports how far it moved.
func (v *Variable) set(val numerics.Gaussian) float64 {
	delta := v.Value.Delta(val)
	v.Value = val
	return delta
}

// UpdateMessage replaces the message from f and folds the change into the
// marginal: new marginal = (marginal / old message) * new message.
func (v *Variable) UpdateMessage(f Factor, m numerics.Gaussian) float64 {
	old := v.messages[f]
	v.messages[f] = m
	return v.set(v.Value.Div(old).Mul(m))
}

// UpdateValue forces the marginal to val and back-solves the message from f
// that accounts for the move: new message = val * old message / old marginal.
func (v *Variable) UpdateValue(f Factor, val numerics.Gaussian) float64 {
	old := v.messages[f]
	v.messages[f] = val.Mul(old).Div(v.Value)
	return v.set(val)
}

// register gives a factor an uninformative starting message at v.
func (v *Variable) register(f Factor) {
	v.messages[f] = numerics.Gaussian{}
}
