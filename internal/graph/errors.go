package graph

import "errors"

var (
	ErrNodeNotFound     = errors.New("graph: node not found")
	ErrNodeExists       = errors.New("graph: node already exists")
	ErrPortNotFound     = errors.New("graph: port not found")
	ErrNotNetwork       = errors.New("graph: node is not a network")
	ErrNotEmpty         = errors.New("graph: network is not empty")
	ErrAlreadyConnected = errors.New("graph: port already connected")
	ErrConnected        = errors.New("graph: node still has connections")
	ErrNotConnected     = errors.New("graph: ports are not connected")
	ErrLinked           = errors.New("graph: port already linked")
	ErrNotLinked        = errors.New("graph: port is not linked")
	ErrCycle            = errors.New("graph: connection would create a cycle")
	ErrIncompatible     = errors.New("graph: incompatible types")
	ErrRoot             = errors.New("graph: operation not permitted on the root network")
	ErrDuplicateName    = errors.New("graph: name already used by another pseudo-node")
)
