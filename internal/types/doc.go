// Package types defines the command boundary: commands, responses, service
// descriptors, parameter access and the error taxonomy carried to clients.
package types
