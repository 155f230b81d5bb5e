// Package podcast defines the domain vocabulary shared by every pipeline
// stage: modes, hosts, the script sections returned to callers, the
// request/response shapes, and the listening-time estimate.
//
// The package has no dependencies on the rest of the pipeline so prompt
// building, dialogue parsing, and the HTTP layer can all share it.
package podcast
