package port

import (
	"fmt"

	"github.com/mmr-tortoise/devstack/internal/model"
)

// Conflict describes a published port that cannot be bound as declared.
type Conflict struct {
	// Binding is the port declaration that conflicts.
	Binding model.PortBinding `json:"binding"`

	// Reason explains the conflict in human-readable form.
	Reason string `json:"reason"`
}

// String renders the conflict for CLI output.
func (c Conflict) String() string {
	return fmt.Sprintf("%s: %s", c.Binding.String(), c.Reason)
}

// CheckBindings runs the pre-up port preflight over a stack's published
// port declarations.
//
// Two classes of conflict are detected:
//
//  1. Intra-stack duplicates: two services publishing the same host
//     port/protocol pair. The Compose runtime would fail on the second
//     service, so this is always reported.
//  2. Host conflicts: a declared port already bound by some other
//     process, detected by probing the OS. Ports in ownPorts — those
//     held by this project's own running containers — are exempt,
//     because re-running `up` against a running stack must not flag
//     the stack's own listeners.
//
// Unpublished bindings (container port only) never conflict on the host.
// The returned slice is empty when the stack can bind everything.
func CheckBindings(scanner *Scanner, bindings []model.PortBinding, ownPorts map[int]bool) []Conflict {
	var conflicts []Conflict

	// Key: "hostPort/protocol", Value: owning service.
	seen := make(map[string]string)

	for _, pb := range bindings {
		if !pb.Published() {
			continue
		}

		key := fmt.Sprintf("%d/%s", pb.HostPort, pb.Protocol)
		if owner, dup := seen[key]; dup && owner != pb.ServiceName {
			conflicts = append(conflicts, Conflict{
				Binding: pb,
				Reason:  fmt.Sprintf("host port %s is also declared by service %q", key, owner),
			})
			continue
		}
		seen[key] = pb.ServiceName

		if ownPorts[pb.HostPort] {
			// Held by this project's own containers — idempotent up.
			continue
		}

		if !scanner.IsPortAvailable(pb.HostPort, pb.Protocol) {
			conflicts = append(conflicts, Conflict{
				Binding: pb,
				Reason:  fmt.Sprintf("host port %s is already in use by another process", key),
			})
		}
	}

	return conflicts
}
