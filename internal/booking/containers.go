package booking

import "fmt"

// Containers is the immutable mapping between booking statuses and the
// external containers (board lists) that hold them. Built once at startup
// from resolved list ids; the engine never re-resolves names on the hot
// path.
type Containers struct {
	byStatus    map[Status]string
	byContainer map[string]Status
}

func NewContainers(mapping map[Status]string) (Containers, error) {
	byStatus := make(map[Status]string, len(Statuses))
	byContainer := make(map[string]Status, len(Statuses))
	for _, s := range Statuses {
		id, ok := mapping[s]
		if !ok || id == "" {
			return Containers{}, fmt.Errorf("containers: missing container for status %s", s)
		}
		if prev, dup := byContainer[id]; dup {
			return Containers{}, fmt.Errorf("containers: container %s mapped to both %s and %s", id, prev, s)
		}
		byStatus[s] = id
		byContainer[id] = s
	}
	return Containers{byStatus: byStatus, byContainer: byContainer}, nil
}

// ContainerFor returns the container id holding records of the given status.
func (c Containers) ContainerFor(s Status) string {
	return c.byStatus[s]
}

// StatusOf reverse-maps a container id to its status. ok is false for
// containers outside the workflow (master data, finance, foreign lists).
func (c Containers) StatusOf(containerID string) (Status, bool) {
	s, ok := c.byContainer[containerID]
	return s, ok
}
