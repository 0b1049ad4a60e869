package lifecycle

import "encoding/json"

// ContainerEvent is one parsed lifecycle record from the runtime event
// stream.
type ContainerEvent struct {
	Status     string
	Id         string
	Name       string
	TimeNano   int64
	Attributes map[string]string
}

// runtimeEvent is the wire shape docker and podman emit with
// --format '{{json .}}'. Older daemons use top-level status/id, newer
// ones Action/Actor.ID; both are accepted.
type runtimeEvent struct {
	Type     string `json:"Type"`
	Status   string `json:"status"`
	Action   string `json:"Action"`
	Id       string `json:"id"`
	TimeNano int64  `json:"timeNano"`
	Actor    struct {
		ID         string            `json:"ID"`
		Attributes map[string]string `json:"Attributes"`
	} `json:"Actor"`
}

// ParseContainerEvent decodes one event line. Records that are not
// container events, or that do not decode, report ok=false and are
// dropped by the caller.
func ParseContainerEvent(line []byte) (ContainerEvent, bool) {
	var raw runtimeEvent
	if err := json.Unmarshal(line, &raw); err != nil {
		return ContainerEvent{}, false
	}
	if raw.Type != "container" {
		return ContainerEvent{}, false
	}
	ev := ContainerEvent{
		Status:     raw.Status,
		Id:         raw.Id,
		Name:       raw.Actor.Attributes["name"],
		TimeNano:   raw.TimeNano,
		Attributes: raw.Actor.Attributes,
	}
	if ev.Status == "" {
		ev.Status = raw.Action
	}
	if ev.Id == "" {
		ev.Id = raw.Actor.ID
	}
	return ev, true
}
