package cgroup

import (
	"fmt"
	"path/filepath"
)

const cgroupRoot = "/sys/fs/cgroup"

// NewPathFactory selects the path layout for a runtime and cgroup
// version. Supported combinations: docker/v1, docker/v2, podman/v1,
// podman/v2.
func NewPathFactory(runtime, cgroupVersion string) (PathFactory, error) {
	switch runtime + "/" + cgroupVersion {
	case "docker/v1":
		return DockerV1PathFactory{Root: cgroupRoot}, nil
	case "docker/v2":
		return DockerV2PathFactory{Root: cgroupRoot}, nil
	case "podman/v1":
		return PodmanV1PathFactory{Root: cgroupRoot}, nil
	case "podman/v2":
		return PodmanV2PathFactory{Root: cgroupRoot}, nil
	}
	return nil, fmt.Errorf("unsupported runtime/cgroup combination: %s/%s", runtime, cgroupVersion)
}

// DockerV1PathFactory lays out the split v1 hierarchy used by docker:
// each controller has its own subtree under the cgroup root.
type DockerV1PathFactory struct {
	Root string
}

func (f DockerV1PathFactory) Paths(containerId string) ContainerResourcePaths {
	return ContainerResourcePaths{
		CpuPath:    filepath.Join(f.Root, "cpu", "docker", containerId, "cpuacct.usage"),
		MemoryPath: filepath.Join(f.Root, "memory", "docker", containerId, "memory.usage_in_bytes"),
		PidPath:    filepath.Join(f.Root, "pids", "docker", containerId, "pids.current"),
	}
}

// DockerV2PathFactory lays out the unified v2 hierarchy: one scope
// directory per container under system.slice.
type DockerV2PathFactory struct {
	Root string
}

func (f DockerV2PathFactory) Paths(containerId string) ContainerResourcePaths {
	scope := filepath.Join(f.Root, "system.slice", "docker-"+containerId+".scope")
	return ContainerResourcePaths{
		CpuPath:    filepath.Join(scope, "cpu.stat"),
		MemoryPath: filepath.Join(scope, "memory.current"),
		PidPath:    filepath.Join(scope, "pids.current"),
	}
}

// PodmanV1PathFactory mirrors the docker v1 layout for podman's
// machine.slice/libpod scopes.
type PodmanV1PathFactory struct {
	Root string
}

func (f PodmanV1PathFactory) Paths(containerId string) ContainerResourcePaths {
	scope := "libpod-" + containerId + ".scope"
	return ContainerResourcePaths{
		CpuPath:    filepath.Join(f.Root, "cpu", "machine.slice", scope, "cpuacct.usage"),
		MemoryPath: filepath.Join(f.Root, "memory", "machine.slice", scope, "memory.usage_in_bytes"),
		PidPath:    filepath.Join(f.Root, "pids", "machine.slice", scope, "pids.current"),
	}
}

// PodmanV2PathFactory lays out podman scopes on the unified hierarchy.
type PodmanV2PathFactory struct {
	Root string
}

func (f PodmanV2PathFactory) Paths(containerId string) ContainerResourcePaths {
	scope := filepath.Join(f.Root, "machine.slice", "libpod-"+containerId+".scope")
	return ContainerResourcePaths{
		CpuPath:    filepath.Join(scope, "cpu.stat"),
		MemoryPath: filepath.Join(scope, "memory.current"),
		PidPath:    filepath.Join(scope, "pids.current"),
	}
}
