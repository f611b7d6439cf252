package template

import (
	"strings"
)

const (
	// ComputeURLBase prefixes every fully-qualified Compute Engine reference.
	ComputeURLBase = "https://www.googleapis.com/compute/v1"

	// ContainerImageProject hosts the container-optimized boot images.
	ContainerImageProject = "google-containers"
)

// GlobalComputeURL returns <base>/projects/<project>/global/<collection>/<name>.
func GlobalComputeURL(project, collection, name string) string {
	return strings.Join([]string{
		ComputeURLBase, "projects", project, "global", collection, name,
	}, "/")
}

// ZonalComputeURL returns <base>/projects/<project>/zones/<zone>/<collection>/<name>.
func ZonalComputeURL(project, zone, collection, name string) string {
	return strings.Join([]string{
		ComputeURLBase, "projects", project, "zones", zone, collection, name,
	}, "/")
}

func zonalPath(zone, collection, name string) string {
	return strings.Join([]string{"zones", zone, collection, name}, "/")
}

func globalPath(collection, name string) string {
	return strings.Join([]string{"global", collection, name}, "/")
}

func projectGlobalPath(project, collection, name string) string {
	return strings.Join([]string{"projects", project, globalPath(collection, name)}, "/")
}
