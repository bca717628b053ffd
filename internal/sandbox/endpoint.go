package sandbox

// Endpoint identifies one of the sandbox API operations hrs uses.
type Endpoint int

const (
	EndpointProvision Endpoint = iota
	EndpointDirectory
	EndpointIndividual
	EndpointEmployment
)

// Products is the product scope requested for every sandbox session.
var Products = []string{"company", "directory", "individual", "employment"}

var endpointPaths = map[Endpoint]string{
	EndpointProvision:  "/api/sandbox/create",
	EndpointDirectory:  "/api/employer/directory",
	EndpointIndividual: "/api/employer/individual",
	EndpointEmployment: "/api/employer/individual/employer/employment",
}

var endpointNames = map[Endpoint]string{
	EndpointProvision:  "provision",
	EndpointDirectory:  "directory",
	EndpointIndividual: "individual",
	EndpointEmployment: "employment",
}

// Path returns the URL path of the endpoint relative to the API host.
func (e Endpoint) Path() string {
	return endpointPaths[e]
}

// String returns the short name used in logs and metrics.
func (e Endpoint) String() string {
	if name, ok := endpointNames[e]; ok {
		return name
	}
	return "unknown"
}
