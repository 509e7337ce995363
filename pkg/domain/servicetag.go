package domain

import "fmt"

// ServiceTag distinguishes the two placement services a booking can belong
// to. Approved premises carry an approval workflow; temporary accommodation
// follows a confirmation-then-arrival flow with relaxed departure rules.
type ServiceTag string

const (
	ServiceApprovedPremises       ServiceTag = "approved-premises"
	ServiceTemporaryAccommodation ServiceTag = "temporary-accommodation"
)

var knownServiceTags = map[ServiceTag]struct{}{
	ServiceApprovedPremises:       {},
	ServiceTemporaryAccommodation: {},
}

// ParseServiceTag validates and returns a ServiceTag.
// Returns an error if the tag is unknown.
func ParseServiceTag(s string) (ServiceTag, error) {
	tag := ServiceTag(s)
	if _, ok := knownServiceTags[tag]; !ok {
		return "", fmt.Errorf("unknown service tag: %s", s)
	}
	return tag, nil
}

func (t ServiceTag) String() string {
	return string(t)
}

// ServiceScope tags reference data with the service it may be used for.
// The wildcard scope matches any service.
type ServiceScope string

const (
	ScopeApprovedPremises       ServiceScope = ServiceScope(ServiceApprovedPremises)
	ScopeTemporaryAccommodation ServiceScope = ServiceScope(ServiceTemporaryAccommodation)
	ScopeAny                    ServiceScope = "*"
)

// Matches reports whether reference data carrying this scope may be used on
// a booking with the given service tag.
func (s ServiceScope) Matches(tag ServiceTag) bool {
	return s == ScopeAny || string(s) == string(tag)
}
