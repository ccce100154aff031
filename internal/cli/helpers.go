package cli

import (
	"fmt"
	"strings"

	api "github.com/kovtools/checkctl/api/v1alpha1"
)

const (
	CheckKind = "check"
	VGCKind   = "vgc"
)

var (
	pluralKinds = map[string]string{
		CheckKind: "checks",
		VGCKind:   "vgcs",
	}

	jobKinds = map[string]api.JobKind{
		CheckKind: api.JobKindComplianceCheck,
		VGCKind:   api.JobKindVGCListCreation,
	}
)

func parseAndValidateKindId(arg string) (string, string, error) {
	kind, id, _ := strings.Cut(arg, "/")
	kind = singular(kind)
	if _, ok := pluralKinds[kind]; !ok {
		return "", "", fmt.Errorf("invalid resource kind: %s", kind)
	}
	return kind, id, nil
}

func singular(kind string) string {
	for singular, plural := range pluralKinds {
		if kind == plural {
			return singular
		}
	}
	return kind
}

func plural(kind string) string {
	return pluralKinds[kind]
}

func jobKind(kind string) api.JobKind {
	return jobKinds[kind]
}
