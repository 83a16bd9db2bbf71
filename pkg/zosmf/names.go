package zosmf

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxMemberLength is the longest member name a partitioned dataset accepts.
const MaxMemberLength = 8

var (
	datasetNamePattern = regexp.MustCompile(`^[a-zA-Z#$@][a-zA-Z0-9#$@-]{0,7}([.][a-zA-Z#$@][a-zA-Z0-9#$@-]{0,7}){0,21}$`)
	memberNamePattern  = regexp.MustCompile(`^(?:[A-Z#@$][A-Z0-9#@$]{0,7}|[a-z#@$][a-zA-Z0-9#@$]{0,7})$`)
	memberRefPattern   = regexp.MustCompile(`^([\w#$@.-]+)\(([\w#$@]{1,8})\)$`)
)

// ValidDatasetName reports whether name is a well-formed dataset name.
func ValidDatasetName(name string) bool {
	return len(name) <= 44 && datasetNamePattern.MatchString(name)
}

// ValidateMember rejects member names that can never be addressed: empty or
// longer than MaxMemberLength. Other oddities are left to the service.
func ValidateMember(member string) error {
	switch {
	case member == "":
		return fmt.Errorf("%w: member name is empty", ErrValidation)
	case len(member) > MaxMemberLength:
		return fmt.Errorf("%w: member name %q is longer than %d characters", ErrValidation, member, MaxMemberLength)
	}
	return nil
}

// ConventionalMemberName reports whether member follows the usual naming rules.
func ConventionalMemberName(member string) bool {
	return memberNamePattern.MatchString(member)
}

// SplitMemberRef splits "HLQ.LIB(MEMBER)" into its dataset and member parts.
// ok is false when ref does not name a member.
func SplitMemberRef(ref string) (dsn, member string, ok bool) {
	m := memberRefPattern.FindStringSubmatch(strings.TrimSpace(ref))
	if m == nil {
		return ref, "", false
	}
	return m[1], m[2], true
}

// MemberRef formats dsn(member), or just dsn when member is empty.
func MemberRef(dsn, member string) string {
	if member == "" {
		return dsn
	}
	return dsn + "(" + member + ")"
}
