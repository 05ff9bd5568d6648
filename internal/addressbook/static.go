package addressbook

// DefaultReverseName is the name the mock address reverse-resolves to.
const DefaultReverseName = "friend.eth"

// StaticResolver is the mock address book: every ENS name resolves to one
// fixed address, and that address reverse-resolves to one fixed name.
type StaticResolver struct {
	Address     string
	ReverseName string
}

// NewStaticResolver creates the mock resolver.
func NewStaticResolver(address, reverseName string) *StaticResolver {
	return &StaticResolver{Address: address, ReverseName: reverseName}
}

// ResolveName implements Resolver.
func (s *StaticResolver) ResolveName(name string) (string, bool) {
	if s.Address == "" || Classify(name) != KindENS {
		return "", false
	}
	return s.Address, true
}

// LookupAddress implements Resolver. Matching is exact, as the form does it.
func (s *StaticResolver) LookupAddress(addr string) (string, bool) {
	if s.ReverseName == "" || addr != s.Address {
		return "", false
	}
	return s.ReverseName, true
}
