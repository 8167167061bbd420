// Package kind holds the event kind type and the kind number ranges that
// decide how the store treats an event: regular, replaceable, ephemeral or
// parameterized replaceable.
package kind

// T is the event type in the nostr protocol. The ranges of its value space
// decide storage semantics, see the predicates below.
type T uint16

func (ki T) ToInt() int       { return int(ki) }
func (ki T) ToUint16() uint16 { return uint16(ki) }

const (
	// ProfileMetadata stores user profile data and despite being kind 0 is
	// replaceable.
	ProfileMetadata T = 0
	// TextNote is a standard short plain text note.
	TextNote T = 1
	// RecommendServer suggests a relay to followers.
	RecommendServer T = 2
	// FollowList is the list of pubkeys a user follows, also replaceable.
	FollowList T = 3
	// EncryptedDirectMessage is a NIP-04 DM.
	EncryptedDirectMessage T = 4
	// Deletion requests removal of prior events.
	Deletion T = 5
	// Repost rebroadcasts another event.
	Repost T = 6
	// Reaction is a like/emoji response.
	Reaction T = 7

	ReplaceableStart  T = 10000
	MuteList          T = 10000
	PinList           T = 10001
	RelayListMetadata T = 10002
	ReplaceableEnd    T = 20000

	EphemeralStart       T = 20000
	ClientAuthentication T = 22242
	EphemeralEnd         T = 30000

	ParameterizedReplaceableStart T = 30000
	CategorizedPeopleList         T = 30000
	CategorizedBookmarksList      T = 30001
	ProfileBadges                 T = 30008
	LongFormContent               T = 30023
	ApplicationSpecificData       T = 30078
	ParameterizedReplaceableEnd   T = 40000
)

// IsRegular events are stored forever and never superseded.
func (ki T) IsRegular() bool {
	return !ki.IsReplaceable() && !ki.IsEphemeral() &&
		!ki.IsParameterizedReplaceable()
}

// IsReplaceable events hold one latest-wins slot per kind and author.
func (ki T) IsReplaceable() bool {
	return ki == ProfileMetadata || ki == FollowList ||
		(ki >= ReplaceableStart && ki < ReplaceableEnd)
}

func (ki T) IsEphemeral() bool {
	return ki >= EphemeralStart && ki < EphemeralEnd
}

// IsParameterizedReplaceable events hold one latest-wins slot per kind,
// author and `d` tag value.
func (ki T) IsParameterizedReplaceable() bool {
	return ki >= ParameterizedReplaceableStart &&
		ki < ParameterizedReplaceableEnd
}
