package common

// Remote store collection names. The users collection is keyed by username;
// the visitors collection is keyed by an opaque server-generated entry id,
// with the business id carried inside the document.
const (
	CollectionUsers    = "users"
	CollectionVisitors = "visitors"
)

// Local state slots. Each slot is one row in the client's state table.
const (
	StateSlotSession = "session"
)

// Well-known bootstrap administrator credentials. Created only when the
// users collection is empty.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminSecret   = "admin123"
	DefaultAdminFullName = "System Administrator"
	DefaultAdminEmail    = "admin@visitordesk.local"
)

// MinSecretLength is the minimum accepted credential length at registration.
const MinSecretLength = 6
