package session

// Meta is the metadata snapshot recorded when a session is created. It is
// immutable afterwards and destroyed with its session.
//
// The JSON field names are the registry's wire format; changing them orphans
// every live session.
type Meta struct {
	IP         string `json:"ip"`
	LoginAt    int64  `json:"login_at"`
	UserAgent  string `json:"ua"`
	Credential string `json:"auth_data"`
}
