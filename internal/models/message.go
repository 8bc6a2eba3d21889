package models

// Role identifies the author of a conversation turn. The values match the
// wire roles of the generative-language API, so no translation is needed
// when building request payloads.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// DisplayName returns the label shown for the role in transcripts.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleModel:
		return "Gemini"
	default:
		return string(r)
	}
}

// Message is one {role, text} entry in the history sent alongside a prompt.
type Message struct {
	Role Role
	Text string
}
