package domain

// StudentProfile carries the identity fields the backend returns for the
// logged-in student. The front end never edits these directly; the cached
// copy is replaced wholesale after a profile fetch.
type StudentProfile struct {
	Name              string `json:"name"`
	Email             string `json:"email,omitempty"`
	Mobile            string `json:"mobile,omitempty"`
	Branch            string `json:"branch,omitempty"`
	Year              string `json:"year,omitempty"`
	College           string `json:"college,omitempty"`
	DOB               string `json:"dob,omitempty"`
	EnrollmentNumber  string `json:"enrollmentNumber"`
	ProfilePhoto      string `json:"profilePhoto,omitempty"`
	IsPasswordCreated bool   `json:"isPasswordCreated"`
}

// Session is the authenticated identity held for the duration of a login.
// Profile may be nil while Token is set (login response arrived but the
// profile has not been hydrated yet); the reverse never holds.
type Session struct {
	Token   string          `json:"token"`
	Profile *StudentProfile `json:"profile,omitempty"`
}

// Authenticated reports whether the session carries a credential.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Theme presets persisted alongside the session.
const (
	DefaultTheme  = "light"
	DefaultAccent = "blue"
)

// AccentColors are the preset accent names the portal accepts.
var AccentColors = []string{
	"blue", "indigo", "violet", "purple", "fuchsia", "pink",
	"rose", "red", "orange", "amber", "emerald", "teal",
}

// ValidAccent reports whether name is one of the accent presets.
func ValidAccent(name string) bool {
	for _, c := range AccentColors {
		if c == name {
			return true
		}
	}
	return false
}

// Preferences are the per-session UI settings (theme and accent color).
type Preferences struct {
	Theme  string `json:"theme"`
	Accent string `json:"accentColor"`
}

// DefaultPreferences returns the preferences applied before the student has
// saved any.
func DefaultPreferences() Preferences {
	return Preferences{Theme: DefaultTheme, Accent: DefaultAccent}
}
