package service

// Protocol is one card of the security documentation view.
type Protocol struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Route is one entry of the navigation sidebar.
type Route struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Path    string `json:"path"`
	Default bool   `json:"default,omitempty"`
}

// SecurityProtocols returns the static protocol catalogue.
func SecurityProtocols() []Protocol {
	return []Protocol{
		{
			ID:          "face-verification",
			Title:       "Face Verification Protocol",
			Description: "DeepFace-powered recognition with 95%+ confidence threshold. Multi-angle detection with anti-spoofing measures including liveness detection.",
			Status:      "Active",
		},
		{
			ID:          "data-encryption",
			Title:       "Data Encryption",
			Description: "AES-256 encryption for all biometric data at rest. TLS 1.3 for data in transit. Face embeddings stored as encrypted vectors, never raw images.",
			Status:      "Active",
		},
		{
			ID:          "privacy-compliance",
			Title:       "Privacy Compliance",
			Description: "GDPR and CCPA compliant. Biometric data auto-purged after 90 days of inactivity. Opt-in consent required for all members.",
			Status:      "Active",
		},
		{
			ID:          "incident-response",
			Title:       "Incident Response",
			Description: "Automated alerts for repeated denied entries. Security team notification within 30 seconds. Full audit trail with video correlation.",
			Status:      "Active",
		},
	}
}

// Routes returns the four navigation destinations. Recognition is the
// default view.
func Routes() []Route {
	return []Route{
		{Name: "recognition", Label: "Recognition", Path: "/", Default: true},
		{Name: "members", Label: "Members", Path: "/members"},
		{Name: "access-log", Label: "Access Log", Path: "/access-log"},
		{Name: "security", Label: "Security", Path: "/security"},
	}
}
