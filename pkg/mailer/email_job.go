package mailer

// EmailJob is a rendered-or-renderable email. With Template set, Subject,
// Text and HTML are produced from <Template>.{subject,text,html}.tmpl.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome", "message_notification"
	Data     map[string]any `json:"data,omitempty"`
}
