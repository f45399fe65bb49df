package email

// PreviewData holds sample values for every template, keyed by template
// name, for local previews and template tests.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"UserName":  "Ada",
		"UserEmail": "ada@example.com",
	},
}
