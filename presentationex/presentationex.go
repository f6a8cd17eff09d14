// Package presentationex models DIF Presentation Exchange definitions
// (https://identity.foundation/presentation-exchange/) as far as the wallet
// consumes them: a verifier describes what it requests and why through input
// descriptors.
package presentationex

// PresentationDefinition is the container of a verifier's request.
type PresentationDefinition struct {
	ID                     string                   `json:"id,omitempty"`
	Name                   string                   `json:"name,omitempty"`
	Purpose                string                   `json:"purpose,omitempty"`
	SubmissionRequirements []SubmissionRequirements `json:"submission_requirements,omitempty"`
	InputDescriptors       []InputDescriptor        `json:"input_descriptors,omitempty"`
}

// SubmissionRequirements groups input descriptors under a selection rule.
type SubmissionRequirements struct {
	Name    string   `json:"name,omitempty"`
	Purpose string   `json:"purpose,omitempty"`
	Rule    string   `json:"rule,omitempty"`
	Count   int      `json:"count,omitempty"`
	From    []string `json:"from,omitempty"`
}

// InputDescriptor describes one requested credential.
type InputDescriptor struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name,omitempty"`
	Purpose     string       `json:"purpose,omitempty"`
	Group       []string     `json:"group,omitempty"`
	Schema      *Schema      `json:"schema,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty"`
}

// Schema identifies the credential schema an input descriptor asks for.
type Schema struct {
	URI     string `json:"uri,omitempty"`
	Name    string `json:"name,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// Constraints restrict the claims a holder may present.
type Constraints struct {
	LimitDisclosure string  `json:"limit_disclosure,omitempty"`
	Fields          []Field `json:"fields,omitempty"`
}

// Field constrains a single claim by JSONPath and filter.
type Field struct {
	Path           []string `json:"path,omitempty"`
	Purpose        string   `json:"purpose,omitempty"`
	Name           string   `json:"name,omitempty"`
	IntentToRetain bool     `json:"intent_to_retain,omitempty"`
	Filter         *Filter  `json:"filter,omitempty"`
}

// Filter is a JSON-schema style claim value filter.
type Filter struct {
	Type      string `json:"type,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	MinLength int    `json:"minLength,omitempty"`
	MaxLength int    `json:"maxLength,omitempty"`
}
