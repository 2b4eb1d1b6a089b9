// Package template holds the versioned prompt templates sent to the
// chat-completion service. Prompts are data: they are rendered here and
// can be inspected without any network call.
package template

import (
	"fmt"
	"strings"
	"text/template"
)

// Template name constants.
const (
	Summary  = "summary"
	Keywords = "keywords"
)

// SystemPrompt frames every chat request.
const SystemPrompt = "You are a helpful assistant."

// NoConversationReply is the answer the model is told to give when the
// input is not a real conversation (hold music, silence).
const NoConversationReply = "The audio content does not contain a valid conversation for summarization."

// Section labels of the summary output, in order.
const (
	SectionClientInformation = "Client Information:"
	SectionKeyPoints         = "Phone Call Key Points:"
	SectionCustomerNotes     = "Customer Notes:"
	SectionRecommendation    = "Recommendation:"
)

// SummarySections lists the labels the summary template asks for.
func SummarySections() []string {
	return []string{
		SectionClientInformation,
		SectionKeyPoints,
		SectionCustomerNotes,
		SectionRecommendation,
	}
}

// Data is the input of a prompt template.
type Data struct {
	// Company is the name of the company whose sales representative is on the call.
	Company string
	// CompanyDomain is the email domain of the company, e.g. "sunwire.ca".
	CompanyDomain string
	// Transcript is embedded verbatim.
	Transcript string
}

// legalSuffixes are dropped by Brand.
var legalSuffixes = []string{
	"Incorporated", "Inc.", "Inc",
	"Corporation", "Corp.", "Corp",
	"Limited", "Ltd.", "Ltd",
	"L.L.C.", "LLC", "GmbH", "S.A.", "Co.",
}

// Brand is Company without its legal suffix: "Sunwire Inc." gives "Sunwire".
// It names the company's email addresses and internal information.
func (d Data) Brand() string {
	name := strings.TrimSpace(d.Company)
	for _, suffix := range legalSuffixes {
		rest, ok := strings.CutSuffix(name, suffix)
		// The suffix must be a separate word: "Sunwireinc" stays whole.
		if !ok || (!strings.HasSuffix(rest, " ") && !strings.HasSuffix(rest, ",")) {
			continue
		}
		if brand := strings.TrimRight(rest, " ,"); brand != "" {
			return brand
		}
	}
	return name
}

// templates maps names to parsed prompt templates.
// Prompts are versioned with the binary; update requires rebuild.
var templates = map[string]*template.Template{
	Summary:  template.Must(template.New(Summary).Parse(summaryPrompt)),
	Keywords: template.Must(template.New(Keywords).Parse(keywordsPrompt)),
}

// Render renders the named template with data.
// Returns ErrUnknown if the name is not recognized.
func Render(name string, data Data) (string, error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q: %w", name, ErrUnknown)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", name, err)
	}
	return b.String(), nil
}

// Names returns the available template names in a stable order.
func Names() []string {
	return []string{Summary, Keywords}
}

// The transcript is injected as data, so braces in it are never parsed.

const summaryPrompt = `You are a sales assistant tasked with summarizing a phone conversation between a customer and our sales representative at {{.Company}}. ` +
	`Your role is to capture key information from the conversation to help our sales team review it later. ` +
	`Be precise when documenting personal information such as addresses, names, emails, etc., and carefully check the spelling of all details. ` +
	`In this conversation, the sales representative is the one representing {{.Company}}, and the other person is the customer. Ensure that the sales representative is correctly identified.
` +
	`Do not include any details specific to {{.Company}}, such as {{.Brand}} email addresses{{if .CompanyDomain}} (e.g., any ending with {{.CompanyDomain}}){{end}} or internal {{.Brand}} information, under the client's information. Such details should only be mentioned under the Phone Call Key Points or elsewhere as relevant.
` +
	`After transcribing the audio, if the content is not a conversation or contains irrelevant information (such as hold music), respond with '` + NoConversationReply + `' Otherwise, summarize the content as instructed. ` +
	`The summary should follow the format below:

` + SectionClientInformation + `
` + SectionKeyPoints + ` {{.Transcript}}
` + SectionCustomerNotes + ` Identify the customer based on their inquiries and responses if there is.
` + SectionRecommendation + ` Finally, Give some recommendations for our sale team.
`

const keywordsPrompt = `You are an AI assistant tasked with extracting keywords from a conversation or document. ` +
	`List the most relevant keywords based on the text provided below:

{{.Transcript}}

The output should be formatted as:
keyword
keyword1, keyword2, keyword3...
`
