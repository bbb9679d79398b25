package wizard

import "fmt"

// Step is a page of the endpoint registration form.
type Step int

const (
	StepBasicInfo Step = iota
	StepEndpointDetails
	StepHeaders
	StepQueryParams
	StepRequestBody
	StepPricing
	StepWalletReview
)

// LastStep is the step Submit is issued from.
const LastStep = StepWalletReview

var stepDefinitions = [...]struct {
	title  string
	fields []string
}{
	StepBasicInfo:       {title: "Basic Info", fields: []string{"description", "category", "docsUrl"}},
	StepEndpointDetails: {title: "Endpoint Details", fields: []string{"providerUrl", "sampleResponse"}},
	StepHeaders:         {title: "Headers", fields: []string{"upstreamHeaders"}},
	StepQueryParams:     {title: "Query Params", fields: []string{"queryParams"}},
	StepRequestBody:     {title: "Request Body", fields: []string{"requestBody"}},
	StepPricing:         {title: "Pricing", fields: []string{"chainId", "tokenId", "priceAmount"}},
	StepWalletReview:    {title: "Wallet & Review", fields: []string{"walletId"}},
}

// Steps returns every step in order.
func Steps() []Step {
	steps := make([]Step, 0, len(stepDefinitions))
	for i := range stepDefinitions {
		steps = append(steps, Step(i))
	}
	return steps
}

func (s Step) Valid() bool {
	return s >= StepBasicInfo && s <= LastStep
}

func (s Step) Title() string {
	if !s.Valid() {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepDefinitions[s].title
}

// Fields lists the form fields validated before leaving the step.
func (s Step) Fields() []string {
	if !s.Valid() {
		return nil
	}
	return stepDefinitions[s].fields
}

func (s Step) String() string {
	return s.Title()
}

// Categories are the marketplace categories a provider can file an endpoint under.
var Categories = []string{
	"AI & Machine Learning",
	"Finance & Banking",
	"Blockchain & Crypto",
	"Data & Analytics",
	"Communication",
	"Social Media",
	"Weather",
	"Maps & Location",
	"E-Commerce",
	"Healthcare",
	"Other",
}

func isCategory(value string) bool {
	for _, c := range Categories {
		if c == value {
			return true
		}
	}
	return false
}
