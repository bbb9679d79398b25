// Package wizard drives the multi-step api endpoint registration flow: per-step
// validation, navigation between completed steps, price conversion on submit
// and cleanup of preview images that were never used.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rxtech-lab/x402-marketplace/internal/logger"
	"github.com/rxtech-lab/x402-marketplace/internal/models"
	"github.com/rxtech-lab/x402-marketplace/internal/pricing"
	"github.com/rxtech-lab/x402-marketplace/internal/validators"
	"go.uber.org/zap"
)

var (
	ErrStepLocked  = errors.New("step has not been completed yet")
	ErrNotLastStep = errors.New("submit is only available from the last step")
	ErrSubmitted   = errors.New("form has already been submitted")
)

// Form is the data collected across all steps. Price is the human-readable
// amount; it is scaled by the token decimals on submit.
type Form struct {
	Description     string
	Category        string
	DocsURL         string
	ImageURL        string
	ProviderURL     string
	GatewayPath     string
	SampleResponse  string
	UpstreamHeaders []validators.UpstreamHeaderInput
	QueryParams     []validators.QueryParamInput
	RequestBody     []validators.RequestBodyFieldInput
	ChainID         string
	TokenID         string
	Price           string
	WalletID        string
}

// TokenLookup resolves the token selected on the pricing step.
type TokenLookup interface {
	GetTokenByID(id string) (*models.Token, error)
}

// ImageDeleter removes an uploaded preview image.
type ImageDeleter interface {
	DeleteImage(ctx context.Context, publicID string) error
}

// SubmitFunc persists the assembled payload and returns the new endpoint id.
type SubmitFunc func(ctx context.Context, req validators.CreateApiEndpointRequest) (string, error)

// StepError lists the field issues that kept the wizard on Step.
type StepError struct {
	Step   Step
	Issues []validators.Issue
}

func (e *StepError) Error() string {
	fields := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		fields = append(fields, fmt.Sprintf("%s (%s)", issue.Field(), issue.Message))
	}
	return fmt.Sprintf("%s: %s", e.Step.Title(), strings.Join(fields, ", "))
}

// Wizard holds the state of one registration session. It is not safe for
// concurrent use.
type Wizard struct {
	form          Form
	current       Step
	completed     map[Step]bool
	imagePublicID string
	submitted     bool

	tokens TokenLookup
	images ImageDeleter
}

// New creates a wizard positioned on the first step. images may be nil when
// uploads are not used.
func New(tokens TokenLookup, images ImageDeleter) *Wizard {
	return &Wizard{
		current:   StepBasicInfo,
		completed: map[Step]bool{},
		tokens:    tokens,
		images:    images,
	}
}

// Form returns the form for editing.
func (w *Wizard) Form() *Form {
	return &w.form
}

func (w *Wizard) Current() Step {
	return w.current
}

func (w *Wizard) IsCompleted(step Step) bool {
	return w.completed[step]
}

func (w *Wizard) Submitted() bool {
	return w.submitted
}

// Next validates the current step and advances. On failure the wizard stays
// where it is and the returned *StepError names the offending fields.
func (w *Wizard) Next() error {
	if issues := w.validateStep(w.current); len(issues) > 0 {
		return &StepError{Step: w.current, Issues: issues}
	}
	w.completed[w.current] = true
	if w.current < LastStep {
		w.current++
	}
	return nil
}

// Back moves to the previous step without validating.
func (w *Wizard) Back() {
	if w.current > StepBasicInfo {
		w.current--
	}
}

// GoTo jumps to a completed step or stays on the current one.
func (w *Wizard) GoTo(step Step) error {
	if !step.Valid() {
		return fmt.Errorf("unknown step %d", int(step))
	}
	if step != w.current && !w.completed[step] {
		return ErrStepLocked
	}
	w.current = step
	return nil
}

// SetImage records an uploaded preview image. A previously uploaded image is
// deleted since nothing references it anymore.
func (w *Wizard) SetImage(ctx context.Context, url string, publicID string) {
	if w.imagePublicID != "" && w.imagePublicID != publicID {
		w.deleteImage(ctx, w.imagePublicID)
	}
	w.form.ImageURL = url
	w.imagePublicID = publicID
}

// RemoveImage clears and deletes the preview image.
func (w *Wizard) RemoveImage(ctx context.Context) {
	if w.imagePublicID != "" {
		w.deleteImage(ctx, w.imagePublicID)
	}
	w.form.ImageURL = ""
	w.imagePublicID = ""
}

// Abandon releases the preview image of a session that was never submitted.
func (w *Wizard) Abandon(ctx context.Context) {
	if w.submitted || w.imagePublicID == "" {
		return
	}
	w.deleteImage(ctx, w.imagePublicID)
	w.imagePublicID = ""
}

// Submit validates the last step, converts the price with the token's
// decimals and hands the payload to submit.
func (w *Wizard) Submit(ctx context.Context, submit SubmitFunc) (string, error) {
	if w.submitted {
		return "", ErrSubmitted
	}
	if w.current != LastStep {
		return "", ErrNotLastStep
	}
	if issues := w.validateStep(w.current); len(issues) > 0 {
		return "", &StepError{Step: w.current, Issues: issues}
	}

	token, err := w.tokens.GetTokenByID(w.form.TokenID)
	if err != nil {
		return "", fmt.Errorf("failed to load token %s: %w", w.form.TokenID, err)
	}

	if token.ChainID != w.form.ChainID {
		return "", &StepError{Step: StepPricing, Issues: []validators.Issue{tokenChainIssue()}}
	}

	amount, err := pricing.ParseUnits(w.form.Price, token.Decimals)
	if err != nil {
		return "", &StepError{Step: StepPricing, Issues: []validators.Issue{
			{Code: "custom", Path: []interface{}{"priceAmount"}, Message: err.Error()},
		}}
	}

	req := w.payload(amount)
	if err := validators.Validate(req); err != nil {
		return "", err
	}

	id, err := submit(ctx, req)
	if err != nil {
		return "", err
	}
	w.submitted = true
	w.completed[w.current] = true
	return id, nil
}

func (w *Wizard) payload(priceAmount string) validators.CreateApiEndpointRequest {
	req := validators.CreateApiEndpointRequest{
		Description:     w.form.Description,
		DocsURL:         w.form.DocsURL,
		ImageURL:        w.form.ImageURL,
		SampleResponse:  w.form.SampleResponse,
		WalletID:        w.form.WalletID,
		PriceAmount:     priceAmount,
		TokenID:         w.form.TokenID,
		ProviderURL:     w.form.ProviderURL,
		Category:        w.form.Category,
		UpstreamHeaders: w.form.UpstreamHeaders,
		QueryParams:     w.form.QueryParams,
		RequestBody:     w.form.RequestBody,
	}
	if w.form.GatewayPath != "" {
		gatewayPath := w.form.GatewayPath
		req.GatewayPath = &gatewayPath
	}
	return req
}

func (w *Wizard) validateStep(step Step) []validators.Issue {
	var issues []validators.Issue

	// priceAmount is checked below in its human-readable form
	if err := validators.Validate(w.payload("0")); err != nil {
		var verr *validators.ValidationError
		if !errors.As(err, &verr) {
			return []validators.Issue{{Code: "custom", Path: []interface{}{}, Message: err.Error()}}
		}
		issues = append(issues, verr.Filter(step.Fields()...)...)
	}

	switch step {
	case StepBasicInfo:
		if w.form.Category != "" && !isCategory(w.form.Category) {
			issues = append(issues, validators.Issue{
				Code:    "invalid_enum_value",
				Path:    []interface{}{"category"},
				Message: "Unknown category",
			})
		}
	case StepPricing:
		if w.form.ChainID == "" {
			issues = append(issues, validators.Issue{
				Code:    "custom",
				Path:    []interface{}{"chainId"},
				Message: "Please select a chain",
			})
		} else if w.form.TokenID != "" && w.tokens != nil {
			// lookup failures are reported by Submit
			if token, err := w.tokens.GetTokenByID(w.form.TokenID); err == nil && token.ChainID != w.form.ChainID {
				issues = append(issues, tokenChainIssue())
			}
		}
		if strings.TrimSpace(w.form.Price) == "" {
			issues = append(issues, validators.Issue{
				Code:    "too_small",
				Path:    []interface{}{"priceAmount"},
				Message: "Price is required",
			})
		} else if _, err := pricing.ParseUnits(w.form.Price, pricing.MaxDecimals); err != nil {
			issues = append(issues, validators.Issue{
				Code:    "custom",
				Path:    []interface{}{"priceAmount"},
				Message: err.Error(),
			})
		}
	}
	return issues
}

// tokenChainIssue rejects a token that is not listed on the selected chain.
func tokenChainIssue() validators.Issue {
	return validators.Issue{
		Code:    "custom",
		Path:    []interface{}{"tokenId"},
		Message: "Token is not available on the selected chain",
	}
}

func (w *Wizard) deleteImage(ctx context.Context, publicID string) {
	if w.images == nil {
		return
	}
	if err := w.images.DeleteImage(ctx, publicID); err != nil {
		logger.WarnCtx(ctx, "failed to delete abandoned preview image",
			zap.String("public_id", publicID), zap.Error(err))
	}
}
