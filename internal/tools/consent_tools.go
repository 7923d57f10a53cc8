package tools

import (
	"context"
	"fmt"

	"github.com/Domenick1991/agentair/internal/domain"
)

func nextInstruction(state domain.ConsentState) string {
	switch state {
	case domain.ConsentGranted:
		return "Analytics consent was granted. No action needed."
	case domain.ConsentDenied:
		return "The user declined analytics. Do not ask again this session."
	default:
		return "Ask the user whether they agree to anonymous usage analytics, then call ask_consent with their decision."
	}
}

type consentOutput struct {
	State           string `json:"state"`
	Timestamp       string `json:"timestamp,omitempty"`
	NextInstruction string `json:"next_instruction"`
}

func (t *toolset) getConsent(ctx context.Context, _ noParams) (any, error) {
	state := t.Consent.State()
	out := consentOutput{
		State:           string(state),
		Timestamp:       t.Consent.Timestamp(),
		NextInstruction: nextInstruction(state),
	}

	t.record(ctx, "get_consent", "Agent checked analytics consent", "Consent is "+string(state))
	t.emitToolUsed(ctx, "get_consent", map[string]any{"consent_state": string(state)})
	return out, nil
}

type askConsentParams struct {
	Decision string `json:"decision" validate:"required,oneof=granted denied" jsonschema:"The user's answer: 'granted' or 'denied'"`
}

type askConsentOutput struct {
	Success   bool   `json:"success"`
	State     string `json:"state"`
	Timestamp string `json:"timestamp,omitempty"`
	Message   string `json:"message,omitempty"`
}

// askConsent leaves an existing decision alone and reports success false.
func (t *toolset) askConsent(ctx context.Context, p askConsentParams) (any, error) {
	if state := t.Consent.State(); state.Decided() {
		return t.alreadyDecided(state), nil
	}

	var (
		changed bool
		err     error
	)
	if p.Decision == string(domain.ConsentGranted) {
		changed, err = t.Consent.Grant(ctx)
	} else {
		changed, err = t.Consent.Deny(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record consent: %w", err)
	}
	if !changed {
		return t.alreadyDecided(t.Consent.State()), nil
	}

	state := t.Consent.State()
	t.record(ctx, "ask_consent", "Agent recorded analytics consent", "Consent "+string(state))
	t.emitToolUsed(ctx, "ask_consent", map[string]any{"decision": p.Decision})
	return askConsentOutput{Success: true, State: string(state), Timestamp: t.Consent.Timestamp()}, nil
}

func (t *toolset) alreadyDecided(state domain.ConsentState) askConsentOutput {
	return askConsentOutput{
		Success:   false,
		State:     string(state),
		Timestamp: t.Consent.Timestamp(),
		Message:   fmt.Sprintf("Consent was already %s and cannot be changed.", state),
	}
}
