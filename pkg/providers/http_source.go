package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/clearcheck/investigator/pkg/domain"
)

// HTTPSource is a generic JSON/REST capability source: one HTTP endpoint
// per supported check_type, posting the subject's Identifiers and
// decoding an arbitrary JSON object as the payload. Concrete vendor
// integrations (the actual HRIS/background-check vendor contracts) are an
// external adapter concern (spec §1's "Out of scope... HRIS-specific
// payload parsing"); HTTPSource is the one reusable shape that concern
// reduces to once a vendor speaks plain JSON over HTTP, grounded on the
// teacher's pkg/llm.OpenAIClient request/response style.
type HTTPSource struct {
	endpoints map[domain.InformationType]string
	apiKey    string
	client    *http.Client
}

// NewHTTPSource builds a source from a check_type->URL map. endpoints
// determines Capabilities(): only the InformationTypes with a configured
// endpoint are probed as supported.
func NewHTTPSource(endpoints map[domain.InformationType]string, apiKey string) *HTTPSource {
	return &HTTPSource{
		endpoints: endpoints,
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type httpSourceRequest struct {
	Subject domain.Identifiers `json:"subject"`
}

func (s *HTTPSource) call(ctx context.Context, checkType domain.InformationType, subject domain.Identifiers) (map[string]any, error) {
	url, ok := s.endpoints[checkType]
	if !ok {
		return nil, fmt.Errorf("http source: no endpoint configured for %s", checkType)
	}

	body, err := json.Marshal(httpSourceRequest{Subject: subject})
	if err != nil {
		return nil, fmt.Errorf("http source: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http source: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http source: call %s: %w", checkType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("http source: %s returned status %d", checkType, resp.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("http source: decode response: %w", err)
	}
	return payload, nil
}

// SupportsCheck implements Declarer: only the InformationTypes with a
// configured endpoint count as supported, even though every verifier
// method below is always implemented.
func (s *HTTPSource) SupportsCheck(checkType domain.InformationType) bool {
	_, ok := s.endpoints[checkType]
	return ok
}

func (s *HTTPSource) VerifyIdentity(ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
	return s.call(ctx, domain.InfoIdentity, subject)
}

func (s *HTTPSource) VerifyEmployment(ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
	return s.call(ctx, domain.InfoEmployment, subject)
}

func (s *HTTPSource) VerifyEducation(ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
	return s.call(ctx, domain.InfoEducation, subject)
}

func (s *HTTPSource) CheckCriminalRecords(ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
	return s.call(ctx, domain.InfoCriminal, subject)
}

func (s *HTTPSource) CheckCivilRecords(ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
	return s.call(ctx, domain.InfoCivil, subject)
}

func (s *HTTPSource) CheckFinancialRecords(ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
	return s.call(ctx, domain.InfoFinancial, subject)
}

func (s *HTTPSource) VerifyLicenses(ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
	return s.call(ctx, domain.InfoLicenses, subject)
}

func (s *HTTPSource) CheckRegulatoryActions(ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
	return s.call(ctx, domain.InfoRegulatory, subject)
}

func (s *HTTPSource) CheckSanctions(ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
	return s.call(ctx, domain.InfoSanctions, subject)
}

func (s *HTTPSource) ScanAdverseMedia(ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
	return s.call(ctx, domain.InfoAdverseMedia, subject)
}

func (s *HTTPSource) ScanDigitalFootprint(ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
	return s.call(ctx, domain.InfoDigitalFootprint, subject)
}
