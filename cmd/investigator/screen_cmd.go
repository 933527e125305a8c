package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/clearcheck/investigator/internal/config"
	"github.com/clearcheck/investigator/pkg/auth"
	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/investigation"
)

// runScreenCmd runs a single screening synchronously and prints the
// resulting Profile as JSON, for local testing and scripted one-off runs
// (the HTTP API surface spec §1 keeps external is the production
// entrypoint for initiate_screening).
func runScreenCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("screen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	entityID := fs.String("entity", "", "entity ID to screen (required)")
	tenantID := fs.String("tenant", "default", "tenant ID")
	jurisdiction := fs.String("jurisdiction", "US", "jurisdiction code")
	role := fs.String("role", "", "role category (required)")
	tier := fs.String("tier", string(domain.TierStandard), "Standard or Enhanced")
	degree := fs.String("degree", string(domain.DegreeD1), "D1, D2, or D3")
	name := fs.String("name", "", "subject full name")
	dob := fs.String("dob", "", "subject date of birth, YYYY-MM-DD")
	ssn := fs.String("ssn", "", "subject national ID, digits-only")
	caller := fs.String("as", "cli-operator", "principal ID recorded as the screening's initiator")
	callerRole := fs.String("as-role", "admin", "principal's role, checked against the screening permission")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *entityID == "" || *role == "" {
		fmt.Fprintln(stderr, "investigator screen: -entity and -role are required")
		fs.Usage()
		return 2
	}

	cfg := config.Load()
	d, err := bootstrap(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "investigator: %v\n", err)
		return 1
	}

	identifiers := domain.Identifiers{Name: *name, DOB: *dob, SSN: *ssn}

	// Resolve the claimed identifiers to a canonical entity before anything
	// else runs (spec §4.D): a subject whose name/DOB/SSN match an entity
	// already known to this tenant is folded onto that entity rather than
	// starting a disconnected duplicate, even if -entity names a different
	// ID than a prior run used for the same person.
	resolution, err := d.resolver.Resolve(context.Background(), *tenantID, *entityID, identifiers)
	if err != nil {
		fmt.Fprintf(stderr, "investigator: resolve entity: %v\n", err)
		return 1
	}
	resolvedEntityID := resolution.Entity.EntityID

	req := investigation.ScreeningRequest{
		TenantID:     *tenantID,
		EntityID:     resolvedEntityID,
		Identifiers:  identifiers,
		Jurisdiction: *jurisdiction,
		RoleCategory: *role,
		Tier:         domain.Tier(*tier),
		Degree:       domain.Degree(*degree),
	}
	d.directory.Register(resolvedEntityID, identifiers, req)

	ctx := auth.WithPrincipal(context.Background(), &auth.BasePrincipal{
		ID:       *caller,
		TenantID: *tenantID,
		Roles:    []string{*callerRole},
	})
	profile, delta, err := d.engine.Run(ctx, req)
	if err != nil {
		fmt.Fprintf(stderr, "investigator: screening failed: %v\n", err)
		return 1
	}

	out := struct {
		Profile domain.Profile       `json:"profile"`
		Delta   *domain.ProfileDelta `json:"delta,omitempty"`
	}{Profile: profile, Delta: delta}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "investigator: encode result: %v\n", err)
		return 1
	}
	return 0
}
